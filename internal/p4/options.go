package p4

import "strconv"

// DirsOptions maps onto the flags of `p4 dirs`.
type DirsOptions struct {
	// ClientOnly lists only directories that fall within the client view (-C).
	ClientOnly bool
	// Stream lists directories mapped by a stream's view (-S).
	Stream string
	// IncludeDeleted includes directories whose files are all deleted (-D).
	IncludeDeleted bool
	// IncludeSynced lists only directories holding synced files (-H).
	IncludeSynced bool
	// IgnoreCase matches the pattern case-insensitively (-i).
	IgnoreCase bool
}

func (o DirsOptions) Args() []string {
	var a []string
	if o.ClientOnly {
		a = append(a, "-C")
	}
	if o.Stream != "" {
		a = append(a, "-S", o.Stream)
	}
	if o.IncludeDeleted {
		a = append(a, "-D")
	}
	if o.IncludeSynced {
		a = append(a, "-H")
	}
	if o.IgnoreCase {
		a = append(a, "-i")
	}
	return a
}

// FilesOptions maps onto the flags of `p4 files`.
type FilesOptions struct {
	AllRevisions bool // -a
	SyncableOnly bool // -e, excludes deleted, purged and archived revisions
	IgnoreCase   bool // -i
	Max          int  // -m
}

func (o FilesOptions) Args() []string {
	var a []string
	if o.AllRevisions {
		a = append(a, "-a")
	}
	if o.SyncableOnly {
		a = append(a, "-e")
	}
	if o.IgnoreCase {
		a = append(a, "-i")
	}
	return appendMax(a, o.Max)
}

// PrintOptions maps onto the flags of `p4 print`.
type PrintOptions struct {
	AllRevisions       bool // -a
	NoKeywordExpansion bool // -k
	Max                int  // -m
}

func (o PrintOptions) Args() []string {
	var a []string
	if o.AllRevisions {
		a = append(a, "-a")
	}
	if o.NoKeywordExpansion {
		a = append(a, "-k")
	}
	return appendMax(a, o.Max)
}

// SyncOptions maps onto the flags of `p4 sync`.
type SyncOptions struct {
	Force      bool // -f
	Preview    bool // -n
	ServerOnly bool // -k, update the have list without transferring files
	ClientOnly bool // -p, transfer files without updating the have list
	Verify     bool // -s
	Max        int  // -m
	// Parallel requests N transfer threads. Zero leaves the server default.
	Parallel int
}

func (o SyncOptions) Args() []string {
	var a []string
	if o.Force {
		a = append(a, "-f")
	}
	if o.Preview {
		a = append(a, "-n")
	}
	if o.ServerOnly {
		a = append(a, "-k")
	}
	if o.ClientOnly {
		a = append(a, "-p")
	}
	if o.Verify {
		a = append(a, "-s")
	}
	a = appendMax(a, o.Max)
	if o.Parallel > 0 {
		a = append(a, "--parallel", "threads="+strconv.Itoa(o.Parallel))
	}
	return a
}

// WhereOptions is empty: `p4 where` only takes paths.
type WhereOptions struct{}

func (WhereOptions) Args() []string { return nil }

func appendMax(a []string, n int) []string {
	if n > 0 {
		a = append(a, "-m", strconv.Itoa(n))
	}
	return a
}
