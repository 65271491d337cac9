package tagged

import (
	"strconv"
	"strings"
)

// BaseFileType is the Perforce base file type. Unknown names are kept verbatim.
type BaseFileType string

const (
	BaseText     BaseFileType = "text"
	BaseBinary   BaseFileType = "binary"
	BaseSymlink  BaseFileType = "symlink"
	BaseApple    BaseFileType = "apple"
	BaseResource BaseFileType = "resource"
	BaseUnicode  BaseFileType = "unicode"
	BaseUTF8     BaseFileType = "utf8"
	BaseUTF16    BaseFileType = "utf16"
)

// Modifiers are the file type flags that follow the '+' in a file type.
type Modifiers struct {
	AlwaysWritable   bool // w
	Executable       bool // x
	KeywordExpansion bool // k
	KeywordLimited   bool // ko, only $Id$ and $Header$
	Exclusive        bool // l
	FullCompressed   bool // C
	Deltas           bool // D
	FullUncompressed bool // F
	HeadOnly         bool // S
	Revisions        int  // S<n>
	Modtime          bool // m
	ArchiveTrigger   bool // X
	// Unknown keeps flag letters this package does not recognize.
	Unknown string
}

// FileType is a parsed Perforce file type such as "binary+l" or "ktext".
type FileType struct {
	Base BaseFileType
	Mods Modifiers
	// raw is the type exactly as p4 reported it.
	raw string
}

// legacyTypes maps pre-2000 type names onto base type and modifiers.
var legacyTypes = map[string]string{
	"ctempobj":  "binary+Sw",
	"ctext":     "text+C",
	"cxtext":    "text+Cx",
	"ktext":     "text+k",
	"kxtext":    "text+kx",
	"ltext":     "text+F",
	"tempobj":   "binary+FSw",
	"ubinary":   "binary+F",
	"uresource": "resource+F",
	"uxbinary":  "binary+Fx",
	"xbinary":   "binary+x",
	"xltext":    "text+Fx",
	"xtempobj":  "binary+Swx",
	"xtext":     "text+x",
	"xunicode":  "unicode+x",
	"xutf16":    "utf16+x",
}

// ParseFileType parses a file type as reported in the `type` field. It never
// fails: unknown base types and flags are preserved so that String renders
// them back.
func ParseFileType(s string) FileType {
	base, mods, _ := strings.Cut(s, "+")
	ft := FileType{raw: s}
	if alias, ok := legacyTypes[base]; ok {
		aliasBase, aliasMods, _ := strings.Cut(alias, "+")
		ft.Base = BaseFileType(aliasBase)
		ft.Mods.apply(aliasMods)
	} else {
		ft.Base = BaseFileType(base)
	}
	ft.Mods.apply(mods)
	return ft
}

func (m *Modifiers) apply(flags string) {
	for i := 0; i < len(flags); i++ {
		switch ch := flags[i]; ch {
		case 'w':
			m.AlwaysWritable = true
		case 'x':
			m.Executable = true
		case 'k':
			if i+1 < len(flags) && flags[i+1] == 'o' {
				m.KeywordLimited = true
				i++
				continue
			}
			m.KeywordExpansion = true
		case 'l':
			m.Exclusive = true
		case 'C':
			m.FullCompressed = true
		case 'D':
			m.Deltas = true
		case 'F':
			m.FullUncompressed = true
		case 'S':
			j := i + 1
			for j < len(flags) && flags[j] >= '0' && flags[j] <= '9' {
				j++
			}
			if j > i+1 {
				n, err := strconv.Atoi(flags[i+1 : j])
				if err == nil {
					m.Revisions = n
					i = j - 1
					continue
				}
				m.Unknown += flags[i:j]
				i = j - 1
				continue
			}
			m.HeadOnly = true
		case 'm':
			m.Modtime = true
		case 'X':
			m.ArchiveTrigger = true
		default:
			m.Unknown += string(ch)
		}
	}
}

// IsZero reports whether no modifier is set.
func (m Modifiers) IsZero() bool { return m == Modifiers{} }

func (m Modifiers) String() string {
	var b strings.Builder
	flag := func(set bool, s string) {
		if set {
			b.WriteString(s)
		}
	}
	flag(m.AlwaysWritable, "w")
	flag(m.Executable, "x")
	flag(m.KeywordExpansion, "k")
	flag(m.KeywordLimited, "ko")
	flag(m.Exclusive, "l")
	flag(m.FullCompressed, "C")
	flag(m.Deltas, "D")
	flag(m.FullUncompressed, "F")
	if m.Revisions > 0 {
		b.WriteString("S" + strconv.Itoa(m.Revisions))
	} else {
		flag(m.HeadOnly, "S")
	}
	flag(m.Modtime, "m")
	flag(m.ArchiveTrigger, "X")
	b.WriteString(m.Unknown)
	return b.String()
}

func (ft FileType) String() string {
	if ft.Mods.IsZero() {
		return string(ft.Base)
	}
	return string(ft.Base) + "+" + ft.Mods.String()
}

// Raw returns the type as it appeared in the output, falling back to String
// for values not built by ParseFileType.
func (ft FileType) Raw() string {
	if ft.raw != "" {
		return ft.raw
	}
	return ft.String()
}

// IsBinary reports whether files of this type are transferred as raw bytes.
func (ft FileType) IsBinary() bool {
	switch ft.Base {
	case BaseBinary, BaseApple, BaseResource:
		return true
	}
	return false
}
