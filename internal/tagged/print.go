package tagged

// ContentKind tells how printed file contents were transferred.
type ContentKind int

const (
	ContentText ContentKind = iota + 1
	ContentBinary
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Content holds the contents of a printed file: either the text lines with
// tag and terminator stripped, or the raw bytes exactly as declared by
// fileSize.
type Content struct {
	kind  ContentKind
	lines []string
	raw   []byte
}

func TextContent(lines []string) Content {
	return Content{kind: ContentText, lines: lines}
}

func BinaryContent(raw []byte) Content {
	return Content{kind: ContentBinary, raw: raw}
}

func (c Content) Kind() ContentKind { return c.kind }

func (c Content) Text() ([]string, bool) {
	if c.kind != ContentText {
		return nil, false
	}
	return c.lines, true
}

func (c Content) Binary() ([]byte, bool) {
	if c.kind != ContentBinary {
		return nil, false
	}
	return c.raw, true
}

// PrintedFile is one entry of `p4 print`: the listing fields, the declared
// size and the contents.
type PrintedFile struct {
	File
	FileSize int64
	Content  Content
}

func printedFileRecord(c *cursor) (PrintedFile, bool, error) {
	f, ok, err := fileRecord(c)
	if !ok || err != nil {
		return PrintedFile{}, false, err
	}
	size, ok, err := fileSizeField(c)
	if !ok || err != nil {
		return PrintedFile{}, false, err
	}
	content, ok, err := demuxContent(c, f.Type, size)
	if !ok || err != nil {
		return PrintedFile{}, false, err
	}
	return PrintedFile{File: f, FileSize: size, Content: content}, true, nil
}

// demuxContent reads the contents following a fileSize line. Declared binary
// types try the raw span first; every other type tries tagged text lines
// first. The cursor must sit right after the fileSize line.
func demuxContent(c *cursor, ft FileType, size int64) (Content, bool, error) {
	if ft.IsBinary() {
		if raw, ok := binarySpan(c, size); ok {
			return BinaryContent(raw), true, nil
		}
		lines, ok, err := textLines(c)
		if err != nil {
			return Content{}, false, err
		}
		if !ok {
			return Content{}, false, &SyntaxError{Offset: c.pos, Field: "content", Err: ErrTruncatedContent}
		}
		return TextContent(lines), true, nil
	}

	lines, ok, err := textLines(c)
	if err != nil {
		return Content{}, false, err
	}
	if ok {
		return TextContent(lines), true, nil
	}
	if size == 0 {
		return TextContent([]string{}), true, nil
	}
	raw, ok := binarySpan(c, size)
	if !ok {
		return Content{}, false, &SyntaxError{Offset: c.pos, Field: "content", Err: ErrTruncatedContent}
	}
	return BinaryContent(raw), true, nil
}

// textLines collects one or more consecutive text lines.
func textLines(c *cursor) ([]string, bool, error) {
	var lines []string
	for {
		line, ok, err := textLine(c)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	return lines, len(lines) > 0, nil
}

// binarySpan takes size raw bytes. When the fileSize line ended with a
// two-byte terminator the second byte may belong to the payload, so both
// starts are tried and the one whose span ends at a tag or at end of input
// wins. The full-terminator start is preferred.
func binarySpan(c *cursor, size int64) ([]byte, bool) {
	starts := []int{c.pos}
	if c.short != c.pos {
		starts = append(starts, c.short)
	}
	fallback := -1
	for _, start := range starts {
		if size > int64(len(c.buf)-start) {
			continue
		}
		end := start + int(size)
		if fallback < 0 {
			fallback = start
		}
		probe := cursor{buf: c.buf, pos: end}
		if probe.eof() || probe.atTag() {
			return c.take(start, end), true
		}
	}
	if fallback < 0 {
		return nil, false
	}
	return c.take(fallback, fallback+int(size)), true
}

func (c *cursor) take(start, end int) []byte {
	raw := make([]byte, end-start)
	copy(raw, c.buf[start:end])
	c.pos = end
	return raw
}
