package tagged

import (
	"bytes"
	"errors"
	"strconv"
	"unicode/utf8"
)

// Line prefixes of the tagged scripting-mode output.
const (
	tagExit       = "exit: "
	tagError      = "error: "
	tagWarning    = "warning: "
	tagInfo       = "info: "
	tagInfo1      = "info1: "
	tagText       = "text: "
	tagDir        = "info1: dir "
	tagDepotFile  = "info1: depotFile "
	tagClientFile = "info1: clientFile "
	tagPath       = "info1: path "
	tagRev        = "info1: rev "
	tagChange     = "info1: change "
	tagAction     = "info1: action "
	tagType       = "info1: type "
	tagTime       = "info1: time "
	tagFileSize   = "info1: fileSize "
)

// lineTags are the prefixes a line may start with. A binary span is only
// accepted when it ends at one of them or at end of input.
var lineTags = []string{tagInfo1, tagInfo, tagText, tagError, tagWarning, tagExit}

// cursor walks an input buffer. Field decoders either match and advance, or
// leave pos untouched.
type cursor struct {
	buf []byte
	pos int
	// short is the position right after the first terminator byte of the
	// last matched line. It differs from pos for two-byte terminators.
	short int
}

func (c *cursor) eof() bool { return c.pos >= len(c.buf) }

// terminatorLen returns the length of the line terminator at the start of b.
// Two-byte forms win over one-byte forms.
func terminatorLen(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	switch b[0] {
	case '\n':
		if len(b) > 1 && b[1] == '\r' {
			return 2
		}
		return 1
	case '\r':
		if len(b) > 1 && b[1] == '\n' {
			return 2
		}
		return 1
	}
	return 0
}

// match consumes one line starting with tag and returns its value bytes and
// the offset where the value starts. A line without terminator does not match.
func (c *cursor) match(tag string) ([]byte, int, bool) {
	rest := c.buf[c.pos:]
	if !bytes.HasPrefix(rest, []byte(tag)) {
		return nil, 0, false
	}
	body := rest[len(tag):]
	end := bytes.IndexAny(body, "\r\n")
	if end < 0 {
		return nil, 0, false
	}
	start := c.pos + len(tag)
	n := terminatorLen(body[end:])
	c.short = start + end + 1
	c.pos = start + end + n
	return body[:end], start, true
}

func (c *cursor) atTag() bool {
	rest := c.buf[c.pos:]
	for _, tag := range lineTags {
		if bytes.HasPrefix(rest, []byte(tag)) {
			return true
		}
	}
	return false
}

func syntaxErr(offset int, field string, err error) error {
	return &SyntaxError{Offset: offset, Field: field, Err: err}
}

func textField(c *cursor, name, tag string) (string, bool, error) {
	raw, start, ok := c.match(tag)
	if !ok {
		return "", false, nil
	}
	if !utf8.Valid(raw) {
		return "", false, syntaxErr(start, name, ErrInvalidUTF8)
	}
	return string(raw), true, nil
}

func allDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// uintField decodes an unsigned decimal that must fit in bits.
func uintField(c *cursor, name, tag string, bits int) (uint64, bool, error) {
	raw, start, ok := c.match(tag)
	if !ok {
		return 0, false, nil
	}
	if !allDigits(raw) {
		return 0, false, syntaxErr(start, name, ErrInvalidNumber)
	}
	n, err := strconv.ParseUint(string(raw), 10, bits)
	if err != nil {
		return 0, false, syntaxErr(start, name, numberErr(err))
	}
	return n, true, nil
}

func numberErr(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return ErrNumberRange
	}
	return ErrInvalidNumber
}

// intBits is the width usable for values stored in a signed int.
const intBits = strconv.IntSize - 1

func exitLine(c *cursor) (int32, bool, error) {
	raw, start, ok := c.match(tagExit)
	if !ok {
		return 0, false, nil
	}
	digits := raw
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		digits = digits[1:]
	}
	if !allDigits(digits) {
		return 0, false, syntaxErr(start, "exit", ErrInvalidNumber)
	}
	n, err := strconv.ParseInt(string(raw), 10, 32)
	if err != nil {
		return 0, false, syntaxErr(start, "exit", numberErr(err))
	}
	return int32(n), true, nil
}

func errorLine(c *cursor) (string, bool, error) { return textField(c, "error", tagError) }

func warningLine(c *cursor) (string, bool, error) { return textField(c, "warning", tagWarning) }

func infoLine(c *cursor) (string, bool, error) { return textField(c, "info", tagInfo) }

func textLine(c *cursor) (string, bool, error) { return textField(c, "text", tagText) }

func dirField(c *cursor) (string, bool, error) { return textField(c, "dir", tagDir) }

func depotFileField(c *cursor) (string, bool, error) {
	return textField(c, "depotFile", tagDepotFile)
}

func clientFileField(c *cursor) (string, bool, error) {
	return textField(c, "clientFile", tagClientFile)
}

func pathField(c *cursor) (string, bool, error) { return textField(c, "path", tagPath) }

func actionField(c *cursor) (string, bool, error) { return textField(c, "action", tagAction) }

func typeField(c *cursor) (string, bool, error) { return textField(c, "type", tagType) }

// anyInfo1Field matches any info1 line; the value is not validated because it
// is discarded.
func anyInfo1Field(c *cursor) bool {
	_, _, ok := c.match(tagInfo1)
	return ok
}

func revField(c *cursor) (int, bool, error) {
	n, ok, err := uintField(c, "rev", tagRev, intBits)
	return int(n), ok, err
}

func changeField(c *cursor) (int, bool, error) {
	n, ok, err := uintField(c, "change", tagChange, intBits)
	return int(n), ok, err
}

func timeField(c *cursor) (int64, bool, error) {
	n, ok, err := uintField(c, "time", tagTime, 63)
	return int64(n), ok, err
}

func fileSizeField(c *cursor) (int64, bool, error) {
	n, ok, err := uintField(c, "fileSize", tagFileSize, 63)
	return int64(n), ok, err
}
