package tagged

// recordFunc assembles one domain record. It reports ok=false when a field
// does not match; the caller rewinds the cursor.
type recordFunc[T any] func(c *cursor) (T, bool, error)

// grammar is the alternation shared by every command: a full record, an
// error or warning line, and for some commands an informational line.
type grammar[T any] struct {
	record recordFunc[T]
	info   bool
}

func decodeStream[T any](data []byte, invocation string, g grammar[T]) (*Stream[T], error) {
	items, err := g.items(data)
	if err != nil {
		return nil, NewError(ParseFailed, invocation, err)
	}
	return newStream(items), nil
}

func (g grammar[T]) items(data []byte) ([]Item[T], error) {
	c := &cursor{buf: data}
	items := make([]Item[T], 0, 8)
	for !c.eof() {
		it, ok, err := g.next(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		items = append(items, it)
	}
	code, ok, err := exitLine(c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, syntaxErr(c.pos, "exit", ErrMissingExit)
	}
	// Anything after the exit line is ignored.
	return append(items, ExitItem[T](code)), nil
}

func (g grammar[T]) next(c *cursor) (Item[T], bool, error) {
	mark := c.pos
	v, ok, err := g.record(c)
	if err != nil {
		return Item[T]{}, false, err
	}
	if ok {
		return DataItem(v), true, nil
	}
	c.pos = mark

	if msg, ok, err := errorLine(c); err != nil || ok {
		return MessageItem[T](LevelError, msg), ok, err
	}
	if msg, ok, err := warningLine(c); err != nil || ok {
		return MessageItem[T](LevelWarning, msg), ok, err
	}
	if g.info {
		if msg, ok, err := infoLine(c); err != nil || ok {
			return MessageItem[T](LevelInfo, msg), ok, err
		}
	}
	return Item[T]{}, false, nil
}

// DecodeDirs decodes the output of `p4 -ztag -s dirs`.
func DecodeDirs(data []byte, invocation string) (*Stream[Dir], error) {
	return decodeStream(data, invocation, grammar[Dir]{record: dirRecord})
}

// DecodeFiles decodes the output of `p4 -ztag -s files`.
func DecodeFiles(data []byte, invocation string) (*Stream[File], error) {
	return decodeStream(data, invocation, grammar[File]{record: fileRecord, info: true})
}

// DecodePrint decodes the output of `p4 -ztag -s print`, including the file
// contents that follow each record.
func DecodePrint(data []byte, invocation string) (*Stream[PrintedFile], error) {
	return decodeStream(data, invocation, grammar[PrintedFile]{record: printedFileRecord})
}

// DecodeSync decodes the output of `p4 -ztag -s sync`.
func DecodeSync(data []byte, invocation string) (*Stream[SyncedFile], error) {
	return decodeStream(data, invocation, grammar[SyncedFile]{record: syncedFileRecord, info: true})
}

// DecodeWhere decodes the output of `p4 -ztag -s where`.
func DecodeWhere(data []byte, invocation string) (*Stream[MappedFile], error) {
	return decodeStream(data, invocation, grammar[MappedFile]{record: mappedFileRecord})
}
