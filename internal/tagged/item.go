package tagged

import "iter"

// ItemKind tells which variant an Item holds.
type ItemKind int

const (
	KindData ItemKind = iota + 1
	KindMessage
	KindError
)

func (k ItemKind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindMessage:
		return "message"
	case KindError:
		return "exit"
	default:
		return "unknown"
	}
}

// Level is the severity of an in-stream message.
type Level int

const (
	LevelError Level = iota + 1
	LevelWarning
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Message is a line the p4 client emitted about one record or the command.
type Message struct {
	Level Level
	Text  string
}

// Item is one classified entry of a decoded output stream.
// Exactly one of data, message or code is meaningful, according to Kind.
type Item[T any] struct {
	kind    ItemKind
	data    T
	message Message
	code    int32
}

func DataItem[T any](v T) Item[T] {
	return Item[T]{kind: KindData, data: v}
}

func MessageItem[T any](level Level, text string) Item[T] {
	return Item[T]{kind: KindMessage, message: Message{Level: level, Text: text}}
}

// ExitItem wraps the process exit status. Zero is success by convention; the
// decoder does not treat it specially.
func ExitItem[T any](code int32) Item[T] {
	return Item[T]{kind: KindError, code: code}
}

func (it Item[T]) Kind() ItemKind { return it.kind }

func (it Item[T]) Data() (T, bool) {
	if it.kind != KindData {
		var zero T
		return zero, false
	}
	return it.data, true
}

func (it Item[T]) Message() (Message, bool) {
	if it.kind != KindMessage {
		return Message{}, false
	}
	return it.message, true
}

// Code returns the exit status carried by an exit item.
func (it Item[T]) Code() (int32, bool) {
	if it.kind != KindError {
		return 0, false
	}
	return it.code, true
}

// Stream is a forward-only view over a fully decoded output. The last item is
// always the exit item. A consumed stream cannot be rewound; decode the
// buffer again to read it twice.
type Stream[T any] struct {
	items []Item[T]
	pos   int
}

func newStream[T any](items []Item[T]) *Stream[T] {
	return &Stream[T]{items: items}
}

// Next returns the next item, or false once the stream is exhausted.
func (s *Stream[T]) Next() (Item[T], bool) {
	if s.pos >= len(s.items) {
		var zero Item[T]
		return zero, false
	}
	it := s.items[s.pos]
	s.pos++
	return it, true
}

// Len returns the number of items not yet consumed.
func (s *Stream[T]) Len() int { return len(s.items) - s.pos }

// All yields the remaining items, consuming them.
func (s *Stream[T]) All() iter.Seq[Item[T]] {
	return func(yield func(Item[T]) bool) {
		for {
			it, ok := s.Next()
			if !ok || !yield(it) {
				return
			}
		}
	}
}

// Collect drains the remaining items into a new slice.
func (s *Stream[T]) Collect() []Item[T] {
	out := make([]Item[T], 0, s.Len())
	for it := range s.All() {
		out = append(out, it)
	}
	return out
}
