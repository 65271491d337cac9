// Package report turns decoded streams into a serializable envelope and
// writes it as JSON, NDJSON lines or YAML.
package report

import "github.com/flarebyte/p4tag/internal/tagged"

// Record kinds, matching tagged.ItemKind names.
const (
	KindData    = "data"
	KindMessage = "message"
	KindExit    = "exit"
)

// Record is one stream item. Field order is stable to keep JSON
// deterministic.
type Record struct {
	Kind    string         `json:"kind"`
	Data    map[string]any `json:"data,omitempty"`
	Level   string         `json:"level,omitempty"`
	Message string         `json:"message,omitempty"`
	Code    *int32         `json:"code,omitempty"`
}

// Summary counts records per kind and message level.
type Summary struct {
	Data     int `json:"data"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Envelope is the whole decoded output of one command.
type Envelope struct {
	Command    string   `json:"command"`
	Invocation string   `json:"invocation,omitempty"`
	Records    []Record `json:"records"`
	Exit       int32    `json:"exit"`
	Summary    Summary  `json:"summary"`
}

// Fielder is implemented by every decoded record type.
type Fielder interface {
	Fields() map[string]any
}

// FromStream drains s into an envelope.
func FromStream[T Fielder](command, invocation string, s *tagged.Stream[T]) Envelope {
	env := Envelope{Command: command, Invocation: invocation, Records: make([]Record, 0, s.Len())}
	for it := range s.All() {
		rec := fromItem(it)
		if rec.Kind == KindExit {
			env.Exit = *rec.Code
		}
		env.Records = append(env.Records, rec)
	}
	env.Summary = Summarize(env.Records)
	return env
}

func fromItem[T Fielder](it tagged.Item[T]) Record {
	if v, ok := it.Data(); ok {
		return Record{Kind: KindData, Data: v.Fields()}
	}
	if m, ok := it.Message(); ok {
		return Record{Kind: KindMessage, Level: m.Level.String(), Message: m.Text}
	}
	code, _ := it.Code()
	return Record{Kind: KindExit, Code: &code}
}

// Summarize counts records. The exit record is not counted.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Kind {
		case KindData:
			s.Data++
		case KindMessage:
			switch r.Level {
			case tagged.LevelError.String():
				s.Errors++
			case tagged.LevelWarning.String():
				s.Warnings++
			case tagged.LevelInfo.String():
				s.Infos++
			}
		}
	}
	return s
}
