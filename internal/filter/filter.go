// Package filter drops decoded data records by ignore pattern or Lua
// predicate. Message and exit records always pass through.
package filter

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/flarebyte/p4tag/internal/report"
)

// Options selects the filters to apply. Zero values disable a filter.
type Options struct {
	Ignore *Ignore
	// Lua is a predicate expression over the globals kind and data.
	Lua        string
	LuaTimeout time.Duration
	// Workers bounds concurrent Lua evaluations; <= 0 uses GOMAXPROCS.
	Workers int
}

func (o Options) enabled() bool {
	return (o.Ignore != nil && o.Ignore.Len() > 0) || o.Lua != ""
}

type evalRes struct {
	idx  int
	keep bool
	err  error
}

// Apply returns env with filtered records and a recomputed summary. Record
// order is preserved.
func Apply(ctx context.Context, env report.Envelope, opts Options) (report.Envelope, error) {
	if !opts.enabled() {
		return env, nil
	}
	keep := make([]bool, len(env.Records))
	var pending []int
	for i, rec := range env.Records {
		if rec.Kind != report.KindData {
			keep[i] = true
			continue
		}
		if opts.Ignore.MatchRecord(rec) {
			continue
		}
		if opts.Lua == "" {
			keep[i] = true
			continue
		}
		pending = append(pending, i)
	}

	if len(pending) > 0 {
		pred := NewPredicate(opts.Lua, opts.LuaTimeout)
		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		if workers > len(pending) {
			workers = len(pending)
		}
		results := runIndexedParallel(len(pending), workers, func(j int) evalRes {
			idx := pending[j]
			rec := env.Records[idx]
			ok, err := pred.Eval(ctx, map[string]any{"kind": rec.Kind, "data": rec.Data})
			return evalRes{idx: idx, keep: ok, err: err}
		})
		var first *evalRes
		for i := range results {
			r := &results[i]
			if r.err != nil && (first == nil || r.idx < first.idx) {
				first = r
			}
			keep[r.idx] = r.keep
		}
		if first != nil {
			return report.Envelope{}, fmt.Errorf("lua filter: record %d: %w", first.idx, first.err)
		}
	}

	out := env
	out.Records = make([]report.Record, 0, len(env.Records))
	for i, rec := range env.Records {
		if keep[i] {
			out.Records = append(out.Records, rec)
		}
	}
	out.Summary = report.Summarize(out.Records)
	return out, nil
}
