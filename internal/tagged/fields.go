package tagged

import "encoding/base64"

// Fields returns the record keyed by the p4 field names. The maps only hold
// strings, int64 values, nested maps and []any, so they serialize to JSON and
// YAML deterministically and convert to Lua tables.

func (d Dir) Fields() map[string]any {
	return map[string]any{"dir": d.Dir}
}

func (f File) Fields() map[string]any {
	return map[string]any{
		"depotFile": f.DepotFile,
		"rev":       int64(f.Rev),
		"change":    int64(f.Change),
		"action":    string(f.Action),
		"type":      f.Type.Raw(),
		"time":      f.Time.Unix(),
	}
}

func (p PrintedFile) Fields() map[string]any {
	m := p.File.Fields()
	m["fileSize"] = p.FileSize
	m["content"] = p.Content.Fields()
	return m
}

func (c Content) Fields() map[string]any {
	if raw, ok := c.Binary(); ok {
		return map[string]any{
			"kind":   c.kind.String(),
			"base64": base64.StdEncoding.EncodeToString(raw),
		}
	}
	lines, _ := c.Text()
	out := make([]any, len(lines))
	for i, l := range lines {
		out[i] = l
	}
	return map[string]any{"kind": c.kind.String(), "lines": out}
}

func (s SyncedFile) Fields() map[string]any {
	return map[string]any{
		"depotFile":  s.DepotFile,
		"clientFile": s.ClientFile,
		"rev":        int64(s.Rev),
		"action":     string(s.Action),
		"fileSize":   s.FileSize,
	}
}

func (m MappedFile) Fields() map[string]any {
	return map[string]any{
		"depotFile":  m.DepotFile,
		"clientFile": m.ClientFile,
		"path":       m.Path,
	}
}
