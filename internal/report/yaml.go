package report

import (
	"bytes"
	"sort"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders env with a fixed top-level key order and sorted keys
// inside record data, so the same envelope always yields the same bytes.
func MarshalYAML(env Envelope) ([]byte, error) {
	top := &yaml.Node{Kind: yaml.MappingNode}
	top.Content = append(top.Content, scalarNode("command"), scalarFrom(env.Command))
	if env.Invocation != "" {
		top.Content = append(top.Content, scalarNode("invocation"), scalarFrom(env.Invocation))
	}
	records := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range env.Records {
		records.Content = append(records.Content, recordNode(r))
	}
	top.Content = append(top.Content, scalarNode("records"), records)
	top.Content = append(top.Content, scalarNode("exit"), scalarFrom(env.Exit))
	top.Content = append(top.Content, scalarNode("summary"), canonicalNode(map[string]any{
		"data":     env.Summary.Data,
		"errors":   env.Summary.Errors,
		"warnings": env.Summary.Warnings,
		"infos":    env.Summary.Infos,
	}))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

func recordNode(r Record) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, scalarNode("kind"), scalarNode(r.Kind))
	if r.Data != nil {
		n.Content = append(n.Content, scalarNode("data"), canonicalNode(r.Data))
	}
	if r.Level != "" {
		n.Content = append(n.Content, scalarNode("level"), scalarNode(r.Level))
	}
	if r.Message != "" {
		n.Content = append(n.Content, scalarNode("message"), scalarFrom(r.Message))
	}
	if r.Code != nil {
		n.Content = append(n.Content, scalarNode("code"), scalarFrom(*r.Code))
	}
	return n
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func scalarFrom(v any) *yaml.Node {
	n := &yaml.Node{}
	_ = n.Encode(v)
	return n
}

func canonicalNode(v any) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case map[string]any:
		return canonicalMapNode(x)
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, it := range x {
			n.Content = append(n.Content, canonicalNode(it))
		}
		return n
	default:
		return scalarFrom(x)
	}
}

func canonicalMapNode(m map[string]any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Content = append(n.Content, scalarNode(k), canonicalNode(m[k]))
	}
	return n
}
