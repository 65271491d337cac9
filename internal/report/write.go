package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode serializes env in format: "json" (compact, or indented when pretty),
// "lines" (one JSON record per line, no envelope) or "yaml".
func Encode(env Envelope, format string, pretty bool) ([]byte, error) {
	switch format {
	case "", "json":
		if pretty {
			return encodeJSONPretty(env)
		}
		return encodeJSONCompact(env)
	case "lines":
		var all bytes.Buffer
		for _, r := range env.Records {
			b, err := encodeJSONCompact(r)
			if err != nil {
				return nil, err
			}
			all.Write(b)
		}
		return all.Bytes(), nil
	case "yaml":
		return MarshalYAML(env)
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

func encodeJSONCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSONPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes data to outPath, or to stdout when outPath is empty or "-".
// Parent directories are created.
func WriteTo(outPath string, stdout io.Writer, data []byte) error {
	if outPath == "" || outPath == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return os.WriteFile(outPath, data, 0o644)
}
