package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteJSON writes env as one line of JSON. Non-ASCII text and HTML
// characters are written as is.
func WriteJSON(w io.Writer, env *Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFailure writes the failure envelope {"success": false}.
func WriteFailure(w io.Writer) error {
	_, err := io.WriteString(w, `{"success": false}`+"\n")
	return err
}

// WriteFile writes env to path as YAML when the extension is .yaml or .yml,
// and as indented JSON otherwise.
func WriteFile(path string, env *Envelope) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(env)
		if err != nil {
			return fmt.Errorf("marshal report YAML: %w", err)
		}
		data = out
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		data = buf.Bytes()
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
