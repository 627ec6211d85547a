// Package present renders structured results for display and exports them
// to the clipboard.
package present

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yildizm/TransformoDocs/internal/client"
	"github.com/yildizm/TransformoDocs/internal/errs"
)

// Notices shown after a copy attempt
const (
	NoticeCopied     = "Copied to clipboard"
	NoticeCopyFailed = "Copy failed"
)

// Serialize renders result as indented JSON with object keys sorted.
// Equal results always produce identical text, and parsing the text back
// yields the same value.
func Serialize(result *client.StructuredResult) string {
	if result == nil {
		return "null"
	}

	out, err := canonical(result.Value)
	if err != nil {
		// values decoded from JSON always re-encode; anything else is shown raw
		return fmt.Sprintf("%v", result.Value)
	}
	return out
}

func canonical(v any) (string, error) {
	// round-trip through the decoder so structs and typed maps become
	// plain maps, which encoding/json writes with sorted keys
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(generic); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// CopyToClipboard writes Serialize(result) to cb. The lease is released
// whether or not the write succeeds. Failures are returned as clipboard
// errors and never touch flow state.
func CopyToClipboard(cb Clipboard, result *client.StructuredResult) (err error) {
	if cb == nil {
		return errs.NewClipboardError("no clipboard available", nil)
	}

	lease, err := cb.Acquire()
	if err != nil {
		return errs.NewClipboardError("clipboard unavailable", err)
	}
	defer func() {
		if releaseErr := lease.Release(); releaseErr != nil && err == nil {
			err = errs.NewClipboardError("failed to release clipboard", releaseErr)
		}
	}()

	if writeErr := lease.Write(Serialize(result)); writeErr != nil {
		return errs.NewClipboardError("failed to write to clipboard", writeErr)
	}
	return nil
}

// CopyNotice returns the transient notice for a copy attempt
func CopyNotice(err error) string {
	if err != nil {
		return NoticeCopyFailed
	}
	return NoticeCopied
}
