package pipeline

import (
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Gate decides whether directly extracted text is usable as-is.
type Gate func(text string) bool

// SeemsHumanReadable is the default readability gate. It rejects all text,
// so every document goes through the OCR fallback.
//
// TODO(owners): replace with a real heuristic once one is agreed on; tests
// pin the always-false behavior so that change shows up as a visible diff.
func SeemsHumanReadable(string) bool {
	return false
}

// decodeUTF8 validates extractor output as UTF-8 and returns it as text.
func decodeUTF8(b []byte) (string, error) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, b)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: decode extractor output")
	}
	return string(out), nil
}
