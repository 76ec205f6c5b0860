package jsonvalue

import "fmt"

// Result is the outcome of Validate. Exactly one of Err or Formatted is
// meaningful, discriminated by Valid.
type Result struct {
	Valid     bool
	Err       string
	Formatted string
}

// Validate attempts a structural parse of text. On success the result
// carries the canonical 2-space-indented serialization; on failure it
// carries a human-readable description of the parse error. Validate
// never panics past this boundary.
func Validate(text string) Result {
	v, err := Parse(text)
	if err != nil {
		return Result{Err: err.Error()}
	}
	return Result{Valid: true, Formatted: v.JSON(Indent)}
}

// Format re-serializes text with 2-space indentation. On parse failure
// it returns an error and the caller keeps its original content.
func Format(text string) (string, error) {
	v, err := Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	return v.JSON(Indent), nil
}

// Minify re-serializes text with no inserted whitespace. On parse
// failure it returns an error and the caller keeps its original content.
func Minify(text string) (string, error) {
	v, err := Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	return v.Compact(), nil
}
