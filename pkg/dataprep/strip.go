package dataprep

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"tabprep/pkg/core"
)

// StripString trims leading and trailing whitespace from every cell.
// Whitespace is Unicode white space plus the separators U+001C..U+001F.
type StripString struct {
	form      norm.Form
	normalize bool
}

// StripOption functional config
type StripOption func(*StripString)

// WithNormalization applies Unicode normalization form f before trimming.
func WithNormalization(f norm.Form) StripOption {
	return func(s *StripString) { s.form, s.normalize = f, true }
}

func NewStripString(opts ...StripOption) *StripString {
	s := &StripString{}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ParseNormForm resolves a normalization form by name. An empty name means none.
func ParseNormForm(name string) (norm.Form, bool, error) {
	switch strings.ToUpper(name) {
	case "":
		return 0, false, nil
	case "NFC":
		return norm.NFC, true, nil
	case "NFD":
		return norm.NFD, true, nil
	case "NFKC":
		return norm.NFKC, true, nil
	case "NFKD":
		return norm.NFKD, true, nil
	}
	return 0, false, fmt.Errorf("unknown normalization form %q", name)
}

// Fit is a no-op.
func (s *StripString) Fit(*core.Frame[string]) error { return nil }

// Transform returns a trimmed copy of X with the same shape.
func (s *StripString) Transform(X *core.Frame[string]) (*core.Frame[string], error) {
	out := X.Clone()
	out.Apply(s.strip)
	return out, nil
}

// FeatureNames is the identity: stripping never changes columns.
func (s *StripString) FeatureNames(in []string) ([]string, error) {
	return append([]string(nil), in...), nil
}

func (s *StripString) strip(v string) string {
	if s.normalize {
		v = s.form.String(v)
	}
	return strings.TrimFunc(v, isStripSpace)
}

// isStripSpace is unicode.IsSpace plus the ASCII information separators
// U+001C..U+001F.
func isStripSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// StripAny trims a frame of untyped cells, such as decoded JSON rows.
// Any cell that is not a string fails with ErrNotString.
func (s *StripString) StripAny(X *core.Frame[any]) (*core.Frame[string], error) {
	return core.MapFrame(X, func(v any) (string, error) {
		str, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%T: %w", v, ErrNotString)
		}
		return s.strip(str), nil
	})
}
