package attendance

import (
	"regexp"
	"strings"

	"github.com/alga4school/katysym/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASS LABELS
// ══════════════════════════════════════════════════════════════════════════════

// AllClasses is the wire sentinel meaning "no class filter".
const AllClasses = "ALL"

// ClassRef identifies a class as grade number plus letter suffix,
// e.g. "5А" → grade "5", letter "А". Letters are usually Cyrillic.
type ClassRef struct {
	Grade  string
	Letter string
}

// Labels like "5А", "11Б", also tolerating multi-letter suffixes.
var classRegex = regexp.MustCompile(`^(\d+)(.*)$`)

// NormalizeClassLabel strips all whitespace and upper-cases the label so that
// "5 а" and "5А" compare equal.
func NormalizeClassLabel(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), ""))
}

// ParseClass splits a class label into grade and letter parts after
// normalization.
func ParseClass(label string) (ClassRef, error) {
	norm := NormalizeClassLabel(label)
	m := classRegex.FindStringSubmatch(norm)
	if m == nil {
		return ClassRef{}, shared.ErrBadClassLabel
	}
	return ClassRef{Grade: m[1], Letter: m[2]}, nil
}

// IsAll reports whether the label is the "all classes" sentinel.
func IsAll(label string) bool {
	return NormalizeClassLabel(label) == AllClasses
}

// Label reassembles the canonical class label.
func (c ClassRef) Label() string {
	return c.Grade + c.Letter
}

// Matches compares a student's class against the reference.
func (c ClassRef) Matches(s Student) bool {
	return s.Grade == c.Grade && strings.EqualFold(s.ClassLetter, c.Letter)
}
