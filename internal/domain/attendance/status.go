// Package attendance содержит доменную модель журнала посещаемости.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package attendance

import (
	"github.com/alga4school/katysym/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS CODES
// ══════════════════════════════════════════════════════════════════════════════

// StatusCode is the closed set of per-day attendance marks. The wire codes are
// the Kazakh short names used by the school's spreadsheet backend; katysty
// (present) is the implicit default: a missing record means present.
type StatusCode string

const (
	// StatusPresent - қатысты, присутствовал(а). The default mark.
	StatusPresent StatusCode = "katysty"
	// StatusLate - кешікті, опоздал(а).
	StatusLate StatusCode = "keshikti"
	// StatusSick - ауырды, болел(а).
	StatusSick StatusCode = "auyrdy"
	// StatusExcused - себепті, отсутствовал(а) по уважительной причине.
	StatusExcused StatusCode = "sebep"
	// StatusUnexcused - себепсіз, отсутствовал(а) без уважительной причины.
	StatusUnexcused StatusCode = "sebsez"
)

// AllStatuses enumerates every status code in KPI display order.
var AllStatuses = []StatusCode{
	StatusPresent,
	StatusLate,
	StatusSick,
	StatusExcused,
	StatusUnexcused,
}

// ExceptionStatuses are the marks a teacher picks explicitly; everything else
// stays at the katysty default.
var ExceptionStatuses = []StatusCode{
	StatusSick,
	StatusExcused,
	StatusUnexcused,
	StatusLate,
}

// IsValid checks membership in the closed enum.
func (c StatusCode) IsValid() bool {
	switch c {
	case StatusPresent, StatusLate, StatusSick, StatusExcused, StatusUnexcused:
		return true
	}
	return false
}

// IsIssue reports whether the code is any non-present mark.
func (c StatusCode) IsIssue() bool {
	return c.IsValid() && c != StatusPresent
}

// String returns the wire representation.
func (c StatusCode) String() string {
	return string(c)
}

// ParseStatus validates a wire code into the closed enum.
func ParseStatus(code string) (StatusCode, error) {
	c := StatusCode(code)
	if !c.IsValid() {
		return "", shared.ErrUnknownStatus
	}
	return c, nil
}

// NormalizeStatus maps any wire code onto the closed enum, falling back to
// katysty for unknown or empty codes. This mirrors the provider's behavior
// where absence of a record means present. It lives at the wire boundary
// only; domain code always carries a valid StatusCode.
func NormalizeStatus(code string) StatusCode {
	if c := StatusCode(code); c.IsValid() {
		return c
	}
	return StatusPresent
}

// ══════════════════════════════════════════════════════════════════════════════
// DISPLAY LABELS
// ══════════════════════════════════════════════════════════════════════════════

// StatusLabel holds the localized display names for a status code.
type StatusLabel struct {
	Kk string
	Ru string
}

var statusLabels = map[StatusCode]StatusLabel{
	StatusPresent:   {Kk: "Қатысты", Ru: "Присутствовал(а)"},
	StatusLate:      {Kk: "Кешікті", Ru: "Опоздал(а)"},
	StatusSick:      {Kk: "Ауырды", Ru: "Болел(а)"},
	StatusExcused:   {Kk: "Себепті", Ru: "Отсутствовал(а) по уважительной причине"},
	StatusUnexcused: {Kk: "Себепсіз", Ru: "Отсутствовал(а) без уважительной причины"},
}

// Label returns the localized labels for the code. Unknown codes get the
// present labels, matching the provider's default semantics.
func (c StatusCode) Label() StatusLabel {
	if l, ok := statusLabels[c]; ok {
		return l
	}
	return statusLabels[StatusPresent]
}

// LabelKk returns the Kazakh display name.
func (c StatusCode) LabelKk() string { return c.Label().Kk }

// LabelRu returns the Russian display name.
func (c StatusCode) LabelRu() string { return c.Label().Ru }
