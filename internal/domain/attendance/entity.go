package attendance

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Student is a roster entry owned by the external roster provider.
// Immutable for the duration of one report cycle.
type Student struct {
	ID          string
	FullName    string
	Grade       string
	ClassLetter string
}

// Class returns the student's class label, e.g. "5А".
func (s Student) Class() string {
	return s.Grade + s.ClassLetter
}

// Mark is one recorded status for a (date, student) pair. The provider may
// attach pre-localized labels; when absent the enum's own labels apply.
type Mark struct {
	Status  StatusCode
	LabelKk string
	LabelRu string
}

// Kk returns the Kazakh label, preferring the provider's own.
func (m Mark) Kk() string {
	if m.LabelKk != "" {
		return m.LabelKk
	}
	return m.Status.LabelKk()
}

// Ru returns the Russian label, preferring the provider's own.
func (m Mark) Ru() string {
	if m.LabelRu != "" {
		return m.LabelRu
	}
	return m.Status.LabelRu()
}

// DailyRecord maps ISO date → student id → recorded mark.
// A missing entry for a (date, student) pair means the student was present.
type DailyRecord map[string]map[string]Mark

// StatusCount holds one student's per-status totals for the fetched range.
type StatusCount map[StatusCode]int

// Get returns the count for a code, zero when absent.
func (c StatusCount) Get(code StatusCode) int {
	return c[code]
}

// Sum returns the total across all statuses, present included.
func (c StatusCount) Sum() int {
	total := 0
	for _, code := range AllStatuses {
		total += c[code]
	}
	return total
}

// Totals maps student id → per-status counts.
type Totals map[string]StatusCount

// Report is the read-only snapshot returned by the external provider for one
// date range and class filter. It is never mutated after construction and
// never cached across queries.
type Report struct {
	Students []Student
	Daily    DailyRecord
	Totals   Totals
}

// StudentByID builds a lookup map over the roster.
func (r *Report) StudentByID() map[string]Student {
	byID := make(map[string]Student, len(r.Students))
	for _, s := range r.Students {
		byID[s.ID] = s
	}
	return byID
}

// CountFor returns a student's count for one status code, zero when the
// student has no totals entry at all.
func (r *Report) CountFor(studentID string, code StatusCode) int {
	return r.Totals[studentID].Get(code)
}
