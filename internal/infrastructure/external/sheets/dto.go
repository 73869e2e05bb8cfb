// Package sheets implements the client for the school's report provider, a
// Google Sheets web app fronted by a Cloudflare worker. It handles fetching
// class rosters and attendance reports and submitting daily save requests.
package sheets

import (
	"encoding/json"
)

// ══════════════════════════════════════════════════════════════════════════════
// WIRE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// flexString tolerates the provider emitting ids and grades as either JSON
// strings or numbers, depending on how the sheet cell was typed.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

// studentDTO is a roster entry as returned by the provider.
type studentDTO struct {
	ID          flexString `json:"id"`
	FullName    string     `json:"full_name"`
	Grade       flexString `json:"grade"`
	ClassLetter string     `json:"class_letter"`
}

// markDTO is one recorded mark, optionally with pre-localized labels.
type markDTO struct {
	StatusCode string `json:"status_code"`
	StatusKk   string `json:"status_kk,omitempty"`
	StatusRu   string `json:"status_ru,omitempty"`
}

// reportResponse is the provider's answer to mode=report.
type reportResponse struct {
	OK       bool                          `json:"ok"`
	Error    string                        `json:"error,omitempty"`
	Students []studentDTO                  `json:"students"`
	Daily    map[string]map[string]markDTO `json:"daily"`
	Totals   map[string]map[string]int     `json:"totals"`
}

// classesResponse is the provider's answer to mode=classes.
type classesResponse struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	Classes []string `json:"classes"`
}

// studentsResponse is the provider's answer to mode=students.
type studentsResponse struct {
	OK       bool         `json:"ok"`
	Error    string       `json:"error,omitempty"`
	Students []studentDTO `json:"students"`
}

// saveRecordDTO is one per-student line of a save request.
type saveRecordDTO struct {
	StudentID  string `json:"student_id"`
	StatusCode string `json:"status_code"`
}

// saveRequestDTO is the POST body for a save action.
type saveRequestDTO struct {
	Key         string          `json:"key"`
	Date        string          `json:"date"`
	Grade       string          `json:"grade"`
	ClassLetter string          `json:"class_letter"`
	Records     []saveRecordDTO `json:"records"`
}

// saveResponse acknowledges a save.
type saveResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Saved    int    `json:"saved"`
	Replaced bool   `json:"replaced"`
}
