package sheets

import (
	"github.com/alga4school/katysym/internal/domain/attendance"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - wire types to domain entities
// ══════════════════════════════════════════════════════════════════════════════

// The mapper is the anti-corruption layer: loosely typed wire codes become
// the closed StatusCode enum here, and nothing loosely typed leaks further in.

func mapStudent(dto studentDTO) attendance.Student {
	return attendance.Student{
		ID:          dto.ID.String(),
		FullName:    dto.FullName,
		Grade:       dto.Grade.String(),
		ClassLetter: dto.ClassLetter,
	}
}

func mapStudents(dtos []studentDTO) []attendance.Student {
	students := make([]attendance.Student, 0, len(dtos))
	for _, dto := range dtos {
		students = append(students, mapStudent(dto))
	}
	return students
}

func mapMark(dto markDTO) attendance.Mark {
	return attendance.Mark{
		Status:  attendance.NormalizeStatus(dto.StatusCode),
		LabelKk: dto.StatusKk,
		LabelRu: dto.StatusRu,
	}
}

func mapReport(resp *reportResponse) *attendance.Report {
	daily := make(attendance.DailyRecord, len(resp.Daily))
	for date, byID := range resp.Daily {
		marks := make(map[string]attendance.Mark, len(byID))
		for id, dto := range byID {
			marks[id] = mapMark(dto)
		}
		daily[date] = marks
	}

	totals := make(attendance.Totals, len(resp.Totals))
	for id, byCode := range resp.Totals {
		counts := make(attendance.StatusCount, len(byCode))
		for code, n := range byCode {
			// Unknown wire codes fold into katysty, same as a missing record.
			counts[attendance.NormalizeStatus(code)] += n
		}
		totals[id] = counts
	}

	return &attendance.Report{
		Students: mapStudents(resp.Students),
		Daily:    daily,
		Totals:   totals,
	}
}
