// Package export writes the enrollment report as a two-sheet Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/campusops/canvas-enrollments/pkg/report"
)

// Sheet names of the exported workbook.
const (
	SummarySheet = "Resumen"
	DetailSheet  = "Matriculas"
)

// SummaryColumns is the header row of the Resumen sheet.
var SummaryColumns = []string{
	"id", "Curso", "Diplomado", "Activos", "Completados", "Otros Estados", "Otros Roles",
}

// WriteReport writes the workbook to w: one Resumen sheet with the summary
// rows and one Matriculas sheet with the roster. Both sheets always carry
// their full header row, even with zero data rows, so an empty report is
// still a structured file.
func WriteReport(w io.Writer, summaries []report.Summary, rows []report.EnrollmentRow) error {
	f, err := buildWorkbook(summaries, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveReport writes the workbook to a file path.
func SaveReport(path string, summaries []report.Summary, rows []report.EnrollmentRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteReport(file, summaries, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func buildWorkbook(summaries []report.Summary, rows []report.EnrollmentRow) (*excelize.File, error) {
	f := excelize.NewFile()

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", SummarySheet, err)
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", DetailSheet, err)
	}
	// Drop excelize's default sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	if err := setRow(f, SummarySheet, 1, toAnySlice(SummaryColumns)); err != nil {
		return nil, err
	}
	for i, s := range summaries {
		values := []any{s.ID, s.Curso, s.Diplomado, s.Activos, s.Completados, s.OtrosEstados, s.OtrosRoles}
		if err := setRow(f, SummarySheet, i+2, values); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, DetailSheet, 1, toAnySlice(report.EnrollmentColumns)); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if err := setRow(f, DetailSheet, i+2, detailValues(r)); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// detailValues maps a roster row onto the 15-column schema. Absent numeric
// ids become blank cells rather than zeros.
func detailValues(r report.EnrollmentRow) []any {
	return []any{
		r.CourseID,
		r.Curso,
		r.Diplomado,
		blankIfZero(r.UserID),
		r.Nombre,
		r.LoginID,
		r.SISUserID,
		r.Tipo,
		r.Rol,
		r.Estado,
		blankIfZero(r.SeccionID),
		blankIfZero(r.EnrollmentID),
		r.CreatedAt,
		r.UpdatedAt,
		r.LastActivityAt,
	}
}

func blankIfZero(v int64) any {
	if v == 0 {
		return ""
	}
	return v
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d on %s: %w", row, sheet, err)
	}
	return nil
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
