package models

import "time"

// ExportFormat is the rendered file type of an export.
type ExportFormat string

const (
	ExportFormatICS  ExportFormat = "ics"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

// ExportKind is the dataset an export is built from.
type ExportKind string

const (
	ExportKindTimetable  ExportKind = "timetable"
	ExportKindAttendance ExportKind = "attendance"
	ExportKindGrades     ExportKind = "grades"
)

// ExportRequest selects what to render from a raw payload.
type ExportRequest struct {
	Kind   ExportKind   `form:"kind" validate:"required,oneof=timetable attendance grades"`
	Format ExportFormat `form:"format" validate:"required,oneof=ics xlsx csv pdf"`
}

// ExportResult describes a stored export file.
type ExportResult struct {
	ID        string       `json:"id"`
	Kind      ExportKind   `json:"kind"`
	Format    ExportFormat `json:"format"`
	Filename  string       `json:"filename"`
	Token     string       `json:"token"`
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expires_at"`
}
