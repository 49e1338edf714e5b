package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/decoder"
	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
	"github.com/noah-isme/academics-api/pkg/export"
	"github.com/noah-isme/academics-api/pkg/storage"
)

// semesterWeeks bounds the weekly recurrence of timetable events.
const semesterWeeks = 16

const icsProductID = "-//academics-api//timetable//EN"

var exportContentTypes = map[models.ExportFormat]string{
	models.ExportFormatICS:  "text/calendar; charset=utf-8",
	models.ExportFormatCSV:  "text/csv; charset=utf-8",
	models.ExportFormatPDF:  "application/pdf",
	models.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var exportFormatsByKind = map[models.ExportKind][]models.ExportFormat{
	models.ExportKindTimetable:  {models.ExportFormatICS, models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatXLSX},
	models.ExportKindAttendance: {models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatXLSX},
	models.ExportKindGrades:     {models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatXLSX},
}

type exportSource interface {
	Enrollment(ctx context.Context, payload string) (*models.User, DecodeMeta, error)
	GradeHistory(ctx context.Context, payload, regNo string) (*models.AcademicHistory, DecodeMeta, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type urlSigner interface {
	Generate(exportID, relPath string) (string, time.Time, error)
	Parse(token string) (exportID, relPath string, expiresAt time.Time, err error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type workbookRenderer interface {
	Render(tables ...export.Table) ([]byte, error)
}

type calendarRenderer interface {
	Render(calendarName string, events []export.Event) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportDownload is a resolved export file.
type ExportDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders decoded payloads into files and serves them back
// through signed tokens.
type ExportService struct {
	source    exportSource
	storage   fileStorage
	signer    urlSigner
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig

	csv  tableRenderer
	pdf  tableRenderer
	xlsx workbookRenderer
	ics  calendarRenderer
}

// NewExportService constructs an ExportService with the default renderers.
func NewExportService(source exportSource, storage fileStorage, signer urlSigner, validate *validator.Validate, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		source:    source,
		storage:   storage,
		signer:    signer,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		xlsx:      export.NewXLSXExporter(),
		ics:       export.NewICSExporter(icsProductID),
	}
}

// Generate decodes payload, renders the requested dataset and stores the file.
// regNo only labels grade exports.
func (s *ExportService) Generate(ctx context.Context, req models.ExportRequest, payload, regNo string) (*models.ExportResult, error) {
	if s == nil || s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "exports are disabled")
	}
	req.Kind = models.ExportKind(strings.ToLower(string(req.Kind)))
	req.Format = models.ExportFormat(strings.ToLower(string(req.Format)))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	if !formatSupported(req.Kind, req.Format) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("format %s is not available for %s exports", req.Format, req.Kind))
	}

	data, owner, err := s.render(ctx, req, payload, regNo)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	filename := exportFilename(req.Kind, owner, req.Format)
	relPath, err := s.storage.Save(path.Join(string(req.Kind), id, filename), data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	s.metrics.RecordExport(req.Kind, req.Format)
	s.logger.Info("export generated",
		zap.String("export_id", id),
		zap.String("kind", string(req.Kind)),
		zap.String("format", string(req.Format)),
		zap.Int("bytes", len(data)),
	)

	return &models.ExportResult{
		ID:        id,
		Kind:      req.Kind,
		Format:    req.Format,
		Filename:  filename,
		Token:     token,
		URL:       fmt.Sprintf("%s/exports/download?token=%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve validates a download token and loads the referenced file.
func (s *ExportService) Resolve(ctx context.Context, token string) (*ExportDownload, error) {
	if s == nil || s.storage == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "exports are disabled")
	}
	_, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "download link expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	data, err := s.storage.Read(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found")
	}
	format := models.ExportFormat(strings.TrimPrefix(path.Ext(relPath), "."))
	contentType, ok := exportContentTypes[format]
	if !ok {
		contentType = "application/octet-stream"
	}
	return &ExportDownload{
		Filename:    path.Base(relPath),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Cleanup removes stored exports older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) (int, error) {
	if s == nil || s.storage == nil {
		return 0, nil
	}
	removed, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		return 0, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return len(removed), nil
}

func (s *ExportService) render(ctx context.Context, req models.ExportRequest, payload, regNo string) ([]byte, string, error) {
	switch req.Kind {
	case models.ExportKindGrades:
		history, _, err := s.source.GradeHistory(ctx, payload, regNo)
		if err != nil {
			return nil, "", err
		}
		grades, semesters := gradeTables(history)
		data, err := s.renderTables(req.Format, grades, semesters)
		return data, regNo, err
	default:
		user, _, err := s.source.Enrollment(ctx, payload)
		if err != nil {
			return nil, "", err
		}
		if req.Kind == models.ExportKindTimetable && req.Format == models.ExportFormatICS {
			data, err := s.ics.Render(user.RegNo+" timetable", timetableEvents(user))
			if err != nil {
				return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
			}
			return data, user.RegNo, nil
		}
		var data []byte
		if req.Kind == models.ExportKindTimetable {
			data, err = s.renderTables(req.Format, timetableTable(user))
		} else {
			details, summary := attendanceTables(user)
			data, err = s.renderTables(req.Format, details, summary)
		}
		return data, user.RegNo, err
	}
}

// renderTables writes every table as a workbook sheet; single-table formats
// take the first table only.
func (s *ExportService) renderTables(format models.ExportFormat, tables ...export.Table) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case models.ExportFormatXLSX:
		data, err = s.xlsx.Render(tables...)
	case models.ExportFormatCSV:
		data, err = s.csv.Render(tables[0])
	case models.ExportFormatPDF:
		data, err = s.pdf.Render(tables[0])
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return data, nil
}

func formatSupported(kind models.ExportKind, format models.ExportFormat) bool {
	for _, f := range exportFormatsByKind[kind] {
		if f == format {
			return true
		}
	}
	return false
}

// exportFilename is the download name of an export. It is also the stored
// file name, so the owner is reduced to characters safe in a path segment.
func exportFilename(kind models.ExportKind, owner string, format models.ExportFormat) string {
	name := string(kind)
	if owner = sanitizeFilenamePart(owner); owner != "" {
		name = owner + "-" + name
	}
	return name + "." + string(format)
}

func sanitizeFilenamePart(part string) string {
	return strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(part)), "_")
}

// mondayFirst orders weekdays Monday..Sunday.
func mondayFirst(day time.Weekday) int {
	return (int(day) + 6) % 7
}

type timedClass struct {
	course *models.Course
	hours  models.ClassHours
	index  int
}

func sortedClasses(user *models.User) []timedClass {
	var classes []timedClass
	for i := range user.Courses {
		course := &user.Courses[i]
		for j, hours := range course.ClassHours() {
			classes = append(classes, timedClass{course: course, hours: hours, index: j})
		}
	}
	sort.SliceStable(classes, func(i, j int) bool {
		a, b := classes[i].hours, classes[j].hours
		if a.Day != b.Day {
			return mondayFirst(a.Day) < mondayFirst(b.Day)
		}
		return clockOf(a.Start) < clockOf(b.Start)
	})
	return classes
}

func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

func timetableTable(user *models.User) export.Table {
	table := export.Table{
		Title:   "Timetable",
		Headers: []string{"Day", "Start", "End", "Code", "Title", "Kind", "Slot", "Venue", "Faculty"},
		Rows:    [][]string{},
	}
	for _, class := range sortedClasses(user) {
		course := class.course
		table.Rows = append(table.Rows, []string{
			class.hours.Day.String(),
			class.hours.Start.Format("15:04"),
			class.hours.End.Format("15:04"),
			course.Code,
			course.Title,
			string(course.Kind),
			course.LTP.Slot,
			course.LTP.Venue,
			course.Faculty,
		})
	}
	return table
}

// timetableEvents anchors each weekly class in the week the enrollment was
// refreshed, in campus local time.
func timetableEvents(user *models.User) []export.Event {
	anchor := time.Now().In(decoder.LocalZone)
	if user.CoursesMetadata != nil && !user.CoursesMetadata.RefreshedAt.IsZero() {
		anchor = user.CoursesMetadata.RefreshedAt.In(decoder.LocalZone)
	}
	monday := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, decoder.LocalZone).
		AddDate(0, 0, -mondayFirst(anchor.Weekday()))

	events := make([]export.Event, 0)
	for _, class := range sortedClasses(user) {
		course := class.course
		day := monday.AddDate(0, 0, mondayFirst(class.hours.Day))
		start := day.Add(clockOf(class.hours.Start))
		length := class.hours.End.Sub(class.hours.Start)
		events = append(events, export.Event{
			UID:         fmt.Sprintf("%d-%d@academics-api", course.ClassNumber, class.index),
			Summary:     course.Code + " " + course.Title,
			Location:    course.LTP.Venue,
			Description: fmt.Sprintf("Slot %s, %s", course.LTP.Slot, course.Faculty),
			Start:       start,
			End:         start.Add(length),
			Weekly:      true,
			Occurrences: semesterWeeks,
		})
	}
	return events
}

func attendanceTables(user *models.User) (export.Table, export.Table) {
	details := export.Table{
		Title:   "Attendance",
		Headers: []string{"Code", "Title", "Date", "Slot", "Status", "Reason"},
		Rows:    [][]string{},
	}
	summary := export.Table{
		Title:   "Summary",
		Headers: []string{"Code", "Title", "Attended", "Total", "Percentage"},
		Rows:    [][]string{},
	}
	for i := range user.Courses {
		course := &user.Courses[i]
		if course.LTP == nil {
			continue
		}
		attendance := course.LTP.Attendance
		for _, stub := range attendance.Details {
			details.Rows = append(details.Rows, []string{
				course.Code,
				course.Title,
				stub.Date.Format("2006-01-02"),
				stub.Slot,
				stub.Status,
				stub.Reason,
			})
		}
		summary.Rows = append(summary.Rows, []string{
			course.Code,
			course.Title,
			strconv.Itoa(attendance.AttendedClasses),
			strconv.Itoa(attendance.TotalClasses),
			strconv.FormatFloat(attendance.Percentage, 'f', -1, 64),
		})
	}
	return details, summary
}

func gradeTables(history *models.AcademicHistory) (export.Table, export.Table) {
	grades := export.Table{
		Title:   "Grades",
		Headers: []string{"Exam", "Code", "Title", "Type", "Option", "Credits", "Grade"},
		Rows:    [][]string{},
	}
	for _, g := range history.Grades {
		grades.Rows = append(grades.Rows, []string{
			g.ExamID, g.CourseCode, g.CourseTitle, g.CourseType, g.CourseOption, strconv.Itoa(g.Credits), g.Grade,
		})
	}
	semesters := export.Table{
		Title:   "Semesters",
		Headers: []string{"Exam", "Courses", "Credits Earned", "GPA"},
		Rows:    [][]string{},
	}
	for _, sem := range history.Semesters {
		semesters.Rows = append(semesters.Rows, []string{
			sem.ExamID, strconv.Itoa(len(sem.Grades)), strconv.Itoa(sem.CreditsEarned), strconv.FormatFloat(sem.GPA, 'f', 2, 64),
		})
	}
	return grades, semesters
}
