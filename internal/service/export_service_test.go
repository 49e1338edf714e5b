package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academics-api/internal/decoder"
	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
	"github.com/noah-isme/academics-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, *MetricsService) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	academics, metrics := newAcademicsServiceForTest(nil, nil)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	return NewExportService(academics, store, signer, nil, metrics, ExportConfig{APIPrefix: "/api/v1/"}, nil), metrics
}

func TestExportServiceTimetableICS(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), models.ExportRequest{Kind: "Timetable", Format: "ICS"}, enrollmentPayload, "")
	require.NoError(t, err)
	assert.Equal(t, models.ExportKindTimetable, result.Kind)
	assert.Equal(t, models.ExportFormatICS, result.Format)
	assert.Equal(t, "13BCE0001-timetable.ics", result.Filename)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/download?token="))

	download, err := svc.Resolve(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, "text/calendar; charset=utf-8", download.ContentType)
	assert.Equal(t, result.Filename, download.Filename)

	body := string(download.Data)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "1001-0@academics-api")
	assert.Contains(t, body, "20150112T023000Z")
	assert.Contains(t, body, "FREQ=WEEKLY;COUNT=16")
	assert.Contains(t, body, "CSE101 Programming in C Lab")
}

func TestExportServiceFormatMatrix(t *testing.T) {
	svc, metrics := newExportServiceForTest(t)

	cases := []struct {
		kind    models.ExportKind
		format  models.ExportFormat
		payload string
		ok      bool
	}{
		{models.ExportKindTimetable, models.ExportFormatXLSX, enrollmentPayload, true},
		{models.ExportKindTimetable, models.ExportFormatCSV, enrollmentPayload, true},
		{models.ExportKindAttendance, models.ExportFormatPDF, enrollmentPayload, true},
		{models.ExportKindAttendance, models.ExportFormatICS, enrollmentPayload, false},
		{models.ExportKindGrades, models.ExportFormatXLSX, gradesPayload, true},
		{models.ExportKindGrades, models.ExportFormatPDF, gradesPayload, true},
		{models.ExportKindGrades, models.ExportFormatICS, gradesPayload, false},
		{"marks", models.ExportFormatCSV, enrollmentPayload, false},
	}
	generated := 0
	for _, tc := range cases {
		result, err := svc.Generate(context.Background(), models.ExportRequest{Kind: tc.kind, Format: tc.format}, tc.payload, "13BCE0001")
		if !tc.ok {
			assert.ErrorIs(t, err, appErrors.ErrValidation, "%s/%s", tc.kind, tc.format)
			continue
		}
		require.NoError(t, err, "%s/%s", tc.kind, tc.format)
		generated++

		download, err := svc.Resolve(context.Background(), result.Token)
		require.NoError(t, err)
		assert.NotEmpty(t, download.Data)
		assert.Equal(t, exportContentTypes[tc.format], download.ContentType)
	}
	assert.Equal(t, 5, generated)
	assert.Equal(t, uint64(0), metrics.Snapshot().DecodeFailures)
}

func TestExportServiceAttendanceCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), models.ExportRequest{Kind: models.ExportKindAttendance, Format: models.ExportFormatCSV}, enrollmentPayload, "")
	require.NoError(t, err)
	download, err := svc.Resolve(context.Background(), result.Token)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(download.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Code,Title,Date,Slot,Status,Reason", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "CSE101,Programming in C,2015-01-05,A1,Present"))
}

func TestExportServiceDecodeFailureSurfaces(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Generate(context.Background(), models.ExportRequest{Kind: models.ExportKindGrades, Format: models.ExportFormatCSV}, `{"grades":[]}`, "")
	assert.ErrorIs(t, err, appErrors.ErrStructuralFailure)
}

func TestExportServiceDownloadNameMatchesResult(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	result, err := svc.Generate(context.Background(), models.ExportRequest{Kind: models.ExportKindGrades, Format: models.ExportFormatCSV}, gradesPayload, " ../13BCE/0001 ")
	require.NoError(t, err)
	assert.Equal(t, "13BCE_0001-grades.csv", result.Filename)

	download, err := svc.Resolve(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Filename, download.Filename)
	assert.Equal(t, exportContentTypes[models.ExportFormatCSV], download.ContentType)
}

func TestExportServiceResolveRejectsBadTokens(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	var disabled *ExportService
	_, err = disabled.Resolve(context.Background(), "x")
	assert.ErrorIs(t, err, appErrors.ErrFeatureDisabled)
}

func TestExportServiceCleanup(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	_, err := svc.Generate(context.Background(), models.ExportRequest{Kind: models.ExportKindTimetable, Format: models.ExportFormatCSV}, enrollmentPayload, "")
	require.NoError(t, err)

	removed, err := svc.Cleanup(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = svc.Cleanup(-time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestTimetableEventsAnchorOnRefreshWeek(t *testing.T) {
	user := &models.User{
		RegNo: "13BCE0001",
		Courses: []models.Course{{
			Kind:       models.CourseKindCBL,
			CourseBase: models.CourseBase{ClassNumber: 7, Code: "MAT201", Title: "Algebra", Faculty: "Dr. K"},
			LTP: &models.LTPDetails{
				Slot:  "B1",
				Venue: "TT101",
				Timings: []models.ClassHours{
					{Day: time.Sunday, Start: time.Date(0, 1, 1, 9, 0, 0, 0, decoder.LocalZone), End: time.Date(0, 1, 1, 9, 50, 0, 0, decoder.LocalZone)},
					{Day: time.Tuesday, Start: time.Date(0, 1, 1, 14, 0, 0, 0, decoder.LocalZone), End: time.Date(0, 1, 1, 15, 40, 0, 0, decoder.LocalZone)},
				},
			},
		}},
		CoursesMetadata: &models.CoursesMetadata{RefreshedAt: time.Date(2015, 1, 14, 20, 0, 0, 0, time.UTC)},
	}

	events := timetableEvents(user)
	require.Len(t, events, 2)

	assert.Equal(t, "7-1@academics-api", events[0].UID)
	assert.True(t, events[0].Start.Equal(time.Date(2015, 1, 13, 14, 0, 0, 0, decoder.LocalZone)))
	assert.Equal(t, 100*time.Minute, events[0].End.Sub(events[0].Start))

	assert.Equal(t, "7-0@academics-api", events[1].UID)
	assert.True(t, events[1].Start.Equal(time.Date(2015, 1, 18, 9, 0, 0, 0, decoder.LocalZone)))
	assert.Equal(t, "MAT201 Algebra", events[1].Summary)
	assert.Equal(t, "TT101", events[1].Location)
	assert.True(t, events[1].Weekly)
	assert.Equal(t, semesterWeeks, events[1].Occurrences)
}
