package decoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

func decodeSingleCourse(t *testing.T, course doc) models.Course {
	t.Helper()
	payload := enrollmentDoc()
	payload["courses"] = []interface{}{course}
	user, err := New(nil).DecodeEnrollment(encode(t, payload))
	require.NoError(t, err)
	require.Len(t, user.Courses, 1)
	return user.Courses[0]
}

func TestLectureCourseTimetable(t *testing.T) {
	course := decodeSingleCourse(t, lectureCourse())

	assert.Equal(t, 1001, course.ClassNumber)
	assert.Equal(t, "Programming in C", course.Title)
	assert.Equal(t, 4, course.Credits)
	assert.Nil(t, course.Project)
	require.NotNil(t, course.LTP)
	assert.Equal(t, "A1+TA1", course.LTP.Slot)
	assert.Equal(t, "SJT301", course.LTP.Venue)

	require.Len(t, course.LTP.Timings, 2)
	first := course.LTP.Timings[0]
	assert.Equal(t, time.Monday, first.Day)
	assert.Equal(t, time.Wednesday, course.LTP.Timings[1].Day)
	assert.True(t, first.Start.Equal(time.Date(2015, time.January, 5, 8, 0, 0, 0, LocalZone)))
	assert.Equal(t, LocalZone, first.Start.Location())
	assert.Equal(t, 8, first.Start.Hour())
	assert.Equal(t, 50, int(first.End.Sub(first.Start).Minutes()))
	assert.Len(t, course.ClassHours(), 2)
}

func TestLectureCourseAttendance(t *testing.T) {
	course := decodeSingleCourse(t, lectureCourse())
	attendance := course.LTP.Attendance

	assert.True(t, attendance.Supported)
	assert.Equal(t, 1, attendance.ClassLength)
	assert.Equal(t, 20, attendance.TotalClasses)
	assert.Equal(t, 18, attendance.AttendedClasses)
	assert.Equal(t, 90.0, attendance.Percentage)

	require.Len(t, attendance.Details, 2)
	assert.Equal(t, time.Date(2015, time.January, 5, 0, 0, 0, 0, LocalZone), attendance.Details[0].Date)
	assert.Equal(t, "Present", attendance.Details[0].Status)
	assert.Equal(t, "Medical", attendance.Details[1].Reason)

	stub, ok := attendance.StubOn(time.Date(2015, time.January, 12, 0, 0, 0, 0, LocalZone))
	require.True(t, ok)
	assert.Equal(t, "Absent", stub.Status)
}

func TestLectureCourseMarks(t *testing.T) {
	course := decodeSingleCourse(t, lectureCourse())
	ltp := course.LTP

	require.Len(t, ltp.Marks, 3)
	assert.Equal(t, "CAT-I", ltp.Marks[0].Title)
	require.NotNil(t, ltp.Marks[0].Status)
	assert.Equal(t, "PRESENT", *ltp.Marks[0].Status)
	assert.False(t, ltp.Marks[1].Conducted())
	assert.Nil(t, ltp.Marks[1].Status)
	assert.InDelta(t, 15.33, ltp.InternalMarksScored, 1e-9)
	assert.Equal(t, 20, ltp.TotalMarksTested)
}

func TestMarksWithZeroMaximumContributeWeightageOnly(t *testing.T) {
	course := lectureCourse()
	course["marks"] = doc{
		"supported": true,
		"assessments": []interface{}{
			doc{"title": "viva", "max_marks": 0, "weightage": 10, "scored_marks": 0},
			doc{"title": "da", "max_marks": 10, "weightage": 10, "scored_marks": 7.5},
		},
	}

	got := decodeSingleCourse(t, course)
	assert.InDelta(t, 7.5, got.LTP.InternalMarksScored, 1e-9)
	assert.Equal(t, 20, got.LTP.TotalMarksTested)
}

func TestMarksMissingScoreIsNotConducted(t *testing.T) {
	course := lectureCourse()
	course["marks"] = doc{
		"supported":   true,
		"assessments": []interface{}{doc{"title": "cat-i", "max_marks": 50, "weightage": 15}},
	}

	got := decodeSingleCourse(t, course)
	require.Len(t, got.LTP.Marks, 1)
	assert.False(t, got.LTP.Marks[0].Conducted())
	assert.Zero(t, got.LTP.InternalMarksScored)
	assert.Zero(t, got.LTP.TotalMarksTested)
}

func TestLabCourse(t *testing.T) {
	course := decodeSingleCourse(t, labCourse())

	assert.Equal(t, models.CourseKindLBC, course.Kind)
	assert.Equal(t, "Programming in C Lab", course.Title)
	assert.Equal(t, 2, course.Credits)
	require.NotNil(t, course.LTP)
	assert.Equal(t, time.Friday, course.LTP.Timings[0].Day)

	attendance := course.LTP.Attendance
	assert.False(t, attendance.Supported)
	assert.Equal(t, 3, attendance.ClassLength)
	assert.Zero(t, attendance.TotalClasses)
	assert.Zero(t, attendance.AttendedClasses)
	assert.Zero(t, attendance.Percentage)
	assert.NotNil(t, attendance.Details)
	assert.Empty(t, attendance.Details)

	assert.NotNil(t, course.LTP.Marks)
	assert.Empty(t, course.LTP.Marks)
	assert.Zero(t, course.LTP.InternalMarksScored)
	assert.Zero(t, course.LTP.TotalMarksTested)
}

func TestLabClassLengthIsReadBeforeSupportedFlag(t *testing.T) {
	course := labCourse()
	course["ltpjc"] = "00x02"

	payload := enrollmentDoc()
	payload["courses"] = []interface{}{course}
	_, err := New(nil).DecodeEnrollment(encode(t, payload))
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)
	assert.Contains(t, err.Error(), "ltpjc")
}

func TestOptionalDescriptorsDefaultToNA(t *testing.T) {
	course := decodeSingleCourse(t, labCourse())

	assert.Equal(t, models.NotAvailable, course.Mode)
	assert.Equal(t, models.NotAvailable, course.Option)
	assert.Equal(t, models.NotAvailable, course.SubjectType)
	assert.Equal(t, models.NotAvailable, course.Faculty)
	assert.Equal(t, models.NotAvailable, course.LTP.Slot)
	assert.Equal(t, models.NotAvailable, course.LTP.Venue)

	lecture := lectureCourse()
	lecture["faculty"] = nil
	lecture["course_mode"] = 12
	got := decodeSingleCourse(t, lecture)
	assert.Equal(t, models.NotAvailable, got.Faculty)
	assert.Equal(t, models.NotAvailable, got.Mode)
}

func TestProjectCourse(t *testing.T) {
	course := decodeSingleCourse(t, projectCourse())

	assert.Equal(t, models.CourseKindPBC, course.Kind)
	assert.Equal(t, 4, course.Credits)
	assert.Nil(t, course.LTP)
	assert.Empty(t, course.ClassHours())
	title, ok := course.ProjectTitle()
	require.True(t, ok)
	assert.Equal(t, "Campus Drone Mapping", title)

	untitled := projectCourse()
	delete(untitled, "project_title")
	course = decodeSingleCourse(t, untitled)
	require.NotNil(t, course.Project)
	_, ok = course.ProjectTitle()
	assert.False(t, ok)

	typeFive := projectCourse()
	typeFive["course_type"] = 5
	course = decodeSingleCourse(t, typeFive)
	assert.Equal(t, models.CourseKindPBC, course.Kind)
}

func TestLTPKindsShareTimetableShape(t *testing.T) {
	kinds := map[int]models.CourseKind{
		1: models.CourseKindCBL,
		3: models.CourseKindPBL,
		4: models.CourseKindRBL,
	}
	for code, kind := range kinds {
		course := lectureCourse()
		course["course_type"] = code
		got := decodeSingleCourse(t, course)
		assert.Equal(t, kind, got.Kind)
		assert.True(t, got.Kind.IsLTP())
		require.NotNil(t, got.LTP)
		assert.Equal(t, "Programming in C", got.Title)
	}
}

func TestWeekdayFromIndex(t *testing.T) {
	expected := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	for index, want := range expected {
		got, err := weekdayFromIndex(index)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := weekdayFromIndex(-1)
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)
	_, err = weekdayFromIndex(7)
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)
}

func TestCreditsFromLTPJC(t *testing.T) {
	cases := map[string]int{
		"30004":  4,
		"00302":  2,
		"000010": 10,
	}
	for ltpjc, want := range cases {
		got, err := creditsFromLTPJC(ltpjc)
		require.NoError(t, err, ltpjc)
		assert.Equal(t, want, got, ltpjc)
	}

	for _, bad := range []string{"", "3000", "3000x"} {
		_, err := creditsFromLTPJC(bad)
		assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField, bad)
	}
}

func TestLabHoursFromLTPJC(t *testing.T) {
	got, err := labHoursFromLTPJC("00201")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	for _, bad := range []string{"00", "00x01", "00 01"} {
		_, err := labHoursFromLTPJC(bad)
		assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField, bad)
	}
}

func TestDuplicateAttendanceDateFails(t *testing.T) {
	course := lectureCourse()
	course["attendance"].(doc)["details"] = []interface{}{
		doc{"date": "2015-01-05", "slot": "A1", "status": "Present", "reason": ""},
		doc{"date": "2015-01-05", "slot": "TA1", "status": "Absent", "reason": ""},
	}
	payload := enrollmentDoc()
	payload["courses"] = []interface{}{course}

	_, err := New(nil).DecodeEnrollment(encode(t, payload))
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)
	assert.Contains(t, err.Error(), "recorded twice")
}
