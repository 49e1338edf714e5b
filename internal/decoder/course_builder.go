package decoder

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

const (
	// creditsOffset is where the credit count starts within an LTPJC string.
	creditsOffset = 4
	// labHoursOffset is the position of the practical hours digit.
	labHoursOffset = 2
)

// buildCourses assembles every course element in order. The index handed to
// each course is its position in the returned slice, so skipped elements leave
// no gaps.
func (d *Decoder) buildCourses(arr []interface{}) ([]models.Course, int, error) {
	courses := make([]models.Course, 0, len(arr))
	totalCredits := 0
	for i, raw := range arr {
		obj, err := asObject(raw)
		if err != nil {
			return nil, 0, annotate(err, "courses[%d]", i)
		}
		course, err := buildCourse(obj, len(courses))
		if err != nil {
			if errors.Is(err, appErrors.ErrUnrecognizedVariant) {
				d.skipCourse(i, obj)
				continue
			}
			return nil, 0, annotate(err, "courses[%d]", i)
		}
		courses = append(courses, course)
		totalCredits += course.Credits
	}
	return courses, totalCredits, nil
}

func (d *Decoder) skipCourse(position int, obj jsonObject) {
	courseType, _ := getInt(obj, "course_type")
	d.logger.Debug("skipping course with unrecognized type",
		zap.Int("position", position),
		zap.Int("course_type", courseType),
	)
	if d.onSkip != nil {
		d.onSkip(courseType)
	}
}

func buildCourse(obj jsonObject, index int) (models.Course, error) {
	course, err := selectVariant(obj)
	if err != nil {
		return models.Course{}, err
	}
	if course, err = assignRootFields(course, obj); err != nil {
		return models.Course{}, err
	}
	if course, err = assignBaseFields(course, obj, index); err != nil {
		return models.Course{}, err
	}
	return assignVariantFields(course, obj), nil
}

// selectVariant is the first build stage.
func selectVariant(obj jsonObject) (models.Course, error) {
	code, err := getInt(obj, "course_type")
	if err != nil {
		return models.Course{}, err
	}
	kind, ok := models.CourseKindFromCode(code)
	if !ok {
		return models.Course{}, appErrors.Clone(appErrors.ErrUnrecognizedVariant, fmt.Sprintf("course_type %d", code))
	}
	return models.Course{Kind: kind}, nil
}

// assignRootFields fills the fields common to every variant.
func assignRootFields(course models.Course, obj jsonObject) (models.Course, error) {
	var err error
	base := models.CourseBase{}
	if base.ClassNumber, err = getInt(obj, "class_number"); err != nil {
		return course, err
	}
	if base.Code, err = getString(obj, "course_code"); err != nil {
		return course, err
	}
	base.Mode = getStringOr(obj, "course_mode", models.NotAvailable)
	base.Option = getStringOr(obj, "course_option", models.NotAvailable)
	base.SubjectType = getStringOr(obj, "subject_type", models.NotAvailable)
	base.Faculty = getStringOr(obj, "faculty", models.NotAvailable)
	if base.Title, err = getString(obj, "course_title"); err != nil {
		return course, err
	}
	if base.LTPJC, err = getString(obj, "ltpjc"); err != nil {
		return course, err
	}
	if base.Credits, err = creditsFromLTPJC(base.LTPJC); err != nil {
		return course, err
	}
	course.CourseBase = base
	return course, nil
}

// assignBaseFields is the second stage: LTP kinds get their timetable,
// attendance and marks, non-LTP kinds get nothing.
func assignBaseFields(course models.Course, obj jsonObject, index int) (models.Course, error) {
	switch course.Kind {
	case models.CourseKindCBL, models.CourseKindLBC, models.CourseKindPBL, models.CourseKindRBL:
		ltp, err := buildLTPDetails(course, obj, index)
		if err != nil {
			return course, err
		}
		course.LTP = ltp
	case models.CourseKindPBC:
	}
	return course, nil
}

// assignVariantFields is the final stage.
func assignVariantFields(course models.Course, obj jsonObject) models.Course {
	switch course.Kind {
	case models.CourseKindLBC:
		course.Title += models.LabTitleSuffix
	case models.CourseKindPBC:
		course.Project = &models.ProjectDetails{Title: getNullableString(obj, "project_title")}
	case models.CourseKindCBL, models.CourseKindPBL, models.CourseKindRBL:
	}
	return course
}

func buildLTPDetails(course models.Course, obj jsonObject, index int) (*models.LTPDetails, error) {
	ltp := &models.LTPDetails{
		Slot:  getStringOr(obj, "slot", models.NotAvailable),
		Venue: getStringOr(obj, "venue", models.NotAvailable),
	}

	timings, err := getArray(obj, "timings")
	if err != nil {
		return nil, err
	}
	if ltp.Timings, err = buildClassHours(timings, index); err != nil {
		return nil, annotate(err, "timings")
	}

	attendanceObj, err := getObject(obj, "attendance")
	if err != nil {
		return nil, err
	}
	if ltp.Attendance, err = buildAttendance(course, attendanceObj, index); err != nil {
		return nil, annotate(err, "attendance")
	}

	marksObj, err := getObject(obj, "marks")
	if err != nil {
		return nil, err
	}
	summary, err := buildMarks(marksObj, index)
	if err != nil {
		return nil, annotate(err, "marks")
	}
	ltp.Marks = summary.marks
	ltp.InternalMarksScored = summary.scored
	ltp.TotalMarksTested = summary.tested
	return ltp, nil
}

func buildClassHours(arr []interface{}, index int) ([]models.ClassHours, error) {
	hours := make([]models.ClassHours, 0, len(arr))
	for i, raw := range arr {
		obj, err := asObject(raw)
		if err != nil {
			return nil, annotate(err, "[%d]", i)
		}
		entry, err := decodeClassHours(obj, index)
		if err != nil {
			return nil, annotate(err, "[%d]", i)
		}
		hours = append(hours, entry)
	}
	return hours, nil
}

func decodeClassHours(obj jsonObject, index int) (models.ClassHours, error) {
	startText, err := getString(obj, "start_time")
	if err != nil {
		return models.ClassHours{}, err
	}
	start, err := ToLocalFixedOffset(startText)
	if err != nil {
		return models.ClassHours{}, err
	}
	endText, err := getString(obj, "end_time")
	if err != nil {
		return models.ClassHours{}, err
	}
	end, err := ToLocalFixedOffset(endText)
	if err != nil {
		return models.ClassHours{}, err
	}
	dayIndex, err := getInt(obj, "day")
	if err != nil {
		return models.ClassHours{}, err
	}
	day, err := weekdayFromIndex(dayIndex)
	if err != nil {
		return models.ClassHours{}, err
	}
	return models.ClassHours{CourseIndex: index, Start: start, End: end, Day: day}, nil
}

// weekdayFromIndex shifts the source's Monday-based day index onto
// time.Weekday, where Sunday is 0.
func weekdayFromIndex(index int) (time.Weekday, error) {
	if index < 0 || index > 6 {
		return 0, invalidField("day", fmt.Sprintf("index %d is outside 0..6", index))
	}
	return time.Weekday((index + 1) % 7), nil
}

func creditsFromLTPJC(ltpjc string) (int, error) {
	if len(ltpjc) <= creditsOffset {
		return 0, invalidField("ltpjc", fmt.Sprintf("%q is too short", ltpjc))
	}
	credits, err := strconv.Atoi(ltpjc[creditsOffset:])
	if err != nil || credits < 0 {
		return 0, invalidField("ltpjc", fmt.Sprintf("%q has no trailing credit count", ltpjc))
	}
	return credits, nil
}

func labHoursFromLTPJC(ltpjc string) (int, error) {
	if len(ltpjc) <= labHoursOffset {
		return 0, invalidField("ltpjc", fmt.Sprintf("%q is too short", ltpjc))
	}
	c := ltpjc[labHoursOffset]
	if c < '0' || c > '9' {
		return 0, invalidField("ltpjc", fmt.Sprintf("%q has no practical hours digit", ltpjc))
	}
	return int(c - '0'), nil
}
