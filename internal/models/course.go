package models

import "time"

// CourseKind identifies one of the concrete course variants.
type CourseKind string

const (
	// CourseKindCBL is a classroom based lecture course.
	CourseKindCBL CourseKind = "CBL"
	// CourseKindLBC is a lab course.
	CourseKindLBC CourseKind = "LBC"
	// CourseKindPBL is a project based lecture course.
	CourseKindPBL CourseKind = "PBL"
	// CourseKindRBL is a research based lecture course.
	CourseKindRBL CourseKind = "RBL"
	// CourseKindPBC is a project based component without a timetable.
	CourseKindPBC CourseKind = "PBC"
)

// LabTitleSuffix is appended to every lab course title.
const LabTitleSuffix = " Lab"

// NotAvailable fills optional course descriptors missing from the payload.
const NotAvailable = "NA"

// CourseKindFromCode maps the wire course_type onto a variant.
func CourseKindFromCode(code int) (CourseKind, bool) {
	switch code {
	case 1:
		return CourseKindCBL, true
	case 2:
		return CourseKindLBC, true
	case 3:
		return CourseKindPBL, true
	case 4:
		return CourseKindRBL, true
	case 5, 6:
		return CourseKindPBC, true
	default:
		return "", false
	}
}

// IsLTP reports whether courses of this kind follow a lecture/tutorial/practical
// timetable and therefore carry timings, attendance and marks.
func (k CourseKind) IsLTP() bool {
	switch k {
	case CourseKindCBL, CourseKindLBC, CourseKindPBL, CourseKindRBL:
		return true
	default:
		return false
	}
}

// CourseBase holds the fields shared by every course variant.
type CourseBase struct {
	ClassNumber int    `json:"class_number"`
	Code        string `json:"course_code"`
	Title       string `json:"course_title"`
	Mode        string `json:"course_mode"`
	Option      string `json:"course_option"`
	SubjectType string `json:"subject_type"`
	Faculty     string `json:"faculty"`
	LTPJC       string `json:"ltpjc"`
	Credits     int    `json:"credits"`
}

// Course is a tagged union over the course variants. LTP is set for the LTP
// kinds only and Project for PBC only.
type Course struct {
	Kind CourseKind `json:"kind"`
	CourseBase
	LTP     *LTPDetails     `json:"ltp,omitempty"`
	Project *ProjectDetails `json:"project,omitempty"`
}

// LTPDetails carries the timetable, attendance and internal marks of an LTP course.
type LTPDetails struct {
	Slot                string       `json:"slot"`
	Venue               string       `json:"venue"`
	Timings             []ClassHours `json:"timings"`
	Attendance          Attendance   `json:"attendance"`
	Marks               []MarkInfo   `json:"marks"`
	InternalMarksScored float64      `json:"internal_marks_scored"`
	TotalMarksTested    int          `json:"total_marks_tested"`
}

// ProjectDetails carries PBC specific data.
type ProjectDetails struct {
	Title *string `json:"project_title,omitempty"`
}

// ClassHours is one weekly timetable entry. CourseIndex is the position of the
// owning course in User.Courses.
type ClassHours struct {
	CourseIndex int          `json:"course_index"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	Day         time.Weekday `json:"day"`
}

// ClassHours returns the timetable entries, empty for non-LTP courses.
func (c *Course) ClassHours() []ClassHours {
	if c == nil || c.LTP == nil {
		return nil
	}
	return c.LTP.Timings
}

// ProjectTitle returns the PBC project title when one was supplied.
func (c *Course) ProjectTitle() (string, bool) {
	if c == nil || c.Project == nil || c.Project.Title == nil {
		return "", false
	}
	return *c.Project.Title, true
}
