package models

import "time"

// Attendance summarises class attendance for one course.
type Attendance struct {
	CourseIndex     int              `json:"course_index"`
	Supported       bool             `json:"supported"`
	TotalClasses    int              `json:"total_classes"`
	AttendedClasses int              `json:"attended_classes"`
	Percentage      float64          `json:"percentage"`
	ClassLength     int              `json:"class_length"`
	Details         []AttendanceStub `json:"details"`
}

// AttendanceStub is the record of a single class session, ordered by Date.
type AttendanceStub struct {
	Date   time.Time `json:"date"`
	Slot   string    `json:"slot"`
	Status string    `json:"status"`
	Reason string    `json:"reason"`
}

// StubOn returns the stub recorded for the given class date.
func (a *Attendance) StubOn(date time.Time) (AttendanceStub, bool) {
	for _, stub := range a.Details {
		if stub.Date.Equal(date) {
			return stub, true
		}
	}
	return AttendanceStub{}, false
}
