package models

import (
	"sort"
	"time"
)

// GradeInfo is one course result from an exam session.
type GradeInfo struct {
	CourseCode   string     `json:"course_code"`
	CourseTitle  string     `json:"course_title"`
	CourseType   string     `json:"course_type"`
	CourseOption string     `json:"course_option"`
	Credits      int        `json:"credits"`
	Grade        string     `json:"grade"`
	ExamID       string     `json:"exam_id"`
	ExamMonth    *time.Time `json:"exam_month,omitempty"`
}

// SemesterInfo groups the grades of one exam session with its summary.
type SemesterInfo struct {
	ExamID        string      `json:"exam_id"`
	ExamMonth     *time.Time  `json:"exam_month,omitempty"`
	Grades        []GradeInfo `json:"grades"`
	CreditsEarned int         `json:"credits_earned"`
	GPA           float64     `json:"gpa"`
}

// Before orders semesters chronologically. Keys that name a month sort by
// that month and come first; remaining keys sort lexicographically.
func (s SemesterInfo) Before(other SemesterInfo) bool {
	switch {
	case s.ExamMonth != nil && other.ExamMonth != nil:
		if !s.ExamMonth.Equal(*other.ExamMonth) {
			return s.ExamMonth.Before(*other.ExamMonth)
		}
		return s.ExamID < other.ExamID
	case s.ExamMonth != nil:
		return true
	case other.ExamMonth != nil:
		return false
	default:
		return s.ExamID < other.ExamID
	}
}

// SortSemesters orders semesters in place using SemesterInfo.Before.
func SortSemesters(semesters []SemesterInfo) {
	sort.SliceStable(semesters, func(i, j int) bool {
		return semesters[i].Before(semesters[j])
	})
}

// AcademicHistory is the complete grade record of a student.
type AcademicHistory struct {
	Grades            []GradeInfo    `json:"grades"`
	Semesters         []SemesterInfo `json:"semesters"`
	CGPA              float64        `json:"cgpa"`
	CreditsRegistered int            `json:"credits_registered"`
	CreditsEarned     int            `json:"credits_earned"`
	LastRefreshed     time.Time      `json:"last_refreshed"`
}
