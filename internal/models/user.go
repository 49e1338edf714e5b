package models

import "time"

// PhoneNotAvailable is stored when a campus does not publish phone numbers.
const PhoneNotAvailable = "NA"

// User is the student that owns an enrollment snapshot.
type User struct {
	RegNo           string           `json:"reg_no"`
	DateOfBirth     time.Time        `json:"dob"`
	Campus          string           `json:"campus"`
	PhoneNo         string           `json:"phone_no"`
	Courses         []Course         `json:"courses,omitempty"`
	CoursesMetadata *CoursesMetadata `json:"courses_metadata,omitempty"`
}

// CoursesMetadata summarises the enrolled course list.
type CoursesMetadata struct {
	Semester     string    `json:"semester"`
	RefreshedAt  time.Time `json:"refreshed_at"`
	TotalCredits int       `json:"total_credits"`
}

// TotalCredits recomputes the credit sum from the owned courses.
func (u *User) TotalCredits() int {
	if u == nil {
		return 0
	}
	total := 0
	for i := range u.Courses {
		total += u.Courses[i].Credits
	}
	return total
}

// CourseByClassNumber returns the owned course with the given class number.
func (u *User) CourseByClassNumber(classNumber int) (*Course, bool) {
	if u == nil {
		return nil, false
	}
	for i := range u.Courses {
		if u.Courses[i].ClassNumber == classNumber {
			return &u.Courses[i], true
		}
	}
	return nil, false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
