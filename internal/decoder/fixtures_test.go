package decoder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type doc = map[string]interface{}

func lectureCourse() doc {
	return doc{
		"course_type":   1,
		"class_number":  1001,
		"course_code":   "CSE101",
		"course_title":  "Programming in C",
		"course_mode":   "CBL",
		"course_option": "NIL",
		"subject_type":  "Theory Only",
		"faculty":       "Dr. Ramesh",
		"ltpjc":         "30004",
		"slot":          "A1+TA1",
		"venue":         "SJT301",
		"timings": []interface{}{
			doc{"start_time": "2015-01-05T02:30:00Z", "end_time": "2015-01-05T03:20:00Z", "day": 0},
			doc{"start_time": "2015-01-07T02:30:00Z", "end_time": "2015-01-07T03:20:00Z", "day": 2},
		},
		"attendance": doc{
			"supported":             true,
			"total_classes":         20,
			"attended_classes":      18,
			"attendance_percentage": 90,
			"details": []interface{}{
				doc{"date": "2015-01-12", "slot": "A1", "status": "Absent", "reason": "Medical"},
				doc{"date": "2015-01-05", "slot": "A1", "status": "Present", "reason": ""},
			},
		},
		"marks": doc{
			"supported": true,
			"assessments": []interface{}{
				doc{"title": "cat-i", "max_marks": 50, "weightage": 15, "scored_marks": 40, "status": "present"},
				doc{"title": "cat-ii", "max_marks": 50, "weightage": 15, "scored_marks": nil},
				doc{"title": "quiz-i", "max_marks": 5, "weightage": 5, "scored_marks": 3.33, "status": "present"},
			},
		},
	}
}

func labCourse() doc {
	return doc{
		"course_type":  2,
		"class_number": 1002,
		"course_code":  "CSE101",
		"course_title": "Programming in C",
		"ltpjc":        "00302",
		"timings": []interface{}{
			doc{"start_time": "2015-01-09T08:00:00Z", "end_time": "2015-01-09T09:40:00Z", "day": 4},
		},
		"attendance": doc{"supported": false, "total_classes": 12, "attended_classes": 10, "attendance_percentage": 83},
		"marks":      doc{"supported": false},
	}
}

func projectCourse() doc {
	return doc{
		"course_type":   6,
		"class_number":  1003,
		"course_code":   "CSE499",
		"course_title":  "Capstone",
		"ltpjc":         "00004",
		"project_title": "Campus Drone Mapping",
	}
}

func unknownCourse() doc {
	return doc{
		"course_type":  7,
		"class_number": 1004,
		"course_code":  "HUM001",
		"course_title": "Audit",
		"ltpjc":        "20002",
	}
}

func enrollmentDoc() doc {
	return doc{
		"reg_no":    "13BCE0001",
		"dob":       "15081995",
		"campus":    "vellore",
		"mobile":    "9876543210",
		"semester":  "WS",
		"refreshed": "2015-01-18T11:48:12.812Z",
		"courses":   []interface{}{lectureCourse(), labCourse(), projectCourse(), unknownCourse()},
	}
}

func gradesDoc() doc {
	return doc{
		"grades": []interface{}{
			doc{"course_code": "CSE101", "course_title": "Programming", "course_type": "TH", "option": "nil", "credits": 4, "grade": "S", "exam_held": "S1"},
			doc{"course_code": "MAT101", "course_title": "Calculus", "course_type": "TH", "option": "Minor", "credits": 4, "grade": "A", "exam_held": "S1"},
			doc{"course_code": "PHY101", "course_title": "Physics", "course_type": "ETH", "option": "NIL", "credits": 3, "grade": "B", "exam_held": "S2"},
		},
		"semester_wise": []interface{}{
			doc{"exam_held": "S1", "credits": 20, "gpa": 9.1},
		},
		"cgpa":               9.1,
		"credits_registered": 23,
		"credits_earned":     20,
		"grades_refreshed":   "2015-06-01T10:00:00Z",
	}
}

func encode(t *testing.T, d doc) string {
	t.Helper()
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	return string(raw)
}
