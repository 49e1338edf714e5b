package service

const enrollmentPayload = `{
  "reg_no": "13BCE0001",
  "dob": "15081995",
  "campus": "vellore",
  "mobile": "9876543210",
  "semester": "WS",
  "refreshed": "2015-01-18T11:48:12.812Z",
  "courses": [
    {
      "course_type": 1, "class_number": 1001, "course_code": "CSE101", "course_title": "Programming in C",
      "course_mode": "CBL", "course_option": "NIL", "subject_type": "Theory Only", "faculty": "Dr. Ramesh",
      "ltpjc": "30004", "slot": "A1+TA1", "venue": "SJT301",
      "timings": [
        {"start_time": "2015-01-05T02:30:00Z", "end_time": "2015-01-05T03:20:00Z", "day": 0},
        {"start_time": "2015-01-07T02:30:00Z", "end_time": "2015-01-07T03:20:00Z", "day": 2}
      ],
      "attendance": {
        "supported": true, "total_classes": 20, "attended_classes": 18, "attendance_percentage": 90,
        "details": [
          {"date": "2015-01-12", "slot": "A1", "status": "Absent", "reason": "Medical"},
          {"date": "2015-01-05", "slot": "A1", "status": "Present", "reason": ""}
        ]
      },
      "marks": {
        "supported": true,
        "assessments": [
          {"title": "cat-i", "max_marks": 50, "weightage": 15, "scored_marks": 40, "status": "present"}
        ]
      }
    },
    {
      "course_type": 2, "class_number": 1002, "course_code": "CSE101", "course_title": "Programming in C",
      "ltpjc": "00302",
      "timings": [
        {"start_time": "2015-01-09T08:00:00Z", "end_time": "2015-01-09T09:40:00Z", "day": 4}
      ],
      "attendance": {"supported": false, "total_classes": 12, "attended_classes": 10, "attendance_percentage": 83},
      "marks": {"supported": false}
    },
    {
      "course_type": 6, "class_number": 1003, "course_code": "CSE499", "course_title": "Capstone",
      "ltpjc": "00004", "project_title": "Campus Drone Mapping"
    },
    {
      "course_type": 7, "class_number": 1004, "course_code": "HUM001", "course_title": "Audit", "ltpjc": "20002"
    }
  ]
}`

const gradesPayload = `{
  "grades": [
    {"course_code": "CSE101", "course_title": "Programming", "course_type": "TH", "option": "nil", "credits": 4, "grade": "S", "exam_held": "Nov-2014"},
    {"course_code": "MAT101", "course_title": "Calculus", "course_type": "TH", "option": "Minor", "credits": 4, "grade": "A", "exam_held": "Nov-2014"},
    {"course_code": "PHY101", "course_title": "Physics", "course_type": "ETH", "option": "NIL", "credits": 3, "grade": "B", "exam_held": "May-2015"}
  ],
  "semester_wise": [
    {"exam_held": "May-2015", "credits": 3, "gpa": 8},
    {"exam_held": "Nov-2014", "credits": 8, "gpa": 9.5}
  ],
  "cgpa": 9.03,
  "credits_registered": 11,
  "credits_earned": 11,
  "grades_refreshed": "2015-06-01T10:00:00Z"
}`

const advisorPayload = `{"advisor": {"name": "Dr. Meera", "school": "SCSE", "designation": "Professor", "division": "CSE",
  "phone": "0416-2202020", "email": "meera@example.edu", "cabin": "SJT 412", "intercom": "2020"}}`
