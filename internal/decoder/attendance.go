package decoder

import (
	"fmt"
	"sort"

	"github.com/noah-isme/academics-api/internal/models"
)

func buildAttendance(course models.Course, obj jsonObject, index int) (models.Attendance, error) {
	classLength := 1
	if course.Kind == models.CourseKindLBC {
		hours, err := labHoursFromLTPJC(course.LTPJC)
		if err != nil {
			return models.Attendance{}, err
		}
		classLength = hours
	}

	attendance := models.Attendance{
		CourseIndex: index,
		ClassLength: classLength,
		Details:     []models.AttendanceStub{},
	}

	supported, err := getBool(obj, "supported")
	if err != nil {
		return models.Attendance{}, err
	}
	if !supported {
		return attendance, nil
	}
	attendance.Supported = true

	if attendance.TotalClasses, err = getInt(obj, "total_classes"); err != nil {
		return models.Attendance{}, err
	}
	if attendance.AttendedClasses, err = getInt(obj, "attended_classes"); err != nil {
		return models.Attendance{}, err
	}
	if attendance.Percentage, err = getNumber(obj, "attendance_percentage"); err != nil {
		return models.Attendance{}, err
	}

	details, err := getArray(obj, "details")
	if err != nil {
		return models.Attendance{}, err
	}
	seen := make(map[int64]struct{}, len(details))
	for i, raw := range details {
		stub, err := decodeAttendanceStub(raw)
		if err != nil {
			return models.Attendance{}, annotate(err, "details[%d]", i)
		}
		key := stub.Date.Unix()
		if _, dup := seen[key]; dup {
			return models.Attendance{}, annotate(invalidField("date", fmt.Sprintf("%s is recorded twice", stub.Date.Format(classDateLayout))), "details[%d]", i)
		}
		seen[key] = struct{}{}
		attendance.Details = append(attendance.Details, stub)
	}
	sort.SliceStable(attendance.Details, func(i, j int) bool {
		return attendance.Details[i].Date.Before(attendance.Details[j].Date)
	})
	return attendance, nil
}

func decodeAttendanceStub(raw interface{}) (models.AttendanceStub, error) {
	obj, err := asObject(raw)
	if err != nil {
		return models.AttendanceStub{}, err
	}
	dateText, err := getString(obj, "date")
	if err != nil {
		return models.AttendanceStub{}, err
	}
	date, err := parseClassDate(dateText)
	if err != nil {
		return models.AttendanceStub{}, err
	}
	slot, err := getString(obj, "slot")
	if err != nil {
		return models.AttendanceStub{}, err
	}
	status, err := getString(obj, "status")
	if err != nil {
		return models.AttendanceStub{}, err
	}
	reason, err := getString(obj, "reason")
	if err != nil {
		return models.AttendanceStub{}, err
	}
	return models.AttendanceStub{Date: date, Slot: slot, Status: status, Reason: reason}, nil
}
