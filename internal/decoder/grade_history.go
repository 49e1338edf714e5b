package decoder

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/models"
)

// optionNone is the wire value for a course taken without an option.
const optionNone = "NIL"

type semesterSummary struct {
	examID  string
	credits int
	gpa     float64
}

// DecodeGradeHistory decodes the flat grade list, groups it by exam and joins
// each group with its semester summary. Groups without a summary are dropped.
func (d *Decoder) DecodeGradeHistory(text string) (*models.AcademicHistory, error) {
	root, err := parseObject(text)
	if err != nil {
		return nil, err
	}

	gradesArray, err := topLevelArray(root, "grades")
	if err != nil {
		return nil, err
	}
	grades := make([]models.GradeInfo, 0, len(gradesArray))
	for i, raw := range gradesArray {
		grade, err := decodeGradeInfo(raw)
		if err != nil {
			return nil, annotate(err, "grades[%d]", i)
		}
		grades = append(grades, grade)
	}

	summaryArray, err := topLevelArray(root, "semester_wise")
	if err != nil {
		return nil, err
	}
	summaries := make([]semesterSummary, 0, len(summaryArray))
	for i, raw := range summaryArray {
		summary, err := decodeSemesterSummary(raw)
		if err != nil {
			return nil, annotate(err, "semester_wise[%d]", i)
		}
		summaries = append(summaries, summary)
	}

	history := &models.AcademicHistory{
		Grades:    grades,
		Semesters: d.joinSemesters(grades, summaries),
	}
	if history.CGPA, err = getNumber(root, "cgpa"); err != nil {
		return nil, err
	}
	if history.CreditsRegistered, err = getInt(root, "credits_registered"); err != nil {
		return nil, err
	}
	if history.CreditsEarned, err = getInt(root, "credits_earned"); err != nil {
		return nil, err
	}
	refreshed, err := getString(root, "grades_refreshed")
	if err != nil {
		return nil, err
	}
	if history.LastRefreshed, err = ToCanonicalUTC(refreshed); err != nil {
		return nil, annotate(err, "grades_refreshed")
	}
	return history, nil
}

// groupByExam groups grades by exam key. Keys keep the order of their first
// appearance and grades keep their order within a group.
func groupByExam(grades []models.GradeInfo) ([]string, map[string][]models.GradeInfo) {
	keys := make([]string, 0)
	groups := make(map[string][]models.GradeInfo)
	for _, grade := range grades {
		if _, ok := groups[grade.ExamID]; !ok {
			keys = append(keys, grade.ExamID)
		}
		groups[grade.ExamID] = append(groups[grade.ExamID], grade)
	}
	return keys, groups
}

// joinSemesters inner-joins grade groups with summaries on the exam key and
// returns one semester per matched pair, sorted chronologically.
func (d *Decoder) joinSemesters(grades []models.GradeInfo, summaries []semesterSummary) []models.SemesterInfo {
	byExam := make(map[string][]semesterSummary, len(summaries))
	for _, summary := range summaries {
		byExam[summary.examID] = append(byExam[summary.examID], summary)
	}

	keys, groups := groupByExam(grades)
	semesters := make([]models.SemesterInfo, 0, len(keys))
	for _, key := range keys {
		matches, ok := byExam[key]
		if !ok {
			d.logger.Debug("dropping grade group without semester summary", zap.String("exam_held", key))
			continue
		}
		for _, summary := range matches {
			group := make([]models.GradeInfo, len(groups[key]))
			copy(group, groups[key])
			semesters = append(semesters, models.SemesterInfo{
				ExamID:        key,
				ExamMonth:     parseExamMonth(key),
				Grades:        group,
				CreditsEarned: summary.credits,
				GPA:           summary.gpa,
			})
		}
	}
	models.SortSemesters(semesters)
	return semesters
}

func decodeGradeInfo(raw interface{}) (models.GradeInfo, error) {
	obj, err := asObject(raw)
	if err != nil {
		return models.GradeInfo{}, err
	}

	info := models.GradeInfo{}
	if info.CourseCode, err = getString(obj, "course_code"); err != nil {
		return models.GradeInfo{}, err
	}
	if info.CourseTitle, err = getString(obj, "course_title"); err != nil {
		return models.GradeInfo{}, err
	}
	if info.CourseType, err = getString(obj, "course_type"); err != nil {
		return models.GradeInfo{}, err
	}
	option, err := getString(obj, "option")
	if err != nil {
		return models.GradeInfo{}, err
	}
	info.CourseOption = strings.ToUpper(option)
	if info.CourseOption == optionNone {
		info.CourseOption = ""
	}
	if info.Credits, err = getInt(obj, "credits"); err != nil {
		return models.GradeInfo{}, err
	}
	grade, err := getString(obj, "grade")
	if err != nil {
		return models.GradeInfo{}, err
	}
	first, size := utf8.DecodeRuneInString(grade)
	if size == 0 || first == utf8.RuneError {
		return models.GradeInfo{}, invalidField("grade", "is empty")
	}
	info.Grade = string(first)
	if info.ExamID, err = getString(obj, "exam_held"); err != nil {
		return models.GradeInfo{}, err
	}
	info.ExamMonth = parseExamMonth(info.ExamID)
	return info, nil
}

func decodeSemesterSummary(raw interface{}) (semesterSummary, error) {
	obj, err := asObject(raw)
	if err != nil {
		return semesterSummary{}, err
	}
	examID, err := getString(obj, "exam_held")
	if err != nil {
		return semesterSummary{}, err
	}
	credits, err := getInt(obj, "credits")
	if err != nil {
		return semesterSummary{}, err
	}
	gpa, err := getNumber(obj, "gpa")
	if err != nil {
		return semesterSummary{}, err
	}
	return semesterSummary{examID: examID, credits: credits, gpa: gpa}, nil
}
