package decoder

import (
	"math"
	"strings"

	"github.com/noah-isme/academics-api/internal/models"
)

type marksSummary struct {
	marks  []models.MarkInfo
	scored float64
	tested int
}

func roundMarks(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func buildMarks(obj jsonObject, index int) (marksSummary, error) {
	summary := marksSummary{marks: []models.MarkInfo{}}

	supported, err := getBool(obj, "supported")
	if err != nil {
		return marksSummary{}, err
	}
	if !supported {
		return summary, nil
	}

	assessments, err := getArray(obj, "assessments")
	if err != nil {
		return marksSummary{}, err
	}
	var scored float64
	for i, raw := range assessments {
		mark, err := decodeMarkInfo(raw, index)
		if err != nil {
			return marksSummary{}, annotate(err, "assessments[%d]", i)
		}
		if weighted, ok := mark.WeightedMarks(); ok {
			scored += weighted
			summary.tested += mark.Weightage
		}
		summary.marks = append(summary.marks, mark)
	}
	summary.scored = roundMarks(scored)
	return summary, nil
}

func decodeMarkInfo(raw interface{}, index int) (models.MarkInfo, error) {
	obj, err := asObject(raw)
	if err != nil {
		return models.MarkInfo{}, err
	}
	title, err := getString(obj, "title")
	if err != nil {
		return models.MarkInfo{}, err
	}
	maxMarks, err := getInt(obj, "max_marks")
	if err != nil {
		return models.MarkInfo{}, err
	}
	weightage, err := getInt(obj, "weightage")
	if err != nil {
		return models.MarkInfo{}, err
	}
	scored, err := getOptionalNumber(obj, "scored_marks")
	if err != nil {
		return models.MarkInfo{}, err
	}

	mark := models.MarkInfo{
		CourseIndex: index,
		Title:       strings.ToUpper(title),
		MaxMarks:    maxMarks,
		Weightage:   weightage,
		Scored:      scored,
	}
	if status := getNullableString(obj, "status"); status != nil {
		upper := strings.ToUpper(*status)
		mark.Status = &upper
	}
	return mark, nil
}
