package models

// MarkInfo is one internal assessment. Scored is nil when the assessment has
// not been conducted yet.
type MarkInfo struct {
	CourseIndex int      `json:"course_index"`
	Title       string   `json:"title"`
	MaxMarks    int      `json:"max_marks"`
	Weightage   int      `json:"weightage"`
	Scored      *float64 `json:"scored,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// Conducted reports whether a score is present.
func (m MarkInfo) Conducted() bool {
	return m.Scored != nil
}

// WeightedMarks returns scored/max × weightage, or false when not conducted.
// A zero maximum contributes nothing.
func (m MarkInfo) WeightedMarks() (float64, bool) {
	if m.Scored == nil {
		return 0, false
	}
	if m.MaxMarks == 0 {
		return 0, true
	}
	return *m.Scored / float64(m.MaxMarks) * float64(m.Weightage), true
}
