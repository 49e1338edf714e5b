// Package decoder turns student information system JSON payloads into the
// academic domain model. Every operation is a pure function of its input text:
// no I/O, no shared mutable state, safe for concurrent use.
package decoder

import (
	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/models"
)

// Option customises a Decoder.
type Option func(*Decoder)

// WithSkipObserver registers fn to be called for every course element skipped
// because of an unrecognized course type.
func WithSkipObserver(fn func(courseType int)) Option {
	return func(d *Decoder) {
		d.onSkip = fn
	}
}

// Decoder exposes the decode operations.
type Decoder struct {
	logger *zap.Logger
	onSkip func(courseType int)
}

// New constructs a Decoder. A nil logger disables logging.
func New(logger *zap.Logger, opts ...Option) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Decoder{logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeStatus maps the status object of a response. It never fails: a
// malformed document or a missing code yields StatusInvalidData.
func (d *Decoder) DecodeStatus(text string) models.StatusCode {
	root, err := parseObject(text)
	if err != nil {
		return models.StatusInvalidData
	}
	statusObj, err := getObject(root, "status")
	if err != nil {
		return models.StatusInvalidData
	}
	code, err := getInt(statusObj, "code")
	if err != nil {
		return models.StatusInvalidData
	}
	return models.StatusFromWireCode(code)
}

// DecodeBareUser extracts the identity fields of the payload owner.
func (d *Decoder) DecodeBareUser(text string) (*models.User, error) {
	root, err := parseObject(text)
	if err != nil {
		return nil, err
	}
	return decodeBareUser(root)
}

// DecodeEnrollment decodes the owner, the enrolled courses and the course
// metadata. Course elements with an unrecognized type are skipped; any other
// failure aborts the whole decode.
func (d *Decoder) DecodeEnrollment(text string) (*models.User, error) {
	root, err := parseObject(text)
	if err != nil {
		return nil, err
	}
	user, err := decodeBareUser(root)
	if err != nil {
		return nil, err
	}

	coursesArray, err := topLevelArray(root, "courses")
	if err != nil {
		return nil, err
	}
	courses, totalCredits, err := d.buildCourses(coursesArray)
	if err != nil {
		return nil, err
	}

	semester, err := getString(root, "semester")
	if err != nil {
		return nil, err
	}
	refreshed, err := getString(root, "refreshed")
	if err != nil {
		return nil, err
	}
	refreshedAt, err := ToCanonicalUTC(refreshed)
	if err != nil {
		return nil, annotate(err, "refreshed")
	}

	user.Courses = courses
	user.CoursesMetadata = &models.CoursesMetadata{
		Semester:     semester,
		RefreshedAt:  refreshedAt,
		TotalCredits: totalCredits,
	}
	return user, nil
}

// DecodeAdvisor decodes the faculty advisor record.
func (d *Decoder) DecodeAdvisor(text string) (*models.FacultyAdvisor, error) {
	root, err := parseObject(text)
	if err != nil {
		return nil, err
	}
	obj, err := topLevelObject(root, "advisor")
	if err != nil {
		return nil, err
	}

	advisor := &models.FacultyAdvisor{}
	fields := []struct {
		key string
		dst *string
	}{
		{"name", &advisor.Name},
		{"school", &advisor.School},
		{"designation", &advisor.Designation},
		{"division", &advisor.Division},
		{"phone", &advisor.Phone},
		{"email", &advisor.Email},
		{"cabin", &advisor.Cabin},
		{"intercom", &advisor.Intercom},
	}
	for _, f := range fields {
		value, err := getString(obj, f.key)
		if err != nil {
			return nil, annotate(err, "advisor")
		}
		*f.dst = value
	}
	return advisor, nil
}

// DecodeContributors decodes the project contributor list. Any malformed
// element fails the whole list.
func (d *Decoder) DecodeContributors(text string) ([]models.Contributor, error) {
	root, err := parseObject(text)
	if err != nil {
		return nil, err
	}
	arr, err := topLevelArray(root, "contributors")
	if err != nil {
		return nil, err
	}

	contributors := make([]models.Contributor, 0, len(arr))
	for i, raw := range arr {
		contributor, err := decodeContributor(raw)
		if err != nil {
			return nil, annotate(err, "contributors[%d]", i)
		}
		contributors = append(contributors, contributor)
	}
	return contributors, nil
}

func decodeContributor(raw interface{}) (models.Contributor, error) {
	obj, err := asObject(raw)
	if err != nil {
		return models.Contributor{}, err
	}
	name, err := getString(obj, "name")
	if err != nil {
		return models.Contributor{}, err
	}
	role, err := getString(obj, "role")
	if err != nil {
		return models.Contributor{}, err
	}
	profile, err := getString(obj, "github_profile")
	if err != nil {
		return models.Contributor{}, err
	}
	return models.Contributor{Name: name, Role: role, GithubProfile: profile}, nil
}
