package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

func TestParseObjectRejectsNonObjects(t *testing.T) {
	for _, text := range []string{``, `null`, `[1,2]`, `"text"`, `{"open":`} {
		_, err := parseObject(text)
		assert.ErrorIs(t, err, appErrors.ErrStructuralFailure, text)
	}
}

func TestAccessors(t *testing.T) {
	obj, err := parseObject(`{"s":"v","n":12.9,"neg":-3.7,"b":true,"null":null,"o":{},"a":[1],"big":1e12}`)
	require.NoError(t, err)

	s, err := getString(obj, "s")
	require.NoError(t, err)
	assert.Equal(t, "v", s)

	_, err = getString(obj, "n")
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)
	_, err = getString(obj, "null")
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)

	n, err := getInt(obj, "n")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	n, err = getInt(obj, "neg")
	require.NoError(t, err)
	assert.Equal(t, -3, n)
	_, err = getInt(obj, "big")
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)

	b, err := getBool(obj, "b")
	require.NoError(t, err)
	assert.True(t, b)
	_, err = getBool(obj, "s")
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)

	_, err = getObject(obj, "o")
	assert.NoError(t, err)
	_, err = getObject(obj, "a")
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)

	arr, err := getArray(obj, "a")
	require.NoError(t, err)
	assert.Len(t, arr, 1)
}

func TestOptionalAccessors(t *testing.T) {
	obj, err := parseObject(`{"s":"v","n":1.5,"null":null}`)
	require.NoError(t, err)

	assert.Equal(t, "v", getStringOr(obj, "s", "NA"))
	assert.Equal(t, "NA", getStringOr(obj, "missing", "NA"))
	assert.Equal(t, "NA", getStringOr(obj, "n", "NA"))

	assert.Nil(t, getNullableString(obj, "null"))
	require.NotNil(t, getNullableString(obj, "s"))

	f, err := getOptionalNumber(obj, "n")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 1.5, *f)

	f, err = getOptionalNumber(obj, "null")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = getOptionalNumber(obj, "s")
	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)
}

func TestTopLevelAbsenceIsStructural(t *testing.T) {
	obj, err := parseObject(`{"courses":{}}`)
	require.NoError(t, err)

	_, err = topLevelArray(obj, "courses")
	assert.ErrorIs(t, err, appErrors.ErrStructuralFailure)
	_, err = topLevelObject(obj, "advisor")
	assert.ErrorIs(t, err, appErrors.ErrStructuralFailure)
}

func TestAnnotateKeepsCode(t *testing.T) {
	err := annotate(annotate(invalidField("slot", "is missing"), "attendance"), "courses[%d]", 3)

	assert.ErrorIs(t, err, appErrors.ErrMissingOrInvalidField)
	assert.Equal(t, appErrors.ErrMissingOrInvalidField.Code, appErrors.FromError(err).Code)
	assert.Equal(t, `courses[3]: attendance: field "slot" is missing`, err.Error())
}
