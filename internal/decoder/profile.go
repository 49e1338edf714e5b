package decoder

import (
	"github.com/noah-isme/academics-api/internal/models"
)

// campusWithoutPhone does not publish student phone numbers.
const campusWithoutPhone = "chennai"

func decodeBareUser(root jsonObject) (*models.User, error) {
	regNo, err := getString(root, "reg_no")
	if err != nil {
		return nil, err
	}
	dobText, err := getString(root, "dob")
	if err != nil {
		return nil, err
	}
	dob, err := parseDateOfBirth(dobText)
	if err != nil {
		return nil, annotate(err, "dob")
	}
	campus, err := getString(root, "campus")
	if err != nil {
		return nil, err
	}

	phone := models.PhoneNotAvailable
	if campus != campusWithoutPhone {
		phone, err = getString(root, "mobile")
		if err != nil {
			return nil, err
		}
	}

	return &models.User{
		RegNo:       regNo,
		DateOfBirth: dob,
		Campus:      campus,
		PhoneNo:     phone,
	}, nil
}
