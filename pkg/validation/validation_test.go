package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type profileForm struct {
	FirstName  string `validate:"valid_name"`
	Phone      string `validate:"valid_phone"`
	Prefecture string `validate:"prefecture"`
	Bio        string `validate:"no_emoji"`
	CapPercent int    `validate:"cap_percent"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	valid := profileForm{FirstName: "Taro Yamada", Phone: "+819012345678", Prefecture: "東京都", Bio: "Go engineer", CapPercent: 22}
	assert.NoError(t, v.Struct(valid))

	t.Run("Should reject an unknown prefecture", func(t *testing.T) {
		form := valid
		form.Prefecture = "Tokyo"
		assert.Error(t, v.Struct(form))
	})

	t.Run("Should reject an unsupported cap percent", func(t *testing.T) {
		form := valid
		form.CapPercent = 30
		assert.Error(t, v.Struct(form))
	})

	t.Run("Should reject emoji", func(t *testing.T) {
		form := valid
		form.Bio = "hello 😀"
		assert.Error(t, v.Struct(form))
	})

	t.Run("Should reject digits-only names with symbols", func(t *testing.T) {
		form := valid
		form.FirstName = "<script>"
		assert.Error(t, v.Struct(form))
	})
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator()
	err := v.Struct(profileForm{Prefecture: "Tokyo", CapPercent: 1})

	messages := FormatValidationErrors(err)
	assert.Contains(t, messages, "Prefecture must be a Japanese prefecture")
	assert.Contains(t, messages, "Cap percent must be 20, 22 or 25")
}
