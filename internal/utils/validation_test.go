package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	valid := []string{
		"client@example.com",
		"first.last@firm.co.in",
		"a+b@sub.domain.org",
	}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"no-at-sign.com",
		"two@@example.com",
		"spaces in@example.com",
		"missing@tld",
	}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}

type intakeForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Message   string `json:"message"`
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields(&intakeForm{LastName: "Sharma"})
	assert.Equal(t, []string{"firstName", "email"}, missing)
}

func TestMissingFieldsComplete(t *testing.T) {
	form := &intakeForm{FirstName: "Priya", LastName: "Sharma", Email: "p@example.com"}
	assert.Empty(t, MissingFields(form))
}
