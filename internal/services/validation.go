package services

import (
	"errors"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxCategoryNameLength = 50
	maxLinkTitleLength    = 100
	maxURLLength          = 2048
	minHiddenPassword     = 4
)

var errWeakPassword = errors.New("password must be at least 8 characters and contain letters and digits")

// strongPassword accepts passwords of at least 8 characters mixing letters
// and digits.
var strongPassword = validation.By(func(value interface{}) error {
	password, _ := value.(string)
	if !isStrongPassword(password) {
		return errWeakPassword
	}
	return nil
})

func isStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
