package validation

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/VitaminP8/moim/internal/model"
	apperrors "github.com/VitaminP8/moim/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxPostLength    = 5000
	MaxCommentLength = 2000
)

const (
	firstNameRule = "required,max=30"
	lastNameRule  = "required,max=30"
	emailRule     = "required,email"
	passwordRule  = "required,min=6,max=128"
)

var (
	validate   = validator.New()
	htmlPolicy = bluemonday.StrictPolicy()
)

// ValidateRegistration проверяет атрибуты нового пользователя
func ValidateRegistration(firstName, lastName, email, password string) error {
	fields := make(map[string]string)
	check(fields, "first_name", &firstName, firstNameRule)
	check(fields, "last_name", &lastName, lastNameRule)
	check(fields, "email", &email, emailRule)
	check(fields, "password", &password, passwordRule)

	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

// ValidateUpdate проверяет только переданные поля
func ValidateUpdate(input model.UpdateUserInput) error {
	fields := make(map[string]string)
	check(fields, "first_name", input.FirstName, firstNameRule)
	check(fields, "last_name", input.LastName, lastNameRule)
	check(fields, "email", input.Email, emailRule)
	check(fields, "password", input.Password, passwordRule)

	if input.CurrentPassword == "" {
		fields["current_password"] = describe("required", "")
	}

	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

func check(fields map[string]string, name string, value *string, rule string) {
	if value == nil {
		return
	}
	err := validate.Var(*value, rule)
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		fields[name] = describe(validationErrors[0].Tag(), validationErrors[0].Param())
	}
}

func describe(tag, param string) string {
	switch tag {
	case "required":
		return "can't be blank"
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", param)
	case "min":
		return fmt.Sprintf("is too short (minimum is %s characters)", param)
	case "email":
		return "is invalid"
	default:
		return "is invalid"
	}
}

// SanitizeContent убирает HTML из пользовательского текста и проверяет длину
func SanitizeContent(field, content string, maxLength int) (string, error) {
	clean := strings.TrimSpace(html.UnescapeString(htmlPolicy.Sanitize(content)))

	if clean == "" {
		return "", apperrors.Validation(map[string]string{field: describe("required", "")})
	}
	if utf8.RuneCountInString(clean) > maxLength {
		return "", apperrors.Validation(map[string]string{field: describe("max", fmt.Sprint(maxLength))})
	}
	return clean, nil
}
