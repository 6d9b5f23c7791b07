// internal/validate/validate.go
package validate

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MinNameLength = 2
	MaxNameLength = 20
)

// blocked holds lower-cased fragments a display name may not contain.
var blocked = []string{
	"fuck", "shit", "bitch", "cunt", "dick", "pussy", "nigger", "faggot", "whore", "slut",
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the custom "displayname" rule registered.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		err := instance.RegisterValidation("displayname", func(fl validator.FieldLevel) bool {
			return DisplayName(fl.Field().String()) == nil
		})
		if err != nil {
			panic(fmt.Sprintf("validate: register displayname: %v", err))
		}
	})
	return instance
}

// Struct validates a decoded payload against its `validate` tags.
func Struct(v any) error {
	return Validator().Struct(v)
}

// DisplayName checks length, charset and the blocklist. Letters from any script,
// digits, spaces, '_' and '-' are accepted.
func DisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed != name {
		return fmt.Errorf("display name has leading or trailing spaces")
	}
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return fmt.Errorf("display name must be %d to %d characters", MinNameLength, MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			continue
		}
		return fmt.Errorf("display name contains %q", r)
	}
	lower := strings.ToLower(name)
	for _, w := range blocked {
		if strings.Contains(lower, w) {
			return fmt.Errorf("display name is not allowed")
		}
	}
	return nil
}
