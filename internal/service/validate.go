package service

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/iliyamo/table-reservation/internal/utils"
)

var (
	phonePattern = regexp.MustCompile(`^[+\d().\-\s]{7,20}$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the custom "phone", "slug"
// and "rescode" tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("rescode", func(fl validator.FieldLevel) bool {
			return utils.IsReservationCode(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// CheckStruct validates s and folds the first failure into ErrInvalidInput.
func CheckStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalid("%s failed %q", strings.ToLower(fe.Field()), fe.Tag())
	}
	return invalid("%v", err)
}

// normalizeName trims and applies NFC so the same name typed on different
// keyboards is stored identically.  Inner spacing is kept as typed.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// normalizeEmail only trims: the local part may be case-sensitive.
func normalizeEmail(s string) string {
	return strings.TrimSpace(s)
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
