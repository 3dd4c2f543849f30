package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/presensi-backend/internal/model"
)

// trans is the singleton English translator for validation errors.
var (
	trans     ut.Translator
	setupOnce sync.Once
)

// customTags are the domain-specific validation tags and their messages.
var customTags = []struct {
	tag     string
	fn      govalidator.Func
	message string
}{
	{"isodate", validateISODate, "{0} must be a date in YYYY-MM-DD format"},
	{"hhmm", validateHHMM, "{0} must be a 24-hour time in HH:MM format"},
	{"weekday", validateWeekday, "{0} must be one of Monday, Tuesday, Wednesday, Thursday, Friday"},
	{"attendance_status", validateAttendanceStatus, "{0} must be present or absent"},
}

// Setup registers the validator with English translations and the custom
// tags on Gin's binding engine. Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}
		// Use JSON tag name for field names in error messages, falling back
		// to the form tag for query-bound structs.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})

		// Register English translations.
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		en_translations.RegisterDefaultTranslations(v, trans)

		for _, ct := range customTags {
			_ = v.RegisterValidation(ct.tag, ct.fn)
			msg := ct.message
			tag := ct.tag
			_ = v.RegisterTranslation(tag, trans,
				func(ut ut.Translator) error { return ut.Add(tag, msg, true) },
				func(ut ut.Translator, fe govalidator.FieldError) string {
					t, _ := ut.T(tag, fe.Field())
					return t
				},
			)
		}
	})
}

func validateISODate(fl govalidator.FieldLevel) bool {
	return IsISODate(fl.Field().String())
}

func validateHHMM(fl govalidator.FieldLevel) bool {
	return IsHHMM(fl.Field().String())
}

func validateWeekday(fl govalidator.FieldLevel) bool {
	return IsWeekday(fl.Field().String())
}

func validateAttendanceStatus(fl govalidator.FieldLevel) bool {
	s := model.AttendanceStatus(fl.Field().String())
	return s == model.StatusPresent || s == model.StatusAbsent
}

// IsISODate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsISODate(s string) bool {
	if len(s) != len(time.DateOnly) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// IsHHMM reports whether s is a zero-padded 24-hour HH:MM time.
func IsHHMM(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsWeekday reports whether s names a timetable day.
func IsWeekday(s string) bool {
	for _, d := range model.Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery binds and validates query string parameters into dst.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates a value built outside a request, such as an imported row.
func Struct(v interface{}) map[string]string {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
