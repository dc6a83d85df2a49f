package validator

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

// AllowedImageTypes are the accepted upload content types.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex  = regexp.MustCompile(`^[0-9]{10}$`)
	phoneStrip  = strings.NewReplacer("-", "", "(", "", ")", "", " ", "")
	specialRune = "@$!%*?&"
)

// validateIdentifier accepts an email address or a 10-digit phone number.
// Phone numbers may contain dashes, parentheses and spaces.
func validateIdentifier(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	return emailRegex.MatchString(v) || phoneRegex.MatchString(phoneStrip.Replace(v))
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// validateStrongPassword requires at least 8 characters with upper, lower,
// digit and one of @$!%*?&.
func validateStrongPassword(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialRune, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func validateCategory(fl validator.FieldLevel) bool {
	return slices.Contains(models.Categories, fl.Field().String())
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("identifier", validateIdentifier)
	_ = v.RegisterValidation("phone10", validatePhone)
	_ = v.RegisterValidation("strongpassword", validateStrongPassword)
	_ = v.RegisterValidation("category", validateCategory)
}

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		register(instance)
	})
	return instance
}

// RegisterCustomValidators registers all custom validators with gin's validator
// and makes gin read the same `validate` tags the client checks.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.SetTagName("validate")
		register(v)
	}
}

// Struct validates s against its `validate` tags.
// Failures wrap ErrValidation and name the offending fields.
func Struct(s interface{}) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "please enter a valid email address"
	case "identifier":
		return "please enter a valid email or phone number"
	case "phone10":
		return "phone number must be 10 digits"
	case "strongpassword":
		return "password must be at least 8 characters and include uppercase, lowercase, number and special character"
	case "category":
		return fmt.Sprintf("%q is not a known category", fe.Value())
	case "min":
		return fmt.Sprintf("%s must have at least %s characters or items", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters or items", fe.Field(), fe.Param())
	case "datetime":
		return fe.Field() + " must be a date in YYYY-MM-DD form"
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// Login validates a sign-in form.
func Login(req *models.LoginRequest) error {
	return Struct(req)
}

// Register validates a sign-up form including the password confirmation.
func Register(req *models.RegisterRequest) error {
	if err := Struct(req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, apperrors.ErrPasswordMismatch)
	}
	return nil
}

// Image checks an upload's size and type. contentType may be empty, in which
// case it is sniffed from data.
func Image(data []byte, contentType string) error {
	if len(data) > MaxImageSize {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, apperrors.ErrImageTooLarge)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !slices.Contains(AllowedImageTypes, strings.TrimSpace(contentType)) {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, apperrors.ErrInvalidImageType)
	}
	return nil
}
