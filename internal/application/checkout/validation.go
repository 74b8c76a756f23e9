package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hadesigndz/Ha-Design/internal/domain/region"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
)

// NewValidator returns a validator that reports JSON field names and
// understands the "wilaya" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("wilaya", func(fl validator.FieldLevel) bool {
		return region.IsKnown(fl.Field().String())
	})
	return v
}

// normalizeCustomer trims every field and resolves the wilaya to its code,
// so "1", "01" and "Adrar" all become "01".
func normalizeCustomer(r CustomerRequest) CustomerRequest {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Wilaya = strings.TrimSpace(r.Wilaya)
	r.Commune = strings.TrimSpace(r.Commune)
	r.Address = strings.TrimSpace(r.Address)
	if code, ok := region.ParseCode(r.Wilaya); ok {
		r.Wilaya = code
	}
	return r
}

func (s *Service) validateCustomer(r CustomerRequest) error {
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := shared.NewValidationError()
	for _, fe := range verrs {
		out.Add("customer."+fe.Field(), fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "wilaya":
		return "Unknown wilaya"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	default:
		return "Invalid value"
	}
}
