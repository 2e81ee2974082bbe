package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

// Message renders the failure in Spanish for the storefront and back office.
func (e *ErrorResponse) Message() string {
	field := e.FailedField
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch e.Tag {
	case "required", "uuid_required":
		return fmt.Sprintf("El campo '%s' es obligatorio", field)
	case "min":
		return fmt.Sprintf("El campo '%s' debe tener al menos %s", field, e.Value)
	case "max":
		return fmt.Sprintf("El campo '%s' admite como máximo %s", field, e.Value)
	case "gt", "gte":
		return fmt.Sprintf("El campo '%s' debe ser mayor a %s", field, e.Value)
	case "lte":
		return fmt.Sprintf("El campo '%s' debe ser menor o igual a %s", field, e.Value)
	case "oneof", "branch":
		return fmt.Sprintf("El campo '%s' tiene un valor no permitido", field)
	case "email":
		return fmt.Sprintf("El campo '%s' debe ser un correo válido", field)
	case "url":
		return fmt.Sprintf("El campo '%s' debe ser una URL válida", field)
	default:
		return fmt.Sprintf("El campo '%s' no es válido (%s)", field, e.Tag)
	}
}

var validate = validator.New()

func init() {
	// UUID obligatorio y distinto de uuid.Nil
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Sedes físicas: outlet y supercentro
	validate.RegisterValidation("branch", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "outlet", "supercentro":
			return true
		}
		return false
	})

	// Usar el nombre JSON del campo en los mensajes
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.Namespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// First returns the Spanish message of the first failure, or "" when data is valid.
func First(data interface{}) string {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message()
}
