// Package validation checks structs against `validate` tags using
// go-playground/validator.
//
// Field names in errors come from the json tag, falling back to the
// snake_cased Go field name:
//
//	type Settings struct {
//	    Endpoint string `json:"endpoint" validate:"required,url"`
//	}
//	err := validation.Validate(settings)
package validation
