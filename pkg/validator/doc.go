// Package validator validates request payloads through struct tags using
// github.com/go-playground/validator/v10.
//
// Struct returns ValidationErrors, a slice of field failures that satisfies
// the error interface. Field names follow the json tag of the struct field so
// messages line up with what API clients send.
//
// Extra tags registered on top of the built-in set:
//
//   - phone  - 7 to 15 digits once formatting characters are stripped
//   - digits - non-empty and made of ASCII digits only
//
// # Usage
//
//	type RegisterInput struct {
//		Email    string `json:"email" validate:"required,email"`
//		Password string `json:"password" validate:"required,min=8,max=72"`
//	}
//
//	if err := validator.Struct(in); err != nil {
//		if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//			// verrs.Fields() => map[email:[must be a valid email address]]
//		}
//	}
package validator
