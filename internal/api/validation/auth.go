package validation

import "strings"

// RegisterRequest mirrors the fields needed for register validation.
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// ValidateRegisterRequest validates the fields of a register request.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(req.Email)...)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(req.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	return errs
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(req.Email)...)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

func validateEmail(email string) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required"}}
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || len(email) > 255 {
		return []FieldError{{Field: "email", Message: "email must be a valid address"}}
	}
	return nil
}
