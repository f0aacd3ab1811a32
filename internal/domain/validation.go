package domain

import "github.com/go-playground/validator/v10"

// Validate is the package-level validator instance shared by request and
// configuration types across the module.
var Validate = validator.New(validator.WithRequiredStructEnabled())
