// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// One cross-field rule lives here as a struct-level validation: the
// default locale must be a member of the supported set, or every
// locale-establishing redirect would point at a prefix the application
// refuses to serve.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(func(sl validator.StructLevel) {
		locs := sl.Current().Interface().(Locales)
		for _, s := range locs.Supported {
			if s == locs.Default {
				return
			}
		}
		sl.ReportError(locs.Default, "Default", "default", "locale_supported", "")
	}, Locales{})
	return val
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
