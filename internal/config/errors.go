package config

import "fmt"

// ValidationError is returned when a configuration value is unusable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid config %q: %s", e.Field, e.Message)
	}
	return e.Message
}
