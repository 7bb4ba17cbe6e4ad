package config

import (
	"errors"
	"fmt"
)

var ErrMissingEnv = errors.New("missing required env")

type InvalidEnvError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidEnvError) Error() string {
	return fmt.Sprintf("invalid value %q for env %s: %v", e.Value, e.Key, e.Err)
}

func (e *InvalidEnvError) Unwrap() error { return e.Err }

func NonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("%w %s", ErrMissingEnv, envName)
	}
	return nil
}

func NonEmptyBytes(value []byte, envName string) error {
	if len(value) == 0 {
		return fmt.Errorf("%w %s", ErrMissingEnv, envName)
	}
	return nil
}
