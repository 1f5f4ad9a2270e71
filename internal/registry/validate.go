package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/distribution/reference"
	"github.com/docker/go-connections/nat"
	"github.com/mattn/go-shellwords"
	"github.com/samber/lo"
)

// ValidationError contains details about a spec that failed validation.
type ValidationError struct {
	Index   int
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("containers[%d].%s: %s (got: %q)", e.Index, e.Field, e.Message, e.Value)
}

// Validate checks every spec and returns all failures joined.
func Validate(specs []ContainerSpec) error {
	var errs []error

	for i, s := range specs {
		errs = append(errs, validateSpec(i, s)...)
	}

	// Names are the removal key, so a duplicate would remove its predecessor.
	names := lo.Map(specs, func(s ContainerSpec, _ int) string {
		return s.Name
	})
	for _, name := range lo.FindDuplicates(names) {
		if name == "" {
			continue
		}
		errs = append(errs, &ValidationError{
			Index:   lo.LastIndexOf(names, name),
			Field:   "name",
			Value:   name,
			Message: "must be unique",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateSpec(i int, s ContainerSpec) []error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, &ValidationError{Index: i, Field: "name", Value: s.Name, Message: "must not be empty"})
	}

	if s.Image == "" {
		errs = append(errs, &ValidationError{Index: i, Field: "image", Value: s.Image, Message: "must not be empty"})
	} else if _, err := reference.ParseNormalizedNamed(s.Image); err != nil {
		errs = append(errs, &ValidationError{Index: i, Field: "image", Value: s.Image, Message: err.Error()})
	}

	if s.HasPorts() {
		if _, err := nat.ParsePortSpec(s.Ports); err != nil {
			errs = append(errs, &ValidationError{Index: i, Field: "ports", Value: s.Ports, Message: err.Error()})
		}
	}

	if s.HasVolume() {
		parts := strings.Split(s.Volume, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			errs = append(errs, &ValidationError{Index: i, Field: "volume", Value: s.Volume, Message: "must be host:container[:mode]"})
		}
	}

	if s.HasExtraFlags() {
		if _, err := SplitFlags(s.ExtraFlags); err != nil {
			errs = append(errs, &ValidationError{Index: i, Field: "extra_flags", Value: s.ExtraFlags, Message: err.Error()})
		}
	}

	return errs
}

// SplitFlags splits a free-form flag string into argv words, honoring quotes.
func SplitFlags(flags string) ([]string, error) {
	words, err := shellwords.Parse(flags)
	if err != nil {
		return nil, fmt.Errorf("split flags: %w", err)
	}
	return words, nil
}
