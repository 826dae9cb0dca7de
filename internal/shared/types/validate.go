package types

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/GriffinCanCode/lcmp/internal/shared/problems"
	"go.uber.org/multierr"
)

// Length ceilings from ETSI GS MEC 016.
const (
	MaxShortLength       = 32
	MaxDescriptionLength = 128
)

// Validator is implemented by every message and message element.
type Validator interface {
	Validate() error
}

// checker accumulates the problems of one element. Children are validated
// independently and their failures kept, never short-circuiting.
type checker struct {
	err error
}

func (c *checker) fail(reason string) {
	c.err = multierr.Append(c.err, errors.New(reason))
}

func (c *checker) failf(format string, args ...interface{}) {
	c.fail(fmt.Sprintf(format, args...))
}

func (c *checker) child(v Validator) {
	c.err = multierr.Append(c.err, v.Validate())
}

func (c *checker) maxLen(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		c.failf("%s is too long", field)
	}
}

func (c *checker) optMaxLen(field string, value *string, limit int) {
	if value != nil {
		c.maxLen(field, *value, limit)
	}
}

func (c *checker) required(field, value string) {
	if value == "" {
		c.failf("%s is required", field)
	}
}

func (c *checker) serviceCont(value *uint32) {
	if value != nil && *value != ServiceContinuityNotRequired && *value != ServiceContinuityRequired {
		c.failf("invalid serviceCont value: %d", *value)
	}
}

func (c *checker) result() error {
	return problems.Validation(c.err)
}
