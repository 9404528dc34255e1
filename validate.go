package rhttp

import (
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Validator checks the shape of a parsed JSON request body. A non-nil return
// rejects the body and the route responds 422 with the validator's message.
type Validator func(body gjson.Result) error

// RequireFields validates that every gjson path exists in the body.
func RequireFields(paths ...string) Validator {
	return func(body gjson.Result) error {
		for _, path := range paths {
			if !body.Get(path).Exists() {
				return errors.Newf("missing required field %q", path)
			}
		}

		return nil
	}
}

// RequireObject validates that the body is a JSON object.
func RequireObject() Validator {
	return func(body gjson.Result) error {
		if !body.IsObject() {
			return errors.New("body must be a JSON object")
		}

		return nil
	}
}

// AllOf combines validators, failing on the first rejection.
func AllOf(vs ...Validator) Validator {
	return func(body gjson.Result) error {
		for _, v := range vs {
			if err := v(body); err != nil {
				return err
			}
		}

		return nil
	}
}
