// Package argx validates caller-supplied optional arguments.
//
// Optional arguments are dynamically typed pass-through values: they are
// either absent or a plain key-value object. The same rule applies to
// query params, query options, sessions and constructor options, so it
// lives in one shared routine.
package argx

import (
	"github.com/warncke/immutable-db/pkg/errorx"
)

// RequireOptionalObject - validate an optional object argument.
// An absent (nil) value yields a fresh empty map. A plain map is
// returned unchanged. Anything else, including booleans, numbers,
// strings and slices, fails with an InvalidArgumentError.
func RequireOptionalObject(value any) (map[string]any, error) {
	if value == nil {
		return map[string]any{}, nil
	}

	if m, ok := value.(map[string]any); ok {
		if m == nil {
			return map[string]any{}, nil
		}

		return m, nil
	}

	return nil, errorx.NewInvalidArgumentError("argument must be an object, got %T", value)
}
