// Package domaintest holds assertions for the domain error taxonomy.
package domaintest

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

// AssertKind checks that err carries the kind mark. Kinds are attached with
// errors.Mark, which the standard library errors.Is does not see.
func AssertKind(t testing.TB, err, kind error, msgAndArgs ...interface{}) bool {
	t.Helper()
	if errors.Is(err, kind) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("expected kind %q in error chain of %v", kind, err), msgAndArgs...)
}
