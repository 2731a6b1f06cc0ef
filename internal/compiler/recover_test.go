package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mctestc/internal/errors"
)

// TestCompilePanicIsRecoveredAsInternalInvariant exercises the boundary
// recover in compile: a nil program makes ir.Uniquify panic on a nil
// pointer dereference, and that panic must come back as an
// ErrorInternalInvariant diagnostic rather than crash the caller.
func TestCompilePanicIsRecoveredAsInternalInvariant(t *testing.T) {
	result, errs := compile(nil, nil)

	assert.Nil(t, result)
	require.NotEmpty(t, errs)
	assert.Equal(t, errors.ErrorInternalInvariant, errs[len(errs)-1].Code)
}
