package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityNotFound(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound(KindOrganization, 999))

	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "lookup: organization 999 not found")

	var nf *EntityNotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, KindOrganization, nf.Kind)
	assert.Equal(t, uint(999), nf.ID)
}

func TestStoreErrorKeepsCause(t *testing.T) {
	err := Store("list buildings", context.DeadlineExceeded)

	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, IsNotFound(err))

	// 重复包装不叠加
	again := Store("other", err)
	assert.Same(t, err, again)
	assert.Nil(t, Store("noop", nil))
}

func TestInvalidGeometry(t *testing.T) {
	err := InvalidGeometry("latitude %v is not finite", "NaN")
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
	assert.Contains(t, err.Error(), "latitude NaN is not finite")
}
