package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/lucro/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("item", "T4_BAG")
	assert.Equal(t, "item with ID T4_BAG not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("limit", -1, "must be positive")
		assert.Equal(t, "validation failed for field limit: must be positive", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
	})
}

func TestFetchError(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		err := pkgerrors.NewFetchError("catalog", "http://x/items.json", 503, "503 Service Unavailable")
		assert.Contains(t, err.Error(), "status 503")
		assert.True(t, pkgerrors.IsFetchError(err))
		assert.False(t, pkgerrors.IsTimeout(err))
	})

	t.Run("rate limited", func(t *testing.T) {
		err := pkgerrors.NewFetchError("prices", "http://x/prices/T4_BAG", 429, "slow down")
		assert.True(t, errors.Is(err, pkgerrors.ErrRateLimited))
	})

	t.Run("timeout", func(t *testing.T) {
		err := pkgerrors.WrapFetch("catalog", "http://x", true, context.DeadlineExceeded)
		assert.True(t, pkgerrors.IsFetchError(err))
		assert.True(t, pkgerrors.IsTimeout(err))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Contains(t, err.Error(), "timed out")
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapFetch("catalog", "http://x", false, nil))
	})
}

func TestCacheCorruptError(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.NewCacheCorruptError("data/items.json", base)

	assert.True(t, pkgerrors.IsCacheCorrupt(err))
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "data/items.json")
}

func TestRecordSkippedError(t *testing.T) {
	err := pkgerrors.NewRecordSkippedError(3, "", "missing UniqueName")
	assert.Equal(t, "record 3 skipped: missing UniqueName", err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrRecordSkipped))

	withID := pkgerrors.NewRecordSkippedError(4, "T4_BAG", "duplicate")
	assert.Equal(t, "record 4 (T4_BAG) skipped: duplicate", withID.Error())
}

func TestCriticalStartupError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.NewCriticalStartupError("store", base)

	assert.True(t, errors.Is(err, pkgerrors.ErrStartup))
	assert.ErrorIs(t, err, base)

	var startup *pkgerrors.CriticalStartupError
	require.True(t, pkgerrors.As(fmt.Errorf("main: %w", err), &startup))
	assert.Equal(t, "store", startup.Component)
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"io", pkgerrors.WrapIO("write", "data/items.json", base), "IO error during write of data/items.json: boom"},
		{"parse", pkgerrors.WrapParse("json", "items.json", base), "parse error in json file items.json: boom"},
		{"resource", pkgerrors.WrapResource("create", "store", "", base), "failed to create store: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, base)
		})
	}

	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("load", "x", "", nil))
}
