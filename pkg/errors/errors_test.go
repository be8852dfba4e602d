package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("rollout.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "rollout.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "rollout.yaml:12")
	require.True(t, IsConfigurationError(err))
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("hosts[1].stage", "unknown stage", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "hosts[1].stage", validationErr.Field)
	require.Contains(t, err.Error(), "unknown stage")
	require.True(t, IsConfigurationError(fmt.Errorf("load: %w", err)))
}

func TestInvalidStageErrorIsInvalidArgument(t *testing.T) {
	t.Parallel()

	err := NewInvalidStageError("prod", []string{"staging", "production"})

	var stageErr *InvalidStageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, "prod", stageErr.Stage)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Contains(t, err.Error(), "staging, production")
	require.False(t, IsConfigurationError(err))
}

func TestInvalidStrategyKindErrorIsInvalidArgument(t *testing.T) {
	t.Parallel()

	err := NewInvalidStrategyKindError("bogus", nil)

	var kindErr *InvalidStrategyKindError
	require.ErrorAs(t, err, &kindErr)
	require.Equal(t, "bogus", kindErr.Kind)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, `invalid strategy kind "bogus"`, err.Error())
}
