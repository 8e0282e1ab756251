package ports

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker implements HealthChecker for testing.
type stubChecker struct {
	name  string
	err   error
	calls atomic.Int32
}

func (s *stubChecker) Name() string {
	return s.name
}

func (s *stubChecker) Check(context.Context) error {
	s.calls.Add(1)
	return s.err
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "pricing-pipeline"}))

	err := registry.Register(&stubChecker{name: "pricing-pipeline"})

	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "pricing-pipeline")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name           string
		checkers       []*stubChecker
		expectedStatus HealthStatus
	}{
		{
			name:           "no checkers is healthy",
			expectedStatus: HealthStatusHealthy,
		},
		{
			name: "all healthy",
			checkers: []*stubChecker{
				{name: "pricing-pipeline"},
				{name: "config"},
			},
			expectedStatus: HealthStatusHealthy,
		},
		{
			name: "one unhealthy",
			checkers: []*stubChecker{
				{name: "pricing-pipeline", err: errors.New("no stages configured")},
				{name: "config"},
			},
			expectedStatus: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			require.NotNil(t, result)
			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Len(t, result.Checks, len(tt.checkers))
			assert.False(t, result.Timestamp.IsZero())

			for _, c := range tt.checkers {
				assert.Equal(t, int32(1), c.calls.Load())

				check := result.Checks[c.name]
				require.NotNil(t, check)
				if c.err != nil {
					assert.Equal(t, HealthStatusUnhealthy, check.Status)
					assert.Equal(t, c.err.Error(), check.Message)
				} else {
					assert.Equal(t, HealthStatusHealthy, check.Status)
					assert.Empty(t, check.Message)
				}
			}
		})
	}
}
