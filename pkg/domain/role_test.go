package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "talentflow/pkg/domain-errors"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts known roles", func(t *testing.T) {
		for _, raw := range []string{"employee", "manager", "hr", "admin"} {
			role, err := ParseRole(raw)
			require.NoError(t, err, raw)
			assert.True(t, role.IsValid())
			assert.Equal(t, raw, role.String())
		}
	})

	t.Run("rejects unknown and empty", func(t *testing.T) {
		for _, raw := range []string{"", "HR", "superadmin", "Employee "} {
			_, err := ParseRole(raw)
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), raw)
		}
	})
}

func TestParseClassification(t *testing.T) {
	t.Run("accepts known classifications", func(t *testing.T) {
		for _, raw := range []string{"performance", "mental_health"} {
			classification, err := ParseClassification(raw)
			require.NoError(t, err, raw)
			assert.True(t, classification.IsValid())
		}
	})

	t.Run("rejects unknown", func(t *testing.T) {
		for _, raw := range []string{"", "mental-health", "payroll", "PERFORMANCE"} {
			_, err := ParseClassification(raw)
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), raw)
		}
	})

	t.Run("cast bypass stays invalid", func(t *testing.T) {
		assert.False(t, Classification("payroll").IsValid())
		assert.False(t, Role("root").IsValid())
	})
}
