package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVersion(t *testing.T) {
	t.Run("Should accept plain semantic versions", func(t *testing.T) {
		assert.NoError(t, ValidateVersion("1.2.3"))
		assert.NoError(t, ValidateVersion("0.0.1"))
		assert.NoError(t, ValidateVersion("10.20.30"))
	})
	t.Run("Should accept v-prefixed versions", func(t *testing.T) {
		assert.NoError(t, ValidateVersion("v1.2.3"))
	})
	t.Run("Should accept prerelease and build metadata", func(t *testing.T) {
		assert.NoError(t, ValidateVersion("1.2.3-rc.1"))
		assert.NoError(t, ValidateVersion("1.2.3+build.42"))
		assert.NoError(t, ValidateVersion("1.2.3-beta.2+sha.abc"))
	})
	t.Run("Should reject empty versions", func(t *testing.T) {
		err := ValidateVersion("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})
	t.Run("Should reject malformed versions", func(t *testing.T) {
		assert.Error(t, ValidateVersion("1.2"))
		assert.Error(t, ValidateVersion("1.2.3.4"))
		assert.Error(t, ValidateVersion("not-a-version"))
		assert.Error(t, ValidateVersion("1.2.x"))
	})
}

func TestValidateTagName(t *testing.T) {
	t.Run("Should accept common tag names", func(t *testing.T) {
		assert.NoError(t, ValidateTagName("v1.2.3"))
		assert.NoError(t, ValidateTagName("release/1.2.3"))
		assert.NoError(t, ValidateTagName("v1.2.3-rc.1"))
	})
	t.Run("Should reject empty tag names", func(t *testing.T) {
		err := ValidateTagName("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})
	t.Run("Should reject tag names over 255 characters", func(t *testing.T) {
		err := ValidateTagName("v" + strings.Repeat("1", 255))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too long")
	})
	t.Run("Should reject consecutive dots", func(t *testing.T) {
		err := ValidateTagName("v1..2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "consecutive dots")
	})
	t.Run("Should reject the .lock suffix", func(t *testing.T) {
		err := ValidateTagName("v1.2.3.lock")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".lock")
	})
	t.Run("Should reject disallowed characters", func(t *testing.T) {
		assert.Error(t, ValidateTagName("v1.2.3 beta"))
		assert.Error(t, ValidateTagName("v1.2.3~1"))
	})
}
