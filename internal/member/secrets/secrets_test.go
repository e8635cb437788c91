package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rxcampus/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("rx-demo-2024")
	require.NoError(t, err)
	assert.NotEqual(t, "rx-demo-2024", hash)

	require.NoError(t, Verify("rx-demo-2024", hash))
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	hash, err := Hash("rx-demo-2024")
	require.NoError(t, err)

	err = Verify("not-the-password", hash)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), "got %v", err)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), "got %v", err)
}

func TestHashRejectsOverlongPassword(t *testing.T) {
	_, err := Hash(strings.Repeat("a", 100))
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), "got %v", err)
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("rx-demo-2024")
	require.NoError(t, err)
	second, err := Hash("rx-demo-2024")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
