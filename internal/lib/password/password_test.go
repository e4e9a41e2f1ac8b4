package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "simple password",
			password: "secretpass",
		},
		{
			name:     "password with special characters",
			password: "p@$$w0rd!#%",
		},
		{
			name:     "cyrillic password",
			password: "пароль123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
		})
	}
}

func TestCompareHash_WrongPassword(t *testing.T) {
	hash, err := GetHash("correctpassword")
	require.NoError(t, err)

	assert.Error(t, CompareHash(hash, "wrongpassword"))
	assert.Error(t, CompareHash(hash, ""))
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "correctpassword"))
}

func TestGetHash_DifferentHashesForSamePassword(t *testing.T) {
	first, err := GetHash("samepassword")
	require.NoError(t, err)
	second, err := GetHash("samepassword")
	require.NoError(t, err)

	// bcrypt солит каждый хэш, поэтому значения различаются.
	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "samepassword"))
	assert.NoError(t, CompareHash(second, "samepassword"))
}
