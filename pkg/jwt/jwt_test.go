package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("s3cret", "u-1", "approver", "propiedades-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "approver", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("s3cret", "u-1", "issuer", "propiedades-api", 5)
	require.NoError(t, err)
	_, _, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate("s3cret", "u-1", "issuer", "propiedades-api", -1)
	require.NoError(t, err)
	_, _, err = Parse("s3cret", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u", "requester", "x", 1)
	assert.Error(t, err)
	_, _, err = Parse("", "abc")
	assert.Error(t, err)
}
