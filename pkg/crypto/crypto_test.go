package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt("IGQWRP-token-123", "test-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "IGQWRP-token-123", encrypted)

	plain, err := Decrypt(encrypted, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "IGQWRP-token-123", plain)
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	a, err := Encrypt("same plaintext", "test-secret")
	require.NoError(t, err)
	b, err := Encrypt("same plaintext", "test-secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	encrypted, err := Encrypt("secret value", "key-one")
	require.NoError(t, err)

	_, err = Decrypt(encrypted, "key-two")
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := Decrypt("not base64 at all!!!", "test-secret")
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", "test-secret")
	assert.Error(t, err)
}

func TestEmptySecretRefused(t *testing.T) {
	_, err := Encrypt("x", "")
	assert.Error(t, err)
	_, err = Decrypt("x", "")
	assert.Error(t, err)
}
