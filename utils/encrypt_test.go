package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptPhone(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	cipher, err := EncryptPhone(key, "13812345678")
	require.NoError(t, err)

	plain, err := DecryptPhone(key, cipher)
	require.NoError(t, err)
	assert.Equal(t, "13812345678", plain)
}

func TestDecryptPhoneInvalidPayload(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	_, err := DecryptPhone(key, []byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestEncryptPhoneBadKey(t *testing.T) {
	_, err := EncryptPhone([]byte("short"), "13812345678")
	assert.Error(t, err)
}

func TestHashPhoneDeterministic(t *testing.T) {
	a := HashPhone("salt", "13812345678")
	b := HashPhone("salt", "13812345678")
	c := HashPhone("other", "13812345678")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
