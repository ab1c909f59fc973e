package security

import (
	"bytes"
	"encoding/base64"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"testing/iotest"
)

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(tokenLength)
	require.NoError(t, err)
	b, err := RandomToken(tokenLength)
	require.NoError(t, err)

	assert.Len(t, a, base64.RawURLEncoding.EncodedLen(tokenLength))
	assert.NotEqual(t, a, b, "токены не повторяются")
	assert.NotContains(t, a, signatureSeparator, "токен не содержит разделитель подписи")
}

func TestRandomToken_EntropyError(t *testing.T) {
	withEntropy(t, iotest.ErrReader(errors.New("entropy exhausted")))

	_, err := RandomToken(tokenLength)
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestRandomToken_ShortRead(t *testing.T) {
	withEntropy(t, bytes.NewReader([]byte{1, 2, 3}))

	_, err := RandomToken(tokenLength)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF, "неполное чтение считается ошибкой")
}

func withEntropy(t *testing.T, r io.Reader) {
	t.Helper()
	prev := entropy
	entropy = r
	t.Cleanup(func() { entropy = prev })
}
