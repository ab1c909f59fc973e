package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// entropy источник случайных байтов, подменяется в тестах.
var entropy io.Reader = rand.Reader

func readEntropy(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(entropy, b); err != nil {
		return nil, fmt.Errorf("read %d random bytes: %w", n, err)
	}

	return b, nil
}

// RandomToken возвращает n случайных байтов в кодировке base64 без паддинга,
// пригодной для URL и заголовков.
func RandomToken(n int) (string, error) {
	b, err := readEntropy(n)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
