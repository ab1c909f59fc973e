package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// HMACSigner подписывает токены сессий ключом HMAC_KEY. Подписанный токен
// имеет вид <token>.<hex(hmac-sha256)>.
type HMACSigner struct {
	key []byte
}

const signatureSeparator = "."

var ErrIncorrectHMACSignature = errors.New("incorrect signature")

func NewHMACSigner(key string) *HMACSigner {
	return &HMACSigner{key: []byte(key)}
}

func (s *HMACSigner) Sign(token string) string {
	return token + signatureSeparator + hex.EncodeToString(s.sum([]byte(token)))
}

func (s *HMACSigner) Parse(signed string) (string, error) {
	token, sign, ok := strings.Cut(signed, signatureSeparator)
	if !ok || token == "" {
		return "", ErrIncorrectHMACSignature
	}

	decoded, err := hex.DecodeString(sign)
	if err != nil {
		return "", ErrIncorrectHMACSignature
	}

	if !hmac.Equal(s.sum([]byte(token)), decoded) {
		return "", ErrIncorrectHMACSignature
	}

	return token, nil
}

func (s *HMACSigner) sum(data []byte) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write(data)

	return h.Sum(nil)
}
