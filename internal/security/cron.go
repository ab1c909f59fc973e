package security

import (
	"crypto/sha256"
	"crypto/subtle"
)

// SecretMatches сравнивает переданный секрет планировщика с ожидаемым за
// постоянное время. Пустой ожидаемый секрет означает, что проверка отключена.
func SecretMatches(expected, given string) bool {
	if expected == "" {
		return true
	}

	// Хэши выравнивают длину, чтобы сравнение не выдавало длину секрета.
	e := sha256.Sum256([]byte(expected))
	g := sha256.Sum256([]byte(given))

	return subtle.ConstantTimeCompare(e[:], g[:]) == 1
}
