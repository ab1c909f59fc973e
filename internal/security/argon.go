package security

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"golang.org/x/crypto/argon2"
	"strings"
)

const (
	saltLength      = 16
	argonVariant    = "argon2id"
	phcParamsFormat = "m=%d,t=%d,p=%d"
)

// HashConfig параметры Argon2id. KeyLen задает длину нового хэша, при проверке
// длина берется из сохраненного значения.
type HashConfig struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

func DefaultHashConfig() *HashConfig {
	return &HashConfig{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
	}
}

// ArgonHasher хэширует пароли пользователей и хранит результат в формате PHC:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>.
type ArgonHasher struct {
	cfg *HashConfig
}

func NewArgonHasher(cfg *HashConfig) *ArgonHasher {
	return &ArgonHasher{cfg: cfg}
}

func (h *ArgonHasher) Hash(password string) (string, error) {
	salt, err := readEntropy(saltLength)
	if err != nil {
		return "", err
	}

	return phcHash{
		params: *h.cfg,
		salt:   salt,
		key:    argon2.IDKey([]byte(password), salt, h.cfg.Time, h.cfg.Memory, h.cfg.Threads, h.cfg.KeyLen),
	}.String(), nil
}

// Compare сообщает, соответствует ли пароль сохраненному хэшу. Хэш в
// неизвестном формате никогда не совпадает.
func (h *ArgonHasher) Compare(password, encoded string) bool {
	stored, err := parsePHC(encoded)
	if err != nil {
		return false
	}

	p := stored.params
	key := argon2.IDKey([]byte(password), stored.salt, p.Time, p.Memory, p.Threads, uint32(len(stored.key)))

	return subtle.ConstantTimeCompare(stored.key, key) == 1
}

type phcHash struct {
	params HashConfig
	salt   []byte
	key    []byte
}

func (p phcHash) String() string {
	enc := base64.RawStdEncoding

	return strings.Join([]string{
		"",
		argonVariant,
		fmt.Sprintf("v=%d", argon2.Version),
		fmt.Sprintf(phcParamsFormat, p.params.Memory, p.params.Time, p.params.Threads),
		enc.EncodeToString(p.salt),
		enc.EncodeToString(p.key),
	}, "$")
}

func parsePHC(s string) (phcHash, error) {
	var (
		h       phcHash
		version int
		enc     = base64.RawStdEncoding
	)

	fields := strings.Split(s, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != argonVariant {
		return h, fmt.Errorf("unsupported hash format")
	}

	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return h, fmt.Errorf("parse version: %w", err)
	}
	if version != argon2.Version {
		return h, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(fields[3], phcParamsFormat, &h.params.Memory, &h.params.Time, &h.params.Threads); err != nil {
		return h, fmt.Errorf("parse params: %w", err)
	}

	var err error
	if h.salt, err = enc.DecodeString(fields[4]); err != nil {
		return h, fmt.Errorf("decode salt: %w", err)
	}
	if h.key, err = enc.DecodeString(fields[5]); err != nil {
		return h, fmt.Errorf("decode key: %w", err)
	}
	if len(h.key) == 0 {
		return h, fmt.Errorf("empty key")
	}

	return h, nil
}
