package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/homescout/homescout-backend/pkg/config"
)

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = fmt.Errorf("invalid argon2id hash")

// CredentialScheme turns a raw credential into its stored form and checks a
// candidate against a stored value.
type CredentialScheme interface {
	Name() string
	Encode(raw string) (string, error)
	Verify(raw, stored string) (bool, error)
}

// NewCredentialScheme selects the scheme named in configuration.
func NewCredentialScheme(cfg config.CredentialsConfig) (CredentialScheme, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Scheme)) {
	case "", config.CredentialSchemePlain:
		return PlainText{}, nil
	case config.CredentialSchemeArgon2id:
		return NewArgon2id(cfg), nil
	}
	return nil, fmt.Errorf("unknown credential scheme %q", cfg.Scheme)
}

// PlainText stores credentials verbatim.
type PlainText struct{}

func (PlainText) Name() string { return config.CredentialSchemePlain }

func (PlainText) Encode(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("credential cannot be empty")
	}
	return raw, nil
}

func (PlainText) Verify(raw, stored string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(raw), []byte(stored)) == 1, nil
}

// ArgonParams captures the Argon2id parameters we embed into each hash string.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// Argon2id hashes credentials with argon2id and a random salt.
type Argon2id struct {
	params ArgonParams
}

func NewArgon2id(cfg config.CredentialsConfig) Argon2id {
	return Argon2id{params: paramsFromConfig(cfg)}
}

func (Argon2id) Name() string { return config.CredentialSchemeArgon2id }

func (a Argon2id) Encode(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("credential cannot be empty")
	}

	salt := make([]byte, a.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(raw), salt, a.params.Time, a.params.Memory, a.params.Parallelism, a.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		a.params.Memory, a.params.Time, a.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (Argon2id) Verify(raw, stored string) (bool, error) {
	params, salt, hash, err := decodeHash(stored)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(raw), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)
	return subtle.ConstantTimeCompare(hash, computed) == 1, nil
}

func paramsFromConfig(cfg config.CredentialsConfig) ArgonParams {
	return ArgonParams{
		Memory:      clampUint32(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        clampUint32(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(clampInt(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     clampUint32(cfg.ArgonSaltLen, 8, 64),
		KeyLen:      clampUint32(cfg.ArgonKeyLen, 16, 64),
	}
}

func decodeHash(encoded string) (ArgonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var params ArgonParams
	for _, token := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
		bits := 32
		if key == "p" {
			bits = 8
		}
		v, err := strconv.ParseUint(value, 10, bits)
		if err != nil {
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
		switch key {
		case "m":
			params.Memory = uint32(v)
		case "t":
			params.Time = uint32(v)
		case "p":
			params.Parallelism = uint8(v)
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(hash))
	return params, salt, hash, nil
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampUint32(value, min, max int) uint32 {
	return uint32(clampInt(value, min, max))
}
