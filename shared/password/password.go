package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"tasklist/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default cost for bcrypt hashing
	DefaultCost = bcrypt.DefaultCost

	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16
	argon2Prefix  = "$argon2id$"

	argon2MaxMemory     = 1024 * 1024
	argon2MaxIterations = 16
	argon2MaxKeyLen     = 128
)

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrHashingPassword = errors.New("error hashing password")
)

// Hasher hashes passwords one way and verifies plaintexts against stored digests.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// New returns the hasher for the configured algorithm. Unknown algorithms fall back to bcrypt.
func New(cfg *config.Config) Hasher {
	switch strings.ToLower(cfg.Password.Algorithm) {
	case AlgorithmArgon2id:
		return &argon2Hasher{}
	case AlgorithmBcrypt, "":
	default:
		log.Warn().Str("algorithm", cfg.Password.Algorithm).Msg("Unknown password hash algorithm, using bcrypt")
	}

	cost := cfg.Password.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

type bcryptHasher struct {
	cost int
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	return string(bytes), nil
}

func (h *bcryptHasher) Verify(plaintext, digest string) bool {
	return Verify(plaintext, digest)
}

type argon2Hasher struct{}

// Hash encodes the digest as $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func (h *argon2Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix,
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *argon2Hasher) Verify(plaintext, digest string) bool {
	return Verify(plaintext, digest)
}

// Verify checks a plaintext against a digest produced by any supported algorithm.
// Malformed digests never match.
func Verify(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}

	if strings.HasPrefix(digest, argon2Prefix) {
		return verifyArgon2(plaintext, digest)
	}

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

func verifyArgon2(plaintext, digest string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	if memory == 0 || memory > argon2MaxMemory || iterations == 0 || iterations > argon2MaxIterations || threads == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > argon2MaxKeyLen {
		return false
	}

	computed := argon2.IDKey([]byte(plaintext), salt, iterations, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, computed) == 1
}
