// Package password hashes and verifies account passwords with bcrypt or argon2id.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest password accepted, in bytes. bcrypt ignores
// anything past it, so registration enforces it for both algorithms.
const MaxLength = 72

var (
	// ErrMismatch is returned by Verify when the password does not match.
	ErrMismatch = errors.New("password: invalid password")
	// ErrTooLong is returned by Hash for passwords above MaxLength bytes.
	ErrTooLong = fmt.Errorf("password: longer than %d bytes", MaxLength)
	// ErrMalformedHash is returned by Verify for a stored hash it cannot read.
	ErrMalformedHash = errors.New("password: malformed hash")
)

// Hasher hashes passwords and checks them against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify returns nil on a match and ErrMismatch otherwise.
	Verify(password, hash string) error
}

// BcryptHasher stores passwords as bcrypt hashes.
type BcryptHasher struct {
	cost int
}

type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost. Values outside bcrypt's range are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher returns a bcrypt hasher with cost 12 unless overridden.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: 12}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > MaxLength {
		return "", ErrTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: bcrypt: %w", err)
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// argon2Params are the tunables recorded in every argon2id hash so that
// old hashes keep verifying after the configuration changes.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
}

// Argon2Hasher stores passwords in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type Argon2Hasher struct {
	params argon2Params
}

type Argon2Option func(*Argon2Hasher)

func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.params.time = t }
}

// WithArgon2Memory sets the memory cost in KiB.
func WithArgon2Memory(kib uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.params.memory = kib }
}

func WithArgon2Threads(t uint8) Argon2Option {
	return func(h *Argon2Hasher) { h.params.threads = t }
}

const (
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// NewArgon2Hasher returns an argon2id hasher using 64 MiB, one pass and
// four lanes unless overridden.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{params: argon2Params{memory: 64 * 1024, time: 1, threads: 4}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	if len(password) > MaxLength {
		return "", ErrTooLong
	}
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}
	p := h.params
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, argon2KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

func (h *Argon2Hasher) Verify(password, hash string) error {
	p, salt, want, err := decodeArgon2(hash)
	if err != nil {
		return err
	}
	got := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

var b64 = base64.RawStdEncoding

func decodeArgon2(hash string) (argon2Params, []byte, []byte, error) {
	var p argon2Params
	fields := strings.Split(hash, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, fields[2])
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	salt, err := b64.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := b64.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	return p, salt, key, nil
}
