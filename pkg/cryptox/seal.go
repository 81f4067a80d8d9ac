package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Sealer encrypts small secrets (the persisted bearer credential) at rest
// using AES-256-GCM. The durable store is a plain file on disk, so a stolen
// database file alone must not yield a usable credential.
type Sealer struct {
	key []byte
}

// Argon2id parameters for deriving the sealing key from keyfile material.
// Derivation runs once per process, so the memory cost can sit on the high
// side without hurting request latency.
const (
	kdfIterations  = 3
	kdfMemory      = 64 * 1024 // KiB
	kdfParallelism = 2
	kdfKeyLength   = 32
)

// sealSalt is a fixed domain-separation salt. The key material itself is the
// secret; the salt only keeps this derivation distinct from other argon2 uses.
var sealSalt = []byte("carebook/credential-at-rest/v1")

// ErrSealedTooShort reports ciphertext shorter than a nonce.
var ErrSealedTooShort = errors.New("cryptox: sealed data too short")

// NewSealer derives a 32-byte AES key from arbitrary keyfile material using
// argon2id and returns a Sealer bound to it.
func NewSealer(keyMaterial []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: empty key material")
	}

	key := argon2.IDKey(keyMaterial, sealSalt, kdfIterations, kdfMemory, kdfParallelism, kdfKeyLength)
	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext. Output layout: [nonce][ciphertext][auth tag].
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: nonce generation failed: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts data produced by Seal, verifying the auth tag.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, ErrSealedTooShort
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptox: open failed: %w", err)
	}

	return plaintext, nil
}

func (s *Sealer) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: cipher init failed: %w", err)
	}
	return cipher.NewGCM(block)
}
