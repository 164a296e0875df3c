package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Encryptor seals recordings before they are written to storage.
// The associated data binds a ciphertext to the key it was stored under.
type Encryptor interface {
	Seal(plaintext, associated []byte) ([]byte, error)
	Open(ciphertext, associated []byte) ([]byte, error)
}

// Algorithm represents supported encryption algorithms.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM (default, widely supported).
	AlgorithmAESGCM Algorithm = "aes-256-gcm"

	// AlgorithmChaCha20 is ChaCha20-Poly1305 (fast on CPUs without AES-NI).
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// ErrCiphertextTooShort is returned when the input cannot hold a nonce.
var ErrCiphertextTooShort = errors.New("encryption: ciphertext too short")

// Config selects the algorithm and passphrase. An empty Key disables encryption.
type Config struct {
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
	Key       string    `yaml:"key" mapstructure:"key"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmAESGCM
	}
}

// Validate checks the algorithm name.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmAESGCM, AlgorithmChaCha20:
		return nil
	default:
		return fmt.Errorf("encryption: unsupported algorithm %q", c.Algorithm)
	}
}

// Enabled reports whether a key is configured.
func (c *Config) Enabled() bool { return c.Key != "" }

// New builds the Encryptor described by cfg.
func New(cfg Config) (Encryptor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		return nil, errors.New("encryption: key is required")
	}

	// The passphrase is hashed to the 32-byte key both ciphers take.
	key := sha256.Sum256([]byte(cfg.Key))

	var (
		aead cipher.AEAD
		err  error
	)
	switch cfg.Algorithm {
	case AlgorithmChaCha20:
		aead, err = chacha20poly1305.New(key[:])
	default:
		var block cipher.Block
		block, err = aes.NewCipher(key[:])
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encryption: create %s: %w", cfg.Algorithm, err)
	}
	return &sealer{aead: aead}, nil
}

// sealer prefixes each ciphertext with a random nonce.
type sealer struct {
	aead cipher.AEAD
}

func (s *sealer) Seal(plaintext, associated []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, associated), nil
}

func (s *sealer) Open(ciphertext, associated []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextTooShort
	}
	plaintext, err := s.aead.Open(nil, ciphertext[:n], ciphertext[n:], associated)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}
