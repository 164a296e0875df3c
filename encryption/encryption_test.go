package encryption

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			enc, err := New(Config{Algorithm: alg, Key: "passphrase"})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			audio := []byte("\x1aE\xdf\xa3 webm bytes")
			aad := []byte("recordings/user-1/a.webm")

			sealed, err := enc.Seal(audio, aad)
			if err != nil {
				t.Fatalf("Seal: %v", err)
			}
			if bytes.Contains(sealed, audio) {
				t.Error("ciphertext contains the plaintext")
			}
			got, err := enc.Open(sealed, aad)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if !bytes.Equal(got, audio) {
				t.Errorf("Open = %q, want %q", got, audio)
			}
		})
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	enc, _ := New(Config{Key: "k"})
	a, _ := enc.Seal([]byte("same"), nil)
	b, _ := enc.Seal([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("two seals of the same input should differ")
	}
}

func TestOpenRejects(t *testing.T) {
	enc, _ := New(Config{Key: "right"})
	other, _ := New(Config{Key: "wrong"})
	sealed, _ := enc.Seal([]byte("audio"), []byte("key-a"))

	tests := []struct {
		name string
		enc  Encryptor
		data []byte
		aad  []byte
	}{
		{"wrong key", other, sealed, []byte("key-a")},
		{"moved object", enc, sealed, []byte("key-b")},
		{"tampered", enc, append(bytes.Clone(sealed[:len(sealed)-1]), sealed[len(sealed)-1]^1), []byte("key-a")},
		{"too short", enc, []byte{1, 2, 3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.enc.Open(tt.data, tt.aad); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := enc.Open([]byte{1}, nil); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no key", Config{}},
		{"unknown algorithm", Config{Algorithm: "rot13", Key: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Algorithm != AlgorithmAESGCM || cfg.Enabled() {
		t.Errorf("cfg = %+v, enabled %v", cfg, cfg.Enabled())
	}
}
