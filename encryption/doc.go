// Package encryption seals archived recordings with an AEAD cipher.
//
// AES-256-GCM is the default; ChaCha20-Poly1305 is available for hosts
// without AES acceleration. The configured passphrase is hashed with
// SHA-256 to the 32-byte key. Each ciphertext carries its own random nonce
// as a prefix.
package encryption
