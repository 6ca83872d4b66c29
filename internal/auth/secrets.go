package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gtank/cryptopasta"
)

// Secret box errors.
var (
	ErrShortKey        = errors.New("encryption key must be at least 32 characters")
	ErrMalformedSecret = errors.New("malformed sealed secret")
	ErrBadSignature    = errors.New("sealed secret signature mismatch")
)

const (
	encryptionTag = "financeai mail credential encryption"
	signingTag    = "financeai mail credential signing"
)

// SecretBox seals short secrets, such as IMAP app passwords, for storage.
// Sealed values are "<ciphertext>.<hmac>" in unpadded base64url.
type SecretBox struct {
	encKey *[32]byte
	macKey *[32]byte
}

// NewSecretBox derives separate encryption and signing keys from key.
func NewSecretBox(key string) (*SecretBox, error) {
	if len(key) < 32 {
		return nil, ErrShortKey
	}
	return &SecretBox{
		encKey: deriveKey(encryptionTag, key),
		macKey: deriveKey(signingTag, key),
	}, nil
}

// Seal encrypts and signs plaintext.
func (b *SecretBox) Seal(plaintext string) (string, error) {
	ciphertext, err := cryptopasta.Encrypt([]byte(plaintext), b.encKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	signature := cryptopasta.GenerateHMAC(ciphertext, b.macKey)

	return base64.RawURLEncoding.EncodeToString(ciphertext) + "." +
		base64.RawURLEncoding.EncodeToString(signature), nil
}

// Open verifies and decrypts a value produced by Seal.
func (b *SecretBox) Open(sealed string) (string, error) {
	encCipher, encSig, ok := strings.Cut(sealed, ".")
	if !ok {
		return "", ErrMalformedSecret
	}

	ciphertext, err := base64.RawURLEncoding.DecodeString(encCipher)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	}
	signature, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	}

	if !cryptopasta.CheckHMAC(ciphertext, signature, b.macKey) {
		return "", ErrBadSignature
	}

	plaintext, err := cryptopasta.Decrypt(ciphertext, b.encKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt secret: %w", err)
	}
	return string(plaintext), nil
}

func deriveKey(tag, key string) *[32]byte {
	out := &[32]byte{}
	copy(out[:], cryptopasta.Hash(tag, []byte(key)))
	return out
}
