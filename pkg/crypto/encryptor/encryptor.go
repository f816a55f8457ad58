package encryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/Beastly713/stegano/pkg/crypto/secrets"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length.
const KeySize = 32

// SaltSize is the length of the random salt stored in front of password
// encrypted data.
const SaltSize = 16

// argon2id parameters; changing them breaks every existing stego image.
const (
	kdfTime    = 2
	kdfMemory  = 32 * 1024
	kdfThreads = 4
)

// ErrEmptyPassword is returned when password encryption is asked for
// without a password.
var ErrEmptyPassword = errors.New("encryption requires a password")

// DeriveKey stretches a password into an AES-256 key with argon2id.
func DeriveKey(password string, salt []byte) *secrets.Secret {
	return secrets.WrapSecret(argon2.IDKey([]byte(password), salt, kdfTime, kdfMemory, kdfThreads, KeySize))
}

// Encrypt performs AES-GCM encryption on the plaintext using the provided key.
// It returns a byte slice containing the Nonce appended with the Ciphertext (and Tag).
func Encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Format: [Nonce | Ciphertext | Tag]
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt performs AES-GCM decryption.
// It expects the input to be in the format [Nonce | Ciphertext | Tag].
// It returns an error if authentication fails (integrity check).
func Decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, actualCiphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, actualCiphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption/authentication failed: %w", err)
	}

	return plaintext, nil
}

// EncryptWithPassword derives a key from password and a fresh salt and
// encrypts plaintext. Format: [Salt | Nonce | Ciphertext | Tag]
func EncryptWithPassword(plaintext []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := DeriveKey(password, salt)
	defer key.Destroy()

	sealed, err := Encrypt(plaintext, key.Bytes())
	if err != nil {
		return nil, err
	}
	return append(salt, sealed...), nil
}

// DecryptWithPassword reverses EncryptWithPassword.
func DecryptWithPassword(data []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(data) < SaltSize {
		return nil, errors.New("ciphertext too short")
	}

	key := DeriveKey(password, data[:SaltSize])
	defer key.Destroy()

	return Decrypt(data[SaltSize:], key.Bytes())
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher block: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
