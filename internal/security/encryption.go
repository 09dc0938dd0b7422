package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
)

// EncryptionService seals provider credentials before they are stored
type EncryptionService interface {
	// Encrypt encrypts plaintext using AES-GCM
	Encrypt(plaintext string) (string, error)

	// Decrypt decrypts ciphertext using AES-GCM
	Decrypt(ciphertext string) (string, error)

	// Hash creates a one-way hash of the input value using SHA-256
	Hash(value string) string
}

type aesEncryptionService struct {
	gcm    cipher.AEAD
	logger *logger.Logger
}

// NewEncryptionService derives an AES-256 key from the configured encryption key
func NewEncryptionService(cfg *config.Configuration, logger *logger.Logger) (EncryptionService, error) {
	if cfg.Secrets.EncryptionKey == "" {
		return nil, ierr.NewError("encryption key not configured").
			WithHint("Set secrets.encryption_key").
			Mark(ierr.ErrSystem)
	}

	key := []byte(cfg.Secrets.EncryptionKey)
	if len(key) != 32 {
		sum := sha256.Sum256(key)
		key = sum[:]
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create cipher block").
			Mark(ierr.ErrSystem)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create GCM").
			Mark(ierr.ErrSystem)
	}

	return &aesEncryptionService{
		gcm:    gcm,
		logger: logger,
	}, nil
}

// Encrypt returns the base64 encoded nonce and sealed plaintext
func (s *aesEncryptionService) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate nonce").
			Mark(ierr.ErrSystem)
	}

	sealed := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *aesEncryptionService) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Stored credential is corrupt").
			Mark(ierr.ErrSystem)
	}

	nonceSize := s.gcm.NonceSize()
	if len(decoded) < nonceSize {
		return "", ierr.NewError("ciphertext too short").
			WithHint("Stored credential is corrupt").
			Mark(ierr.ErrSystem)
	}

	nonce, sealed := decoded[:nonceSize], decoded[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		s.logger.Errorw("failed to decrypt credential", "error", err)
		return "", ierr.WithError(err).
			WithHint("Stored credential could not be decrypted").
			Mark(ierr.ErrSystem)
	}

	return string(plaintext), nil
}

func (s *aesEncryptionService) Hash(value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
