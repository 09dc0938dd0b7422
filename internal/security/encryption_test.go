package security

import (
	"testing"

	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, key string) EncryptionService {
	cfg := config.GetDefaultConfig()
	cfg.Secrets.EncryptionKey = key
	svc, err := NewEncryptionService(cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	return svc
}

func TestEncryptDecrypt(t *testing.T) {
	svc := newService(t, "test-encryption-key")

	sealed, err := svc.Encrypt("EAAG-access-token")
	require.NoError(t, err)
	assert.NotEqual(t, "EAAG-access-token", sealed)

	again, err := svc.Encrypt("EAAG-access-token")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per call")

	plain, err := svc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "EAAG-access-token", plain)
}

func TestEmptyValuesPassThrough(t *testing.T) {
	svc := newService(t, "test-encryption-key")

	sealed, err := svc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	plain, err := svc.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, plain)
	assert.Empty(t, svc.Hash(""))
}

func TestDecryptWithOtherKeyFails(t *testing.T) {
	sealed, err := newService(t, "key-one").Encrypt("secret")
	require.NoError(t, err)

	_, err = newService(t, "key-two").Decrypt(sealed)
	assert.True(t, ierr.IsSystem(err))

	_, err = newService(t, "key-one").Decrypt("not base64!")
	assert.True(t, ierr.IsSystem(err))
}

func TestMissingKey(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Secrets.EncryptionKey = ""
	_, err := NewEncryptionService(cfg, logger.NewNoopLogger())
	assert.True(t, ierr.IsSystem(err))
}

func TestHashIsStable(t *testing.T) {
	svc := newService(t, "test-encryption-key")
	assert.Equal(t, svc.Hash("abc"), svc.Hash("abc"))
	assert.Len(t, svc.Hash("abc"), 64)
}
