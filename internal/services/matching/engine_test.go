package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offline-payment-sync/internal/crypto"
	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
)

func newCipher(t *testing.T) *crypto.Service {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	svc, err := crypto.NewService(key, false)
	require.NoError(t, err)
	return svc
}

func encrypt(t *testing.T, c *crypto.Service, v string) string {
	t.Helper()
	out, err := c.EncryptString(v)
	require.NoError(t, err)
	return out
}

func TestBuildIndex(t *testing.T) {
	c := newCipher(t)
	records := []models.CacheRecord{
		{ReferenceID: "a", PaymentID: "1", Data: map[string]string{"phoneNumber": encrypt(t, c, "111")}},
		{ReferenceID: "b", PaymentID: "2", Data: map[string]string{"phoneNumber": encrypt(t, c, "222")}},
		{ReferenceID: "c", PaymentID: "2", Data: map[string]string{"fullName": encrypt(t, c, "x")}},
		{ReferenceID: "d", PaymentID: "3", Data: map[string]string{"phoneNumber": "not-a-token"}},
		{ReferenceID: "e", Data: map[string]string{"phoneNumber": encrypt(t, c, "555")}},
		{ReferenceID: "f", PaymentID: "9", Data: map[string]string{"phoneNumber": encrypt(t, c, "111")}},
	}

	ix := BuildIndex(records, c, "phoneNumber")

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 2, ix.Indexed)
	assert.Equal(t, 3, ix.Skipped)

	m, err := ix.Resolve("111")
	require.NoError(t, err)
	assert.Equal(t, Match{Value: "111", PaymentID: "1", Found: true}, m)
}

func TestIndex_Resolve(t *testing.T) {
	c := newCipher(t)
	other := newCipher(t)
	ix := BuildIndex([]models.CacheRecord{
		{ReferenceID: "a", PaymentID: "1", Data: map[string]string{"phoneNumber": encrypt(t, c, "111")}},
	}, c, "phoneNumber")

	t.Run("plaintext hit", func(t *testing.T) {
		m, err := ix.Resolve(" 111 ")
		require.NoError(t, err)
		assert.True(t, m.Found)
		assert.Equal(t, "1", m.PaymentID)
	})

	t.Run("encrypted hit", func(t *testing.T) {
		m, err := ix.Resolve(encrypt(t, c, "111"))
		require.NoError(t, err)
		assert.True(t, m.Found)
		assert.Equal(t, "111", m.Value)
	})

	t.Run("miss", func(t *testing.T) {
		m, err := ix.Resolve("999")
		require.NoError(t, err)
		assert.False(t, m.Found)
	})

	t.Run("foreign ciphertext", func(t *testing.T) {
		_, err := ix.Resolve(encrypt(t, other, "111"))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.KindCrypto))
	})
}
