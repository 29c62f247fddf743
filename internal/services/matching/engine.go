package matching

import (
	"log"
	"strings"

	"offline-payment-sync/internal/crypto"
	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
)

// Decrypter turns a stored ciphertext back into the match value.
type Decrypter interface {
	DecryptString(value string) (string, error)
}

// Index maps plaintext match values to the payment that owns them.
type Index struct {
	cipher  Decrypter
	byValue map[string]string

	Indexed int
	Skipped int
}

// BuildIndex decrypts the match field of every record. Records whose match
// field is absent, fails to decrypt or has no payment id are skipped. When
// two records share a value the first one keeps it.
func BuildIndex(records []models.CacheRecord, cipher Decrypter, matchField string) *Index {
	ix := &Index{
		cipher:  cipher,
		byValue: make(map[string]string, len(records)),
	}

	for _, rec := range records {
		enc, ok := rec.Data[matchField]
		if !ok || enc == "" {
			ix.Skipped++
			continue
		}
		if rec.PaymentID == "" {
			ix.Skipped++
			log.Printf("[RECON] Record %s has no payment id, not indexed", rec.ReferenceID)
			continue
		}

		value, err := cipher.DecryptString(enc)
		if err != nil {
			ix.Skipped++
			log.Printf("[RECON] Cannot decrypt %s for record %s: %v", matchField, rec.ReferenceID, err)
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			ix.Skipped++
			continue
		}

		paymentID := rec.PaymentID.String()
		if existing, dup := ix.byValue[value]; dup {
			if existing != paymentID {
				log.Printf("[RECON] Match value of record %s already indexed for payment %s, ignoring payment %s", rec.ReferenceID, existing, paymentID)
			}
			continue
		}
		ix.byValue[value] = paymentID
		ix.Indexed++
	}

	log.Printf("[RECON] Match index built: %d values, %d records skipped", ix.Indexed, ix.Skipped)
	return ix
}

// Len is the number of distinct indexed values.
func (ix *Index) Len() int {
	return len(ix.byValue)
}

// Match is the resolution of one submitted match value.
type Match struct {
	Value     string
	PaymentID string
	Found     bool
}

// Resolve decrypts value when it carries the ciphertext prefix and looks up
// its payment. A decrypt failure is a CryptoError for that value only.
func (ix *Index) Resolve(value string) (Match, error) {
	value = strings.TrimSpace(value)
	if crypto.LooksEncrypted(value) {
		plain, err := ix.cipher.DecryptString(value)
		if err != nil {
			return Match{}, errs.New(errs.KindCrypto, "decrypt submitted match value", err)
		}
		value = strings.TrimSpace(plain)
	}

	paymentID, ok := ix.byValue[value]
	return Match{Value: value, PaymentID: paymentID, Found: ok}, nil
}
