package crypto

import (
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/fernet/fernet-go"

	"offline-payment-sync/internal/errs"
)

// TokenPrefix is how every ciphertext produced by this service starts once
// base64-encoded (version byte 0x80 followed by a big-endian timestamp).
// Offline clients echo encrypted values back with this prefix intact.
const TokenPrefix = "gAAAA"

// version(1) + timestamp(8) + iv(16) + one AES block(16) + hmac(32)
const minTokenLen = 1 + 8 + 16 + 16 + 32

// Service encrypts field values and photo blobs with one process-wide key.
type Service struct {
	key     *fernet.Key
	keyring []*fernet.Key
	verbose bool
}

// NewService decodes the configured key. A malformed key is a CryptoError.
func NewService(encodedKey string, verbose bool) (*Service, error) {
	key, err := ValidateKey(encodedKey)
	if err != nil {
		return nil, err
	}
	return &Service{
		key:     key,
		keyring: []*fernet.Key{key},
		verbose: verbose,
	}, nil
}

// ValidateKey decodes a url-safe base64 32-byte key.
func ValidateKey(encodedKey string) (*fernet.Key, error) {
	if strings.TrimSpace(encodedKey) == "" {
		return nil, errs.Newf(errs.KindCrypto, "encryption key is empty")
	}
	key, err := fernet.DecodeKey(strings.TrimSpace(encodedKey))
	if err != nil {
		return nil, errs.New(errs.KindCrypto, "decode encryption key", err)
	}
	return key, nil
}

// GenerateKey returns a fresh encoded key.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return k.Encode(), nil
}

// Encrypt returns the base64 token for plaintext. Empty input is allowed.
func (s *Service) Encrypt(plaintext []byte) ([]byte, error) {
	tok, err := fernet.EncryptAndSign(plaintext, s.key)
	if err != nil {
		return nil, errs.New(errs.KindCrypto, "encrypt", err)
	}
	if s.verbose {
		log.Printf("[CRYPTO] Encrypted %d bytes into %d byte token", len(plaintext), len(tok))
	}
	return tok, nil
}

// Decrypt verifies and decrypts a token produced by Encrypt. Tokens never
// expire; a token written under a different key fails verification.
func (s *Service) Decrypt(ciphertext []byte) ([]byte, error) {
	raw := make([]byte, base64.URLEncoding.DecodedLen(len(ciphertext)))
	n, err := base64.URLEncoding.Decode(raw, ciphertext)
	if err != nil || n < minTokenLen {
		return nil, errs.Newf(errs.KindCrypto, "decrypt: malformed token")
	}

	msg := fernet.VerifyAndDecrypt(ciphertext, -1, s.keyring)
	if msg == nil {
		return nil, errs.Newf(errs.KindCrypto, "decrypt: token verification failed")
	}
	return msg, nil
}

func (s *Service) EncryptString(value string) (string, error) {
	tok, err := s.Encrypt([]byte(value))
	if err != nil {
		return "", err
	}
	return string(tok), nil
}

func (s *Service) DecryptString(value string) (string, error) {
	msg, err := s.Decrypt([]byte(value))
	if err != nil {
		return "", err
	}
	return string(msg), nil
}

// EncryptFields encrypts every value of fields, keeping the keys in clear.
func (s *Service) EncryptFields(fields map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		enc, err := s.EncryptString(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		out[key] = enc
	}
	return out, nil
}

// LooksEncrypted reports whether value carries the ciphertext prefix.
func LooksEncrypted(value string) bool {
	return strings.HasPrefix(value, TokenPrefix)
}
