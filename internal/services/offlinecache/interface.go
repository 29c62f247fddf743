package offlinecache

import (
	"context"

	"offline-payment-sync/internal/models"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -source=interface.go

// PaymentAPI is the part of the payment client a sync pass reads from.
type PaymentAPI interface {
	GetTransactions(ctx context.Context, programID, paymentID string) ([]models.RemoteTransaction, error)
	GetAllTransactions(ctx context.Context, programID string) ([]models.RemoteTransaction, error)
	GetRegistration(ctx context.Context, programID, registrationID string) (models.RegistrationRecord, error)
}

// PhotoSource downloads the raw photo of a beneficiary.
type PhotoSource interface {
	FetchPhoto(ctx context.Context, referenceID string) ([]byte, error)
}

// Cipher encrypts what goes into a batch.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	EncryptFields(fields map[string]string) (map[string]string, error)
}
