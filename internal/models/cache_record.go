package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchKind names a logical stream of batches: "recent" for program-wide
// passes, otherwise the payment id of a single-payment pass.
type BatchKind string

const BatchKindRecent BatchKind = "recent"

// BatchType is the value written to batch_info.json.
func (k BatchKind) BatchType() string {
	return "payment-" + string(k)
}

// CacheRecord is one beneficiary's entry within a batch. Data holds
// ciphertext only; the reference id stays in clear as the lookup key.
type CacheRecord struct {
	ReferenceID    string            `json:"uuid"`
	RegistrationID FlexID            `json:"registrationId"`
	PhotoFilename  string            `json:"photo_filename"`
	PaymentID      FlexID            `json:"paymentId"`
	Amount         decimal.Decimal   `json:"amount"`
	Data           map[string]string `json:"data"`
	Valid          bool              `json:"valid"`
	Reason         string            `json:"reason"`
}

// PhotoFilename is where a beneficiary's encrypted photo lives in a batch.
func PhotoFilename(referenceID string) string {
	return referenceID + ".enc"
}

// BatchInfo is the metadata artifact of a batch.
type BatchInfo struct {
	BatchType   string    `json:"batchType"`
	ProgramID   string    `json:"programId"`
	RecordCount int       `json:"recordCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}
