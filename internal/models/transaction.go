package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are plain JSON numbers in the remote API and in batch files.
	decimal.MarshalJSONWithoutQuotes = true
}

// RemoteTransaction is one payment attempt for one beneficiary.
type RemoteTransaction struct {
	ID                      FlexID          `json:"id"`
	PaymentID               FlexID          `json:"paymentId"`
	RegistrationID          FlexID          `json:"registrationId"`
	RegistrationReferenceID string          `json:"registrationReferenceId"`
	Status                  string          `json:"status"`
	TransactionStatus       string          `json:"transactionStatus,omitempty"`
	RegistrationStatus      string          `json:"registrationStatus"`
	Amount                  decimal.Decimal `json:"amount"`
	Created                 string          `json:"created"`

	// Raw is the object exactly as the payment API returned it.
	Raw json.RawMessage `json:"-"`
}

func (t *RemoteTransaction) UnmarshalJSON(b []byte) error {
	type plain RemoteTransaction
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = RemoteTransaction(p)
	t.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// NormalizedStatus is the lower-cased status, falling back to transactionStatus.
func (t RemoteTransaction) NormalizedStatus() string {
	status := t.Status
	if status == "" {
		status = t.TransactionStatus
	}
	return strings.ToLower(strings.TrimSpace(status))
}

// Deleted reports whether the beneficiary's registration has been deleted.
func (t RemoteTransaction) Deleted() bool {
	return strings.EqualFold(strings.TrimSpace(t.RegistrationStatus), "deleted")
}

// Snapshot returns the raw API object, or a re-encoding when none was kept.
func (t RemoteTransaction) Snapshot() (json.RawMessage, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	type plain RemoteTransaction
	return json.Marshal(plain(t))
}
