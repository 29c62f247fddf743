package remote

import (
	"bytes"
	"encoding/json"
	"sort"

	"offline-payment-sync/internal/errs"
)

type listShape int

const (
	shapeUnknown listShape = iota
	shapeBareList
	shapeTransactionsEnvelope
	shapeDataEnvelope
)

func (s listShape) String() string {
	switch s {
	case shapeBareList:
		return "list"
	case shapeTransactionsEnvelope:
		return "transactions"
	case shapeDataEnvelope:
		return "data"
	}
	return "unknown"
}

// transactionList is a transactions response classified into exactly one
// known shape, with its items still undecoded.
type transactionList struct {
	Shape listShape
	Items []json.RawMessage
	Keys  []string
}

func parseTransactionList(body []byte) (transactionList, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return transactionList{}, errs.Newf(errs.KindParse, "empty transactions response")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return transactionList{}, errs.New(errs.KindParse, "decode transaction list", err)
		}
		return transactionList{Shape: shapeBareList, Items: items}, nil

	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return transactionList{}, errs.New(errs.KindParse, "decode transaction envelope", err)
		}
		for _, candidate := range []struct {
			key   string
			shape listShape
		}{
			{"transactions", shapeTransactionsEnvelope},
			{"data", shapeDataEnvelope},
		} {
			raw, ok := envelope[candidate.key]
			if !ok {
				continue
			}
			// a key holding anything but a list does not identify the shape
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				continue
			}
			return transactionList{Shape: candidate.shape, Items: items}, nil
		}

		keys := make([]string, 0, len(envelope))
		for k := range envelope {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return transactionList{Shape: shapeUnknown, Keys: keys}, nil
	}

	return transactionList{Shape: shapeUnknown}, nil
}
