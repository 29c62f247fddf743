package eligibility

import (
	"fmt"
	"log"
	"strings"
	"time"

	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
)

// Mode selects whether the lookback window applies.
type Mode int

const (
	// ModeSinglePayment covers every transaction of one payment.
	ModeSinglePayment Mode = iota
	// ModeRecent covers a whole program, limited to recently created transactions.
	ModeRecent
)

func (m Mode) String() string {
	if m == ModeRecent {
		return "recent"
	}
	return "single-payment"
}

const (
	ReasonOK             = "ok"
	ReasonDeleted        = "deleted"
	ReasonMissingCreated = "missing_created"
	ReasonInvalidDate    = "invalid_date"
	ReasonTooOld         = "too_old"
)

// StatusReason is the reason recorded for a transaction that is not waiting.
func StatusReason(status string) string {
	return "status=" + status
}

const statusWaiting = "waiting"

var createdLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
}

// ParseCreated reads a transaction's creation timestamp in either of the
// layouts the payment API emits. Both are UTC.
func ParseCreated(created string) (time.Time, error) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, created); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Newf(errs.KindParse, "unrecognised created timestamp %q", created)
}

// Candidate is a transaction with its eligibility verdict. Excluded
// candidates fall outside the pass entirely and produce no cache record.
type Candidate struct {
	Transaction models.RemoteTransaction
	Valid       bool
	Reason      string
	Excluded    bool
}

// Filter classifies transactions and keeps one per beneficiary.
type Filter struct {
	mode     Mode
	lookback time.Duration
	now      func() time.Time
	verbose  bool
}

func NewFilter(mode Mode, lookback time.Duration, verbose bool) *Filter {
	return &Filter{
		mode:     mode,
		lookback: lookback,
		now:      time.Now,
		verbose:  verbose,
	}
}

// WithClock replaces the time source used for the lookback window.
func (f *Filter) WithClock(now func() time.Time) *Filter {
	f.now = now
	return f
}

// Classify applies the validity predicate to one transaction. Checks run in
// a fixed order and the first failing one names the reason.
func (f *Filter) Classify(tx models.RemoteTransaction) Candidate {
	c := Candidate{Transaction: tx, Reason: ReasonOK}

	if status := tx.NormalizedStatus(); status != statusWaiting {
		c.Reason = StatusReason(status)
		return c
	}
	if tx.Deleted() {
		c.Reason = ReasonDeleted
		return c
	}

	if f.mode == ModeRecent {
		if tx.Created == "" {
			c.Reason = ReasonMissingCreated
			c.Excluded = true
			return c
		}
		created, err := ParseCreated(tx.Created)
		if err != nil {
			c.Reason = ReasonInvalidDate
			c.Excluded = true
			log.Printf("[FILTER] Skipping transaction %s: %v", tx.ID, err)
			return c
		}
		if created.Before(f.now().UTC().Add(-f.lookback)) {
			c.Reason = ReasonTooOld
			c.Excluded = true
			return c
		}
	}

	c.Valid = true
	return c
}

// Apply classifies every transaction, drops excluded ones and keeps, per
// registration reference id, the candidate with the greatest created value.
// The returned order follows the first appearance of each reference id.
func (f *Filter) Apply(txs []models.RemoteTransaction) ([]Candidate, models.FilterCounts) {
	var counts models.FilterCounts
	kept := make([]Candidate, 0, len(txs))

	for _, tx := range txs {
		c := f.Classify(tx)
		tally(&counts, c.Reason)
		if c.Excluded {
			continue
		}
		if strings.TrimSpace(tx.RegistrationReferenceID) == "" || tx.RegistrationID == "" {
			counts.MissingReference++
			if f.verbose {
				log.Printf("[FILTER] Transaction %s has no registration reference", tx.ID)
			}
			continue
		}
		kept = append(kept, c)
	}

	deduped := Deduplicate(kept)
	counts.Duplicates = len(kept) - len(deduped)

	log.Printf("[FILTER] %s pass: %d fetched, %d kept (%s)", f.mode, len(txs), len(deduped), formatCounts(counts))
	return deduped, counts
}

// Deduplicate keeps one candidate per reference id: the one whose created
// string compares greatest. On ties the earlier candidate wins.
func Deduplicate(candidates []Candidate) []Candidate {
	index := make(map[string]int, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		ref := c.Transaction.RegistrationReferenceID
		i, ok := index[ref]
		if !ok {
			index[ref] = len(out)
			out = append(out, c)
			continue
		}
		if c.Transaction.Created > out[i].Transaction.Created {
			out[i] = c
		}
	}
	return out
}

func tally(counts *models.FilterCounts, reason string) {
	switch {
	case reason == ReasonOK:
		counts.Valid++
	case reason == ReasonDeleted:
		counts.Deleted++
	case reason == ReasonMissingCreated:
		counts.MissingCreated++
	case reason == ReasonInvalidDate:
		counts.InvalidDate++
	case reason == ReasonTooOld:
		counts.TooOld++
	case strings.HasPrefix(reason, "status="):
		counts.NotWaiting++
	}
}

func formatCounts(c models.FilterCounts) string {
	return fmt.Sprintf("not_waiting=%d deleted=%d missing_created=%d invalid_date=%d too_old=%d valid=%d missing_reference=%d duplicates=%d",
		c.NotWaiting, c.Deleted, c.MissingCreated, c.InvalidDate, c.TooOld, c.Valid, c.MissingReference, c.Duplicates)
}
