// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/dutybot/internal/models"
)

// DocumentStore defines the secondary port for the shared JSON document.
type DocumentStore interface {
	// Load reads the whole document.
	Load(ctx context.Context) (*models.Document, error)

	// Update runs one load-mutate-save cycle. Writers are serialized; fn
	// returning an error aborts the cycle without writing.
	Update(ctx context.Context, fn func(doc *models.Document) error) error
}

// LedgerRepository defines the secondary port for the payout ledger.
// The ledger is an audit trail; the document stays authoritative.
type LedgerRepository interface {
	// Record appends an entry. An empty ID is filled in by the repository.
	Record(ctx context.Context, entry *LedgerEntryRecord) error

	// List retrieves entries matching the filters, newest first.
	List(ctx context.Context, filters LedgerFilters) ([]*LedgerEntryRecord, error)

	// Totals sums SC and EXP recorded for a user.
	Totals(ctx context.Context, userID string) (sc, exp int, err error)
}

// Ledger entry kinds.
const (
	LedgerKindDuty    = "duty"
	LedgerKindMission = "mission"
	LedgerKindAdjust  = "adjust"
)

// LedgerEntryRecord represents one payout as stored in persistence.
type LedgerEntryRecord struct {
	ID        string
	UserID    string
	Kind      string // duty, mission, adjust
	SC        int
	Exp       int
	MissionID string
	ActorID   string
	Note      string
	CreatedAt string
}

// LedgerFilters contains filter options for querying the ledger.
type LedgerFilters struct {
	UserID string
	Kind   string
	Limit  int
}
