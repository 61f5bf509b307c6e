package primary

import "context"

// EconomyService defines the primary port for SC/EXP awards and levels.
type EconomyService interface {
	// ApproveMission pays a user for a mission. The approver must outrank
	// the target.
	ApproveMission(ctx context.Context, req ApproveMissionRequest) (*AwardResponse, error)

	// AdjustExp adds (or with a negative amount removes) EXP. Top rank only.
	AdjustExp(ctx context.Context, req AdjustExpRequest) (*AwardResponse, error)

	// Balance returns a user's SC, EXP and level.
	Balance(ctx context.Context, userID string) (*Balance, error)

	// Level returns a user's level and the requirement for the next one.
	Level(ctx context.Context, userID string) (*LevelInfo, error)

	// Ledger lists recorded payouts.
	Ledger(ctx context.Context, filters LedgerFilters) ([]*LedgerEntry, error)
}

// ApproveMissionRequest contains parameters for a mission payout.
type ApproveMissionRequest struct {
	ApproverID string
	TargetID   string
	MissionID  string
	SC         int
	Exp        int
}

// AdjustExpRequest contains parameters for an EXP adjustment.
type AdjustExpRequest struct {
	ActorID  string
	TargetID string
	Amount   int
}

// AwardResponse contains the result of a payout.
type AwardResponse struct {
	TargetID   string
	SCAwarded  int
	ExpAwarded int
	Balance    Balance
	LevelUp    *LevelUp
	Warnings   []string
}

// Balance is a user's economy record at the port boundary.
type Balance struct {
	UserID string
	SC     int
	Exp    int
	Level  int
}

// LevelInfo describes a user's position on the ladder.
type LevelInfo struct {
	UserID       string
	Level        int
	Exp          int
	HasNext      bool
	NextLevel    int
	NextRequired int
}

// LedgerFilters contains filter options for the payout ledger.
type LedgerFilters struct {
	UserID string
	Kind   string
	Limit  int
}

// LedgerEntry is one recorded payout.
type LedgerEntry struct {
	ID        string
	UserID    string
	Kind      string
	SC        int
	Exp       int
	MissionID string
	ActorID   string
	Note      string
	CreatedAt string
}
