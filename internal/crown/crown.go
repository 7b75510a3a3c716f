package crown

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusContested Status = "contested"
	StatusArchived  Status = "archived"
)

// Crown is the record-low-price holder for an (item, region, cycle) triple.
// At most one crown exists per triple; it changes hands only through the
// transfer protocol.
type Crown struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ItemID       uuid.UUID       `json:"item_id" db:"item_id"`
	RegionID     uuid.UUID       `json:"region_id" db:"region_id"`
	CycleID      uuid.UUID       `json:"cycle_id" db:"cycle_id"`
	HolderID     uuid.UUID       `json:"holder_id" db:"holder_id"`
	SubmissionID uuid.UUID       `json:"submission_id" db:"submission_id"`
	LowestPrice  decimal.Decimal `json:"lowest_price" db:"lowest_price"`
	Status       Status          `json:"status" db:"status"`
	ClaimedAt    time.Time       `json:"claimed_at" db:"claimed_at"`
}

// Transfer is one append-only ledger entry: a crown changing hands, or the
// first claim (FromUserID nil). Contested marks leave no ledger trace.
type Transfer struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CrownID       uuid.UUID       `json:"crown_id" db:"crown_id"`
	FromUserID    *uuid.UUID      `json:"from_user_id" db:"from_user_id"`
	ToUserID      uuid.UUID       `json:"to_user_id" db:"to_user_id"`
	Price         decimal.Decimal `json:"price" db:"price"`
	TransferredAt time.Time       `json:"transferred_at" db:"transferred_at"`
}

// Key identifies the one row that needs mutual exclusion.
type Key struct {
	ItemID   uuid.UUID
	RegionID uuid.UUID
	CycleID  uuid.UUID
}

// Result reports what CheckAndTransfer decided.
type Result struct {
	Crown       *Crown `json:"crown"`
	Transferred bool   `json:"transferred"`
	IsNew       bool   `json:"is_new"`
	Contested   bool   `json:"contested"`
}

type History struct {
	Crown     *Crown      `json:"crown"`
	Transfers []*Transfer `json:"transfers"`
}
