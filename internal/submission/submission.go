package submission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// Terminal reports whether a status is final. Verified and rejected
// submissions are immutable.
func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// Submission is one price observation. It is created pending and transitioned
// exactly once, by consensus, to verified or rejected.
type Submission struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	StoreID     uuid.UUID       `json:"store_id" db:"store_id"`
	ItemID      uuid.UUID       `json:"item_id" db:"item_id"`
	CycleID     uuid.UUID       `json:"cycle_id" db:"cycle_id"`
	Price       decimal.Decimal `json:"price" db:"price"`
	PhotoURL    string          `json:"photo_url" db:"photo_url"`
	Status      Status          `json:"status" db:"status"`
	GpsLat      float64         `json:"gps_lat" db:"gps_lat"`
	GpsLng      float64         `json:"gps_lng" db:"gps_lng"`
	SubmittedAt time.Time       `json:"submitted_at" db:"submitted_at"`
	VerifiedAt  *time.Time      `json:"verified_at" db:"verified_at"`
}

type CreateRequest struct {
	StoreID  string          `json:"store_id"`
	ItemID   string          `json:"item_id"`
	Price    decimal.Decimal `json:"price"`
	PhotoURL string          `json:"photo_url"`
	GpsLat   float64         `json:"gps_lat"`
	GpsLng   float64         `json:"gps_lng"`
}

type CreateResponse struct {
	Submission    *Submission `json:"submission"`
	BadgesAwarded []string    `json:"badges_awarded"`
}
