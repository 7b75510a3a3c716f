package validation

import (
	"time"

	"github.com/google/uuid"
)

type Vote string

const (
	VoteConfirm Vote = "confirm"
	VoteFlag    Vote = "flag"
)

// Validation is one validator's immutable opinion on one submission. The
// (submission, validator) pair is unique at the store level; that constraint,
// not a prior read, is what rejects concurrent duplicate votes.
type Validation struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SubmissionID uuid.UUID `json:"submission_id" db:"submission_id"`
	ValidatorID  uuid.UUID `json:"validator_id" db:"validator_id"`
	Vote         Vote      `json:"vote" db:"vote"`
	Reason       *string   `json:"reason" db:"reason"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Tally is the full re-count of votes on a submission.
type Tally struct {
	Confirms int
	Flags    int
}

type SubmitVoteRequest struct {
	Vote   Vote    `json:"vote"`
	Reason *string `json:"reason"`
}

type Stats struct {
	Total    int `json:"total"`
	Confirms int `json:"confirms"`
	Flags    int `json:"flags"`
}
