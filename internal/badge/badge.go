package badge

import (
	"time"

	"github.com/google/uuid"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Criteria expressions, fixed at seed time. The evaluator matches on the
// expression string, so the catalog stays data-driven.
const (
	CriteriaFirstSubmission     = "submissions_count >= 1"
	CriteriaCrownsEarned        = "crowns_earned >= 1"
	CriteriaAccurateValidations = "accurate_validations >= 50"
	CriteriaWeeklyDefenses      = "crown_defenses_weekly >= 5"
	CriteriaActiveCrowns        = "active_crowns >= 10"
)

type Badge struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Criteria    string    `json:"criteria" db:"criteria"`
	Rarity      Rarity    `json:"rarity" db:"rarity"`
	IconURL     string    `json:"icon_url" db:"icon_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type UserBadge struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID  uuid.UUID `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

type EarnedBadge struct {
	Badge
	EarnedAt time.Time `json:"earned_at"`
}
