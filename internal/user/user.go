package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	Username     string          `json:"username" db:"username"`
	PasswordHash string          `json:"-" db:"password_hash"`
	TrustScore   decimal.Decimal `json:"trust_score" db:"trust_score"`
	RegionID     *uuid.UUID      `json:"region_id" db:"region_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type Stats struct {
	Crowns      int `json:"crowns"`
	Submissions struct {
		Total    int `json:"total"`
		Verified int `json:"verified"`
		Rejected int `json:"rejected"`
		Pending  int `json:"pending"`
	} `json:"submissions"`
	Validations struct {
		Total    int `json:"total"`
		Confirms int `json:"confirms"`
		Flags    int `json:"flags"`
	} `json:"validations"`
	Badges int `json:"badges"`
}
