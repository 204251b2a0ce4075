package models

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// User account. Accounts are created inactive and stay that way until the
// registration email code is verified.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(254);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(150)"`
	IsActive     bool      `json:"is_active" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword compares the given plaintext password against the stored hash.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// UserProfile extends a user account with contact, preference and reputation
// data. One profile per user.
type UserProfile struct {
	ID                       uint            `json:"id" gorm:"primaryKey"`
	UserID                   uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	PhoneNumber              string          `json:"phone_number" gorm:"type:varchar(20)"`
	AddressLine1             string          `json:"address_line1" gorm:"type:varchar(255)"`
	AddressLine2             string          `json:"address_line2" gorm:"type:varchar(255)"`
	City                     string          `json:"city" gorm:"type:varchar(100)"`
	State                    string          `json:"state" gorm:"type:varchar(100)"`
	PostalCode               string          `json:"postal_code" gorm:"type:varchar(20)"`
	Country                  string          `json:"country" gorm:"type:varchar(100);default:'US'"`
	Bio                      string          `json:"bio" gorm:"type:text"`
	PreferredGenres          string          `json:"preferred_genres" gorm:"type:text"`
	ShipsInternationally     bool            `json:"ships_internationally" gorm:"default:false"`
	MaxShippingDistanceMiles *uint           `json:"max_shipping_distance_miles,omitempty"`
	ReputationScore          decimal.Decimal `json:"reputation_score" gorm:"type:decimal(3,1);default:5.0"`
	EmailNotifications       bool            `json:"email_notifications" gorm:"default:true"`
	IsVerified               bool            `json:"is_verified" gorm:"default:false"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// Reputation event types
const (
	ReputationAuctionComplete  = "auction_complete"
	ReputationTradeComplete    = "trade_complete"
	ReputationPositiveFeedback = "positive_feedback"
	ReputationNegativeFeedback = "negative_feedback"
	ReputationVerifiedEmail    = "verified_email"
	ReputationVerifiedPhone    = "verified_phone"
	ReputationAccountPenalty   = "account_penalty"
)

// UserReputation is an append-only ledger entry of a reputation event, listed
// newest first.
type UserReputation struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	UserID           uint            `json:"user_id" gorm:"index;not null"`
	ReputationType   string          `json:"reputation_type" gorm:"type:varchar(20);not null"`
	Points           decimal.Decimal `json:"points" gorm:"type:decimal(3,1);not null"`
	Description      string          `json:"description" gorm:"type:text"`
	RelatedAuctionID *uint           `json:"related_auction_id,omitempty"`
	RelatedTradeID   *uint           `json:"related_trade_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// EmailDevice is a user's email verification channel. Each user has a single
// "primary" device used for both registration verification and the login
// second factor. The current challenge code lives on the device until it is
// consumed or replaced.
type EmailDevice struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"user_id" gorm:"uniqueIndex:idx_device_user_name;not null"`
	Name       string     `json:"name" gorm:"type:varchar(64);uniqueIndex:idx_device_user_name;not null"`
	Email      string     `json:"email" gorm:"type:varchar(254);not null"`
	Confirmed  bool       `json:"confirmed" gorm:"default:false"`
	Token      string     `json:"-" gorm:"type:varchar(16)"`
	ValidUntil *time.Time `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TokenValid reports whether the submitted code matches the outstanding
// challenge and the challenge has not lapsed.
func (d *EmailDevice) TokenValid(code string, now time.Time) bool {
	if d.Token == "" || code == "" || d.Token != code {
		return false
	}
	return d.ValidUntil != nil && !now.After(*d.ValidUntil)
}
