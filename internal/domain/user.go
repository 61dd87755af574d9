package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User holds a player's identity and economy balances.
// Gold is stored as NUMERIC and is never negative.
type User struct {
	ID          string          `json:"user_id"`
	Username    string          `json:"username"`
	Gold        decimal.Decimal `json:"gold"`
	Diamonds    int             `json:"diamonds"`
	XP          int             `json:"xp"`
	Level       int             `json:"level"`
	StreakCount int             `json:"streak_count"`
	IsPremium   bool            `json:"is_premium"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

// EffectiveLevel treats an unset level as level 1.
func (u *User) EffectiveLevel() int {
	if u.Level < 1 {
		return 1
	}
	return u.Level
}

// CanAfford reports whether the user holds at least cost gold.
func (u *User) CanAfford(cost int) bool {
	return u.Gold.GreaterThanOrEqual(decimal.NewFromInt(int64(cost)))
}
