package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Track selects the free or premium reward lane of a tier.
type Track string

const (
	TrackFree    Track = "free"
	TrackPremium Track = "premium"
)

// ParseTrack validates a track name.
func ParseTrack(s string) (Track, error) {
	switch Track(s) {
	case TrackFree, TrackPremium:
		return Track(s), nil
	default:
		return "", fmt.Errorf("%q | %w", s, ErrInvalidTrack)
	}
}

// Season is a time-boxed progression period. At most one season is active.
type Season struct {
	ID           string    `json:"season_id"`
	Name         string    `json:"name"`
	SeasonNumber int       `json:"season_number"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	IsActive     bool      `json:"is_active"`
}

// SeasonTier is one XP checkpoint of a season.
type SeasonTier struct {
	SeasonID      string `json:"season_id"`
	Tier          int    `json:"tier"`
	XPRequired    int    `json:"xp_required"`
	FreeReward    Reward `json:"-"`
	PremiumReward Reward `json:"-"`
}

// RewardFor returns the reward of the given track, or nil.
func (t *SeasonTier) RewardFor(track Track) Reward {
	if track == TrackPremium {
		return t.PremiumReward
	}
	return t.FreeReward
}

type seasonTierJSON struct {
	SeasonID      string          `json:"season_id"`
	Tier          int             `json:"tier"`
	XPRequired    int             `json:"xp_required"`
	FreeReward    json.RawMessage `json:"free_reward,omitempty"`
	PremiumReward json.RawMessage `json:"premium_reward,omitempty"`
}

// MarshalJSON encodes rewards with their type discriminator.
func (t SeasonTier) MarshalJSON() ([]byte, error) {
	free, err := MarshalReward(t.FreeReward)
	if err != nil {
		return nil, err
	}
	premium, err := MarshalReward(t.PremiumReward)
	if err != nil {
		return nil, err
	}
	return json.Marshal(seasonTierJSON{
		SeasonID:      t.SeasonID,
		Tier:          t.Tier,
		XPRequired:    t.XPRequired,
		FreeReward:    free,
		PremiumReward: premium,
	})
}

// UnmarshalJSON decodes rewards through UnmarshalReward.
func (t *SeasonTier) UnmarshalJSON(data []byte) error {
	var raw seasonTierJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	free, err := UnmarshalReward(raw.FreeReward)
	if err != nil {
		return err
	}
	premium, err := UnmarshalReward(raw.PremiumReward)
	if err != nil {
		return err
	}
	*t = SeasonTier{
		SeasonID:      raw.SeasonID,
		Tier:          raw.Tier,
		XPRequired:    raw.XPRequired,
		FreeReward:    free,
		PremiumReward: premium,
	}
	return nil
}

// UserSeasonProgress is a user's state within one season.
// CurrentTier is always derived from XP and never moves backwards.
type UserSeasonProgress struct {
	UserID         string    `json:"user_id"`
	SeasonID       string    `json:"season_id"`
	XP             int       `json:"xp"`
	CurrentTier    int       `json:"current_tier"`
	ClaimedFree    []int     `json:"claimed_free_rewards"`
	ClaimedPremium []int     `json:"claimed_premium_rewards"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Claimed returns the claimed-set of the given track.
func (p *UserSeasonProgress) Claimed(track Track) []int {
	if track == TrackPremium {
		return p.ClaimedPremium
	}
	return p.ClaimedFree
}

// HasClaimed reports whether tier is already in the track's claimed-set.
func (p *UserSeasonProgress) HasClaimed(track Track, tier int) bool {
	for _, t := range p.Claimed(track) {
		if t == tier {
			return true
		}
	}
	return false
}
