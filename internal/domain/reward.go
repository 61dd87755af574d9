package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RewardType is the discriminator of a reward descriptor.
type RewardType string

const (
	RewardTypeGold      RewardType = "gold"
	RewardTypeDiamonds  RewardType = "diamonds"
	RewardTypeItem      RewardType = "item"
	RewardTypeCompanion RewardType = "companion"
	RewardTypeTheme     RewardType = "theme"
	RewardTypeXPBoost   RewardType = "xp-boost"
)

// Reward describes something to grant without applying it.
// The set of implementations is closed to this package.
type Reward interface {
	Type() RewardType
	isReward()
}

// GoldReward adds Amount gold.
type GoldReward struct {
	Amount int
}

// DiamondsReward adds Amount diamonds.
type DiamondsReward struct {
	Amount int
}

// ItemReward adds Amount units of ItemID. A zero Amount means one unit.
type ItemReward struct {
	ItemID string
	Amount int
}

// Quantity returns the number of units to grant.
func (r ItemReward) Quantity() int {
	if r.Amount <= 0 {
		return 1
	}
	return r.Amount
}

// CompanionReward creates a new UserPet for CompanionID.
type CompanionReward struct {
	CompanionID string
}

// ThemeReward unlocks a cosmetic theme.
type ThemeReward struct {
	ThemeID string
}

// XPBoostReward grants a temporary XP multiplier.
type XPBoostReward struct {
	Amount int
}

// UnknownReward keeps a descriptor whose type is not recognised.
type UnknownReward struct {
	RawType string
	Raw     json.RawMessage
}

func (GoldReward) Type() RewardType      { return RewardTypeGold }
func (DiamondsReward) Type() RewardType  { return RewardTypeDiamonds }
func (ItemReward) Type() RewardType      { return RewardTypeItem }
func (CompanionReward) Type() RewardType { return RewardTypeCompanion }
func (ThemeReward) Type() RewardType     { return RewardTypeTheme }
func (XPBoostReward) Type() RewardType   { return RewardTypeXPBoost }
func (r UnknownReward) Type() RewardType { return RewardType(r.RawType) }

func (GoldReward) isReward()      {}
func (DiamondsReward) isReward()  {}
func (ItemReward) isReward()      {}
func (CompanionReward) isReward() {}
func (ThemeReward) isReward()     {}
func (XPBoostReward) isReward()   {}
func (UnknownReward) isReward()   {}

// rewardDescriptor is the stored JSON form of a Reward.
type rewardDescriptor struct {
	Type        string `json:"type"`
	Amount      *int   `json:"amount,omitempty"`
	ItemID      string `json:"itemId,omitempty"`
	CompanionID string `json:"companionId,omitempty"`
	ThemeID     string `json:"themeId,omitempty"`
}

// MarshalReward encodes r as a descriptor. A nil reward encodes to nil.
func MarshalReward(r Reward) (json.RawMessage, error) {
	if r == nil {
		return nil, nil
	}

	d := rewardDescriptor{Type: string(r.Type())}
	switch v := r.(type) {
	case GoldReward:
		d.Amount = &v.Amount
	case DiamondsReward:
		d.Amount = &v.Amount
	case ItemReward:
		d.ItemID = v.ItemID
		if v.Amount > 0 {
			d.Amount = &v.Amount
		}
	case CompanionReward:
		d.CompanionID = v.CompanionID
	case ThemeReward:
		d.ThemeID = v.ThemeID
	case XPBoostReward:
		d.Amount = &v.Amount
	case UnknownReward:
		if len(v.Raw) > 0 {
			return v.Raw, nil
		}
	default:
		return nil, fmt.Errorf("unsupported reward %T | %w", r, ErrInvalidReward)
	}
	return json.Marshal(d)
}

// UnmarshalReward decodes a descriptor. Empty input and JSON null decode to nil.
// Descriptors with an unrecognised type decode to UnknownReward.
func UnmarshalReward(data []byte) (Reward, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var d rewardDescriptor
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return nil, fmt.Errorf("failed to decode reward: %v | %w", err, ErrInvalidReward)
	}

	amount := 0
	if d.Amount != nil {
		amount = *d.Amount
	}

	switch RewardType(d.Type) {
	case RewardTypeGold:
		return GoldReward{Amount: amount}, nil
	case RewardTypeDiamonds:
		return DiamondsReward{Amount: amount}, nil
	case RewardTypeItem:
		return ItemReward{ItemID: d.ItemID, Amount: amount}, nil
	case RewardTypeCompanion:
		return CompanionReward{CompanionID: d.CompanionID}, nil
	case RewardTypeTheme:
		return ThemeReward{ThemeID: d.ThemeID}, nil
	case RewardTypeXPBoost:
		return XPBoostReward{Amount: amount}, nil
	default:
		raw := make(json.RawMessage, len(trimmed))
		copy(raw, trimmed)
		return UnknownReward{RawType: d.Type, Raw: raw}, nil
	}
}
