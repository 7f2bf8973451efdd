package enums

// RewardType distinguishes full bundles from single-item tiers.
type RewardType string

const (
	RewardTypeBundle       RewardType = "bundle"
	RewardTypeKeyboardOnly RewardType = "keyboard_only"
)

// IsValid reports whether the value matches a known reward type.
func (r RewardType) IsValid() bool {
	switch r {
	case RewardTypeBundle, RewardTypeKeyboardOnly:
		return true
	}
	return false
}

// NormalizeRewardType maps unknown or empty input to the bundle type.
func NormalizeRewardType(value string) RewardType {
	if r := RewardType(value); r.IsValid() {
		return r
	}
	return RewardTypeBundle
}
