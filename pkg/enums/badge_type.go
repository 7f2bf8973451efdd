package enums

// BadgeType is the marketing badge rendered on a reward card.
type BadgeType string

const (
	BadgeTypeNone           BadgeType = "none"
	BadgeTypeFeatured       BadgeType = "featured"
	BadgeTypeMinimumPackage BadgeType = "minimum_package"
)

// IsValid reports whether the value matches a known badge type.
func (b BadgeType) IsValid() bool {
	switch b {
	case BadgeTypeNone, BadgeTypeFeatured, BadgeTypeMinimumPackage:
		return true
	}
	return false
}

// NormalizeBadgeType maps unknown or empty input to the "none" badge.
func NormalizeBadgeType(value string) BadgeType {
	if b := BadgeType(value); b.IsValid() {
		return b
	}
	return BadgeTypeNone
}
