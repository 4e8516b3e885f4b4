package models

import "fmt"

// PartCategory routes a part to a material-handling lane during sorting.
type PartCategory string

const (
	CategoryStandard             PartCategory = "Standard"
	CategoryDoorsAndDrawerFronts PartCategory = "DoorsAndDrawerFronts"
	CategoryAdjustableShelves    PartCategory = "AdjustableShelves"
	CategoryCarcass              PartCategory = "Carcass"
	CategorySpecial              PartCategory = "Special"
)

// AllPartCategories lists every accepted classification
var AllPartCategories = []PartCategory{
	CategoryStandard,
	CategoryDoorsAndDrawerFronts,
	CategoryAdjustableShelves,
	CategoryCarcass,
	CategorySpecial,
}

// IsValid reports whether c is a known classification.
func (c PartCategory) IsValid() bool {
	for _, candidate := range AllPartCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePartCategory converts user input into a PartCategory. Matching is exact.
func ParsePartCategory(value string) (PartCategory, error) {
	category := PartCategory(value)
	if !category.IsValid() {
		return "", fmt.Errorf("unknown part category %q", value)
	}
	return category, nil
}
