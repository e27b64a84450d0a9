package ledger

import (
	"fmt"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

// Category groups transactions by what the resources were spent on
type Category string

const (
	CategoryFacilities Category = "FACILITIES"
	CategoryResearch   Category = "RESEARCH"
	CategoryDefense    Category = "DEFENSE"
	CategoryAdmin      Category = "ADMIN"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryFacilities,
		CategoryResearch,
		CategoryDefense,
		CategoryAdmin,
	}
}

// CategoryForTrack maps a build track to its ledger category
func CategoryForTrack(track rules.Track) Category {
	switch track {
	case rules.TrackFacilities:
		return CategoryFacilities
	case rules.TrackResearch:
		return CategoryResearch
	case rules.TrackDefense:
		return CategoryDefense
	default:
		return CategoryAdmin
	}
}

// String returns the string representation of the Category
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryFacilities,
		CategoryResearch,
		CategoryDefense,
		CategoryAdmin:
		return true
	default:
		return false
	}
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
