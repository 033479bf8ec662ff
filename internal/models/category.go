package models

import "time"

// MasterCategory is the top-level provider grouping. It selects which
// provider credential set applies to products underneath it. Exactly two
// values exist in this domain.
type MasterCategory string

const (
	MasterMobile MasterCategory = "mobile"
	MasterFixed  MasterCategory = "fixed"
)

// ValidMasterCategory reports whether s is one of the two fixed values.
func ValidMasterCategory(s string) bool {
	return MasterCategory(s) == MasterMobile || MasterCategory(s) == MasterFixed
}

// ProductCategory groups products. Categories form a two-level tree:
// a category either is a root or has a root parent.
type ProductCategory struct {
	ID             int            `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	MasterCategory MasterCategory `db:"master_category" json:"masterCategory"`
	ParentID       *int           `db:"parent_id" json:"parentId,omitempty"`
	IsActive       bool           `db:"is_active" json:"isActive"`
	CreatedAt      time.Time      `db:"created_at" json:"-"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}
