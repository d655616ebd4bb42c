package domain

import "time"

// Manufacturer is a brand. Products registered through it carry its slug.
type Manufacturer struct {
	Name       string     `json:"name" yaml:"name"`
	Slug       string     `json:"slug" yaml:"slug"`
	Owner      string     `json:"owner" yaml:"owner"`
	Verified   bool       `json:"verified" yaml:"verified"`
	VerifiedBy string     `json:"verifiedBy,omitempty" yaml:"verified_by"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" yaml:"-"`
	CreatedAt  time.Time  `json:"createdAt" yaml:"-"`
}

// Profile is what GET /api/me reports about the caller.
type Profile struct {
	Email          string         `json:"email"`
	IsAdmin        bool           `json:"isAdmin"`
	IsManufacturer bool           `json:"isManufacturer"`
	Brands         []Manufacturer `json:"brands"`
}
