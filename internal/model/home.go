package model

import (
	"strings"
	"time"
)

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyResidential PropertyType = "RESIDENTIAL"
	PropertyCondo       PropertyType = "CONDO"
)

// ParsePropertyType normalizes s and reports whether it is a known type.
func ParsePropertyType(s string) (PropertyType, bool) {
	p := PropertyType(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PropertyResidential, PropertyCondo:
		return p, true
	}
	return "", false
}

// Home mirrors the `homes` table.  RealtorID is the owning identity and
// drives the ownership check on update, delete and message listing.
type Home struct {
	ID                uint64
	Address           string
	NumberOfBedrooms  int
	NumberOfBathrooms float64
	City              string
	ListedDate        time.Time
	Price             float64
	LandSize          float64
	PropertyType      PropertyType
	RealtorID         uint64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Image is a picture attached to a home (images table).
type Image struct {
	ID     uint64
	URL    string
	HomeID uint64
}
