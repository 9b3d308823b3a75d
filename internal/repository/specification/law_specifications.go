package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCountry struct {
	Country string
}

func (s ByCountry) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("country = ?", s.Country)
}

type ByLawReferenceID struct {
	LawReferenceID uuid.UUID
}

func (s ByLawReferenceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("law_reference_id = ?", s.LawReferenceID)
}
