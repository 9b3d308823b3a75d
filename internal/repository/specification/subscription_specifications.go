package specification

import "gorm.io/gorm"

type ByProviderOrderID struct {
	OrderID string
}

func (s ByProviderOrderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_order_id = ?", s.OrderID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
