package model

import "time"

// Restaurant is a tenant location.  Reservations reference it by Slug;
// there is no hard foreign key, so writers must check existence first.
type Restaurant struct {
	Slug      string    // restaurants.slug (unique)
	Name      string    // restaurants.name
	Address   *string   // restaurants.address (nullable, used in e-mail branding)
	Phone     *string   // restaurants.phone (nullable)
	CreatedAt time.Time // restaurants.created_at
}
