package model

import "time"

// AdminUser mirrors the `admin_users` table.  Every admin is bound to
// exactly one restaurant and all of their writes inherit that scope.
type AdminUser struct {
	ID             uint64    // admin_users.id
	Username       string    // admin_users.username (unique)
	PasswordHash   string    // admin_users.password_hash (bcrypt)
	RestaurantSlug string    // admin_users.restaurant_slug
	CreatedAt      time.Time // admin_users.created_at
}

// Admin is the authenticated identity carried by a verified session token.
// A nil *Admin means the caller is a guest.
type Admin struct {
	Username       string
	RestaurantSlug string
}
