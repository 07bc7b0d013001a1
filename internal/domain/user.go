package domain

import "time"

// UserRecord is the durable per-user resource held by the record store. The
// cart, wishlist and orders collections are embedded directly in the record;
// every persist replaces whole fields. Wire names follow the stored schema
// (note isBlock, kept for compatibility with existing data files).
type UserRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Role      string     `json:"role"`
	IsBlocked bool       `json:"isBlock"`
	Cart      Collection `json:"cart"`
	Wishlist  Collection `json:"wishlist"`
	Orders    []Order    `json:"orders"`
	CreatedAt time.Time  `json:"created_at"`
}

// RoleUser is the role assigned to every self-registered account.
const RoleUser = "user"

// RoleAdmin marks console accounts; the sync engine never creates these.
const RoleAdmin = "admin"
