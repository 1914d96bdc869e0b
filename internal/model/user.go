package model

import (
	"strings"
	"time"
)

// Role is the closed set of account types.  The value is stored verbatim
// in users.user_type.
type Role string

const (
	RoleBuyer   Role = "BUYER"   // default for self-service signup
	RoleRealtor Role = "REALTOR" // may list and manage homes
	RoleAdmin   Role = "ADMIN"   // may mint product keys
)

// AllRoles lists every Role in ascending privilege order.
var AllRoles = []Role{RoleBuyer, RoleRealtor, RoleAdmin}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleBuyer, RoleRealtor, RoleAdmin:
		return r, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// User represents a row of the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  Phone        – contact phone number.
//  PasswordHash – bcrypt verifier; never serialized.
//  Role         – account type (users.user_type).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"userType"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
