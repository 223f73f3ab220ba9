// Package models contains the persisted entities and the wire shapes
// derived from them.
package models

import "time"

// Role values accepted at signup. Admin is not a role: it is a
// separate privilege flag granted out-of-band.
const (
	RoleProcurementManager = "Procurement Manager"
	RoleInvestor           = "Investor"
	RoleProducer           = "Producer"
)

// Roles lists the closed role enumeration.
var Roles = []string{RoleProcurementManager, RoleInvestor, RoleProducer}

// Account moderation statuses.
const (
	StatusActive      = "active"
	StatusSuspended   = "suspended"
	StatusDeactivated = "deactivated"
)

// AccountStatuses lists the closed account-status enumeration.
var AccountStatuses = []string{StatusActive, StatusSuspended, StatusDeactivated}

// User is the sole credential-store entity.
// PasswordHash never leaves the server: it is excluded from JSON and
// stripped again by Sanitize before a user reaches a response body.
type User struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	OrganizationName   string     `json:"organizationName"`
	Role               string     `json:"role"`
	IsAdmin            bool       `json:"isAdmin"`
	AccountStatus      string     `json:"accountStatus"`
	SubscriptionPlan   string     `json:"subscriptionPlan"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	IsEmailVerified    bool       `json:"isEmailVerified"`
	EmailNotifications bool       `json:"emailNotifications"`
	TwoFactorEnabled   bool       `json:"twoFactorEnabled"`
	LastLogin          *time.Time `json:"lastLogin"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Sanitize returns a copy safe for client output.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}

// ValidRole reports whether role is one of the enumerated values.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidAccountStatus reports whether status is an enumerated value.
func ValidAccountStatus(status string) bool {
	for _, s := range AccountStatuses {
		if s == status {
			return true
		}
	}
	return false
}
