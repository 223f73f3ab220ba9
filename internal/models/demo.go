package models

import "time"

// DemoRequest is a sales demo inquiry submitted from the public site.
type DemoRequest struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"fullName"`
	WorkEmail        string    `json:"workEmail"`
	OrganizationName string    `json:"organizationName"`
	Role             string    `json:"role"`
	FuelVolume       string    `json:"fuelVolume,omitempty"`
	Message          string    `json:"message,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DemoRequestedMessage is the queue payload published when a demo
// request comes in, consumed by the sender worker.
type DemoRequestedMessage struct {
	FullName         string `json:"full_name"`
	WorkEmail        string `json:"work_email"`
	OrganizationName string `json:"organization_name"`
	Role             string `json:"role"`
	FuelVolume       string `json:"fuel_volume,omitempty"`
	Message          string `json:"message,omitempty"`
}

// PasswordResetMessage is the queue payload for a password-reset email.
// ResetURL already embeds the single-use plaintext token.
type PasswordResetMessage struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	ResetURL string `json:"reset_url"`
}
