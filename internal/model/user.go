// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is never serialized and is only populated by store reads
// that feed the login comparison; every other read leaves it empty.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DateOfBirth  time.Time `json:"dob"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
