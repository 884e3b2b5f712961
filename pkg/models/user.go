package models

import "time"

// UserType discriminates the two account flavors.
const (
	UserTypeStudent = "student"
	UserTypeClient  = "client"
)

// User is an account row. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	UserType     string    `json:"userType"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
