package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is the role carried in an access token.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleViewer  UserRole = "VIEWER"
)

// JWTClaims represents the JWT payload of access tokens issued by the identity provider.
type JWTClaims struct {
	Role     UserRole `json:"role"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *JWTClaims) UserID() string {
	return c.Subject
}
