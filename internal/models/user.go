// Package models defines data structures for the application.
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleRenter   = "renter"
	RoleAgent    = "agent"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

// legacyRoles maps labels used by older clients onto the canonical roles.
var legacyRoles = map[string]string{
	"user":   RoleRenter,
	"broker": RoleAgent,
}

// NormalizeRole returns the canonical role for r and whether it is known.
// An empty role defaults to renter.
func NormalizeRole(r string) (string, bool) {
	r = strings.ToLower(strings.TrimSpace(r))
	if r == "" {
		return RoleRenter, true
	}
	if canonical, ok := legacyRoles[r]; ok {
		return canonical, true
	}
	switch r {
	case RoleRenter, RoleAgent, RoleLandlord, RoleAdmin:
		return r, true
	}
	return "", false
}

// RequiresCompany reports whether a role must carry company details.
func RequiresCompany(role string) bool {
	return role == RoleAgent || role == RoleLandlord
}

// User represents a user in the system.
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	FirstName      string             `json:"firstName" bson:"firstName" example:"Jane"`
	MiddleName     string             `json:"middleName,omitempty" bson:"middleName,omitempty"`
	LastName       string             `json:"lastName" bson:"lastName" example:"Doe"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty" example:"+1 212 555 0100"`
	Email          string             `json:"email" bson:"email" example:"jane@example.com"`
	Password       string             `json:"-" bson:"password,omitempty"` // never serialized; empty for OAuth users
	Role           string             `json:"role" bson:"role" example:"renter"`
	GoogleID       string             `json:"-" bson:"googleId,omitempty"`
	ProfileImage   string             `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	CompanyName    string             `json:"companyName,omitempty" bson:"companyName,omitempty" example:"Acme Realty"`
	CompanyAddress string             `json:"companyAddress,omitempty" bson:"companyAddress,omitempty"`
	LicenseNumber  string             `json:"licenseNumber,omitempty" bson:"licenseNumber,omitempty"`
	ApartmentUnit  string             `json:"apartmentUnit,omitempty" bson:"apartmentUnit,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// CreateUserRequest is the payload for registering a user.
type CreateUserRequest struct {
	FirstName      string `json:"firstName" binding:"required,min=1,max=100" example:"Jane"`
	MiddleName     string `json:"middleName" binding:"max=100"`
	LastName       string `json:"lastName" binding:"required,min=1,max=100" example:"Doe"`
	Phone          string `json:"phone" binding:"required,min=7,max=30" example:"+1 212 555 0100"`
	Email          string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password       string `json:"password" binding:"required,min=6" example:"secret123"`
	Role           string `json:"role" binding:"omitempty,role" example:"renter"`
	CompanyName    string `json:"companyName" example:"Acme Realty"`
	CompanyAddress string `json:"companyAddress"`
	LicenseNumber  string `json:"licenseNumber"`
	ApartmentUnit  string `json:"apartmentUnit"`
	Bio            string `json:"bio" binding:"max=2000"`
}

// UpdateUserRequest is the payload for updating the caller's profile.
type UpdateUserRequest struct {
	FirstName      *string `json:"firstName" binding:"omitempty,min=1,max=100" example:"Jane"`
	LastName       *string `json:"lastName" binding:"omitempty,min=1,max=100" example:"Doe"`
	Phone          *string `json:"phone" binding:"omitempty,min=7,max=30"`
	ProfileImage   *string `json:"profileImage" binding:"omitempty,url"`
	CompanyName    *string `json:"companyName"`
	CompanyAddress *string `json:"companyAddress"`
	LicenseNumber  *string `json:"licenseNumber"`
	Bio            *string `json:"bio" binding:"omitempty,max=2000"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// GoogleAuthRequest carries the authorization code returned by Google's consent screen.
type GoogleAuthRequest struct {
	Code        string `json:"code" binding:"required" example:"4/0AX4XfWh..."`
	RedirectURI string `json:"redirectUri" binding:"omitempty,url" example:"http://localhost:3000/auth/google/callback"`
}

// AuthResponse is returned by register, login and Google sign-in.
type AuthResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	ExpiresIn int    `json:"expiresIn" example:"86400"`
	User      User   `json:"user"`
}
