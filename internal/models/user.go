package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the platform role of a user.
type Role string

const (
	RoleCitizen                Role = "CITIZEN"
	RoleTechnicalStaff         Role = "TECHNICAL_STAFF_MEMBER"
	RolePublicRelationsOfficer Role = "PUBLIC_RELATIONS_OFFICER"
	RoleMunicipalAdministrator Role = "MUNICIPAL_ADMINISTRATOR"
	RoleExternalMaintainer     Role = "EXTERNAL_MAINTAINER"
	RoleAdministrator          Role = "ADMINISTRATOR"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleTechnicalStaff, RolePublicRelationsOfficer,
		RoleMunicipalAdministrator, RoleExternalMaintainer, RoleAdministrator:
		return true
	}
	return false
}

// HasOffices reports whether users with this role are bound to municipal offices.
func (r Role) HasOffices() bool {
	switch r {
	case RoleTechnicalStaff, RolePublicRelationsOfficer, RoleMunicipalAdministrator, RoleAdministrator:
		return true
	}
	return false
}

// User is any account on the platform: citizens, municipal personnel and external maintainers.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(40);not null;index" json:"role"`
	// Offices the user works for. Only meaningful for municipal roles.
	Offices []Office `gorm:"many2many:user_offices;" json:"offices,omitempty"`
	// Company is the employer of an external maintainer.
	Company string `json:"company,omitempty"`
	Active  bool   `gorm:"not null;index" json:"active"`
	// LastAssignedAt is stamped every time the user receives a report; nil means never.
	LastAssignedAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BeforeCreate normalizes identifiers and rejects unknown roles.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Username == "" {
		return errors.New("username is required")
	}
	if !u.Role.Valid() {
		return errors.New("unknown role " + string(u.Role))
	}
	return nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
