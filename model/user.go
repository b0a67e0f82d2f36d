package model

import (
	"time"

	"gorm.io/gorm"
)

// Role group names. The three groups are seeded once at startup, see database.EnsureRoles.
const (
	RoleStudent = "STUDENT"
	RoleCreator = "CREATOR"
	RoleAdmin   = "ADMIN"
)

// Role is a named permission group a user can belong to.
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	IsSuperuser  bool           `gorm:"default:false" json:"-"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Roles          []Role       `gorm:"many2many:user_roles" json:"roles,omitempty"`
	CreatedCourses []Course     `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments    []Enrollment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasRole reports whether the user belongs to the named role group.
// Roles must be preloaded.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user has admin-level access, either through
// the superuser flag or ADMIN group membership.
func (u *User) IsAdmin() bool {
	return u.IsSuperuser || u.HasRole(RoleAdmin)
}

// IsCreator reports whether the user belongs to the CREATOR group.
func (u *User) IsCreator() bool {
	return u.HasRole(RoleCreator)
}

// RoleNames returns the names of all role groups the user belongs to.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
