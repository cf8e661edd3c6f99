// Package staff provides the staff profile directory. Profiles are managed
// by the HR subsystem; the stock backend reads them for authentication and
// history denormalization and assigns them to warehouses.
package staff

import (
	"context"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/entity"
)

// Role is the staff member's role in the factory.
type Role string

const (
	RoleDirector     Role = "director"
	RoleManager      Role = "manager"
	RoleWarehouse    Role = "warehouse"
	RoleCutter       Role = "cutter"
	RoleSeamstress   Role = "seamstress"
	RoleTechnologist Role = "technologist"
)

// Profile represents a staff member. Name holds the given name; the catalog
// Name field is unused for staff and mirrors the full name for listings.
type Profile struct {
	entity.Catalog

	// Surname is the family name
	Surname string `db:"surname" json:"surname"`

	// Role in the factory
	Role Role `db:"role" json:"role"`

	// Phone for contact
	Phone *string `db:"phone" json:"phone,omitempty"`

	// IsActive indicates if the member currently works
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewProfile creates a new staff profile.
func NewProfile(code, name, surname string, role Role) *Profile {
	return &Profile{
		Catalog:  entity.NewCatalog(code, name),
		Surname:  surname,
		Role:     role,
		IsActive: true,
	}
}

// FullName returns "Name Surname".
func (p *Profile) FullName() string {
	if p.Surname == "" {
		return p.Name
	}
	return p.Name + " " + p.Surname
}

// Validate implements entity.Validatable interface.
func (p *Profile) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidRole(p.Role) {
		return apperror.NewValidation("invalid staff role").
			WithDetail("field", "role").
			WithDetail("value", string(p.Role))
	}

	return nil
}

func isValidRole(r Role) bool {
	switch r {
	case RoleDirector, RoleManager, RoleWarehouse, RoleCutter, RoleSeamstress, RoleTechnologist:
		return true
	}
	return false
}
