package dto

import (
	"stitchline/internal/domain/catalogs/staff"
)

// --- Request DTOs ---

// CreateStaffRequest is the request body for creating a staff profile.
type CreateStaffRequest struct {
	Code     string     `json:"code"`
	Name     string     `json:"name" binding:"required"`
	Surname  string     `json:"surname" binding:"required"`
	Role     staff.Role `json:"role" binding:"required"`
	Phone    *string    `json:"phone"`
	IsActive *bool      `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateStaffRequest) ToEntity() *staff.Profile {
	p := staff.NewProfile(r.Code, r.Name, r.Surname, r.Role)
	p.Phone = r.Phone
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return p
}

// UpdateStaffRequest is the request body for updating a staff profile.
type UpdateStaffRequest struct {
	Code     string     `json:"code"`
	Name     string     `json:"name" binding:"required"`
	Surname  string     `json:"surname" binding:"required"`
	Role     staff.Role `json:"role" binding:"required"`
	Phone    *string    `json:"phone,omitempty"`
	IsActive bool       `json:"isActive"`
	Version  int        `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateStaffRequest) ApplyTo(p *staff.Profile) {
	p.Code = r.Code
	p.Name = r.Name
	p.Surname = r.Surname
	p.Role = r.Role
	p.Phone = r.Phone
	p.IsActive = r.IsActive
	p.Version = r.Version
}

// --- Response DTOs ---

// StaffResponse is the response body for a staff profile.
type StaffResponse struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Surname      string     `json:"surname"`
	Role         staff.Role `json:"role"`
	Phone        *string    `json:"phone,omitempty"`
	IsActive     bool       `json:"isActive"`
	DeletionMark bool       `json:"deletionMark"`
	Version      int        `json:"version"`
}

// FromStaff creates response DTO from domain entity.
func FromStaff(p *staff.Profile) *StaffResponse {
	return &StaffResponse{
		ID:           p.ID.String(),
		Code:         p.Code,
		Name:         p.Name,
		Surname:      p.Surname,
		Role:         p.Role,
		Phone:        p.Phone,
		IsActive:     p.IsActive,
		DeletionMark: p.DeletionMark,
		Version:      p.Version,
	}
}
