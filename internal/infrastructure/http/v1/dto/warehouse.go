package dto

import (
	"stitchline/internal/domain/catalogs/warehouse"
)

// --- Request DTOs ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Address = r.Address
	if r.IsActive != nil {
		wh.IsActive = *r.IsActive
	}
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Address  *string `json:"address,omitempty"`
	IsActive bool    `json:"isActive"`
	Version  int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Address = r.Address
	wh.IsActive = r.IsActive
	wh.Version = r.Version
}

// AssignStaffRequest is the request body for assigning staff to a warehouse.
type AssignStaffRequest struct {
	StaffIDs []string `json:"staffIds" binding:"required,min=1"`
}

// --- Response DTOs ---

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Address      *string `json:"address,omitempty"`
	IsActive     bool    `json:"isActive"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:           wh.ID.String(),
		Code:         wh.Code,
		Name:         wh.Name,
		Address:      wh.Address,
		IsActive:     wh.IsActive,
		DeletionMark: wh.DeletionMark,
		Version:      wh.Version,
	}
}
