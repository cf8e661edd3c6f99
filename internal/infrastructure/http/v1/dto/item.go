package dto

import (
	"stitchline/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Code       string           `json:"code"`
	Name       string           `json:"name" binding:"required"`
	Type       item.ItemType    `json:"type" binding:"required"`
	Unit       item.Unit        `json:"unit" binding:"required"`
	FlowStatus *item.FlowStatus `json:"flowStatus"`
	IsActive   *bool            `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Code, r.Name, r.Type, r.Unit)
	it.FlowStatus = r.FlowStatus
	if r.IsActive != nil {
		it.IsActive = *r.IsActive
	}
	return it
}

// UpdateItemRequest is the request body for updating an item.
// Cost price is absent on purpose: the cost engine owns that column.
type UpdateItemRequest struct {
	Code       string           `json:"code"`
	Name       string           `json:"name" binding:"required"`
	Type       item.ItemType    `json:"type" binding:"required"`
	Unit       item.Unit        `json:"unit" binding:"required"`
	FlowStatus *item.FlowStatus `json:"flowStatus,omitempty"`
	IsActive   bool             `json:"isActive"`
	Version    int              `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	it.Code = r.Code
	it.Name = r.Name
	it.Type = r.Type
	it.Unit = r.Unit
	it.FlowStatus = r.FlowStatus
	it.IsActive = r.IsActive
	it.Version = r.Version
}

// --- Response DTOs ---

// ItemResponse is the response body for an item.
type ItemResponse struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Type         item.ItemType    `json:"type"`
	Unit         item.Unit        `json:"unit"`
	FlowStatus   *item.FlowStatus `json:"flowStatus,omitempty"`
	CostPrice    string           `json:"costPrice"`
	IsActive     bool             `json:"isActive"`
	DeletionMark bool             `json:"deletionMark"`
	Version      int              `json:"version"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *item.Item) *ItemResponse {
	return &ItemResponse{
		ID:           it.ID.String(),
		Code:         it.Code,
		Name:         it.Name,
		Type:         it.Type,
		Unit:         it.Unit,
		FlowStatus:   it.FlowStatus,
		CostPrice:    it.CostPrice.String(),
		IsActive:     it.IsActive,
		DeletionMark: it.DeletionMark,
		Version:      it.Version,
	}
}
