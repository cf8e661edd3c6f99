package handlers

import (
	"github.com/gin-gonic/gin"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/catalogs/warehouse"
	"stitchline/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves warehouse catalog endpoints plus staff assignment.
type WarehouseHandler struct {
	*CatalogHandler[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	config := CatalogHandlerConfig[
		*warehouse.Warehouse,
		dto.CreateWarehouseRequest,
		dto.UpdateWarehouseRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "warehouse",

		MapCreateDTO: func(req dto.CreateWarehouseRequest) *warehouse.Warehouse {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) *warehouse.Warehouse {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *warehouse.Warehouse) any {
			return dto.FromWarehouse(entity)
		},
	}

	return &WarehouseHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// AssignStaff handles POST /warehouses/:id/staff - replace staff assignment.
func (h *WarehouseHandler) AssignStaff(c *gin.Context) {
	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignStaffRequest
	if !h.BindJSON(c, &req) {
		return
	}

	staffIDs := make([]id.ID, 0, len(req.StaffIDs))
	for _, s := range req.StaffIDs {
		staffID, err := id.Parse(s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid staff id").WithDetail("staffId", s))
			return
		}
		staffIDs = append(staffIDs, staffID)
	}

	if err := h.service.AssignStaff(c.Request.Context(), warehouseID, staffIDs); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "staff assignment updated")
}

// ForStaff handles GET /warehouses/for-staff/:staffId - the warehouse a staff
// member is assigned to.
func (h *WarehouseHandler) ForStaff(c *gin.Context) {
	staffID, ok := h.ParseID(c, "staffId")
	if !ok {
		return
	}

	wh, err := h.service.GetForStaff(c.Request.Context(), staffID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromWarehouse(wh))
}
