package handlers

import (
	"stitchline/internal/domain/catalogs/staff"
	"stitchline/internal/infrastructure/http/v1/dto"
)

// StaffHTTPHandler is the staff catalog handler.
type StaffHTTPHandler = CatalogHandler[
	*staff.Profile,
	dto.CreateStaffRequest,
	dto.UpdateStaffRequest,
]

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(base *BaseHandler, service *staff.Service) *StaffHTTPHandler {
	config := CatalogHandlerConfig[
		*staff.Profile,
		dto.CreateStaffRequest,
		dto.UpdateStaffRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "staff",

		MapCreateDTO: func(req dto.CreateStaffRequest) *staff.Profile {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateStaffRequest, existing *staff.Profile) *staff.Profile {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *staff.Profile) any {
			return dto.FromStaff(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
