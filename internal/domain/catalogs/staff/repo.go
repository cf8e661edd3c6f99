package staff

import (
	"stitchline/internal/domain"
)

// Repository defines the interface for staff profile persistence.
type Repository interface {
	domain.CatalogRepository[*Profile]
}
