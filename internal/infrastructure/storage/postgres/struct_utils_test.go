package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stitchline/internal/core/entity"
	"stitchline/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Address  *string `db:"address" json:"address,omitempty"`
	IsActive bool    `db:"is_active" json:"isActive"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name", "address", "is_active",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.Len(t, cols, len(expectedCols))
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	addr := "Building A"
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
			Code: "TEST",
			Name: "Test Name",
		},
		Address:  &addr,
		IsActive: true,
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Equal(t, &addr, m["address"])
	assert.Equal(t, true, m["is_active"])
}
