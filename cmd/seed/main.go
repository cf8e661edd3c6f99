// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"stitchline/internal/core/id"
	"stitchline/internal/domain/auth"
	"stitchline/internal/domain/catalogs/staff"
	"stitchline/internal/infrastructure/storage/postgres"
	"stitchline/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	directorID, err := seedStaff(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed staff", "error", err)
	}

	if err := seedWarehouses(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed warehouses", "error", err)
	}

	if err := seedItems(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed items", "error", err)
	}

	// Issue a development token for the seeded director so the API can be
	// exercised without the identity service.
	if os.Getenv("SEED_DEV_TOKEN") == "true" {
		jwtSecret := os.Getenv("JWT_SECRET")
		if jwtSecret == "" {
			jwtSecret = "your-secret-key-change-in-production"
		}
		jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

		token, expiresAt, err := jwtService.GenerateAccessToken(
			directorID, "Olena", "Kravchenko", string(staff.RoleDirector))
		if err != nil {
			log.Fatalw("failed to generate dev token", "error", err)
		}
		log.Infow("dev token issued", "expires_at", expiresAt)
		fmt.Println(token)
	}

	log.Info("seeding completed successfully")
}

func seedStaff(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	members := []struct {
		code    string
		name    string
		surname string
		role    staff.Role
	}{
		{"ST-001", "Olena", "Kravchenko", staff.RoleDirector},
		{"ST-002", "Iryna", "Bondar", staff.RoleManager},
		{"ST-003", "Petro", "Melnyk", staff.RoleWarehouse},
		{"ST-004", "Oksana", "Shevchuk", staff.RoleCutter},
		{"ST-005", "Maria", "Tkachenko", staff.RoleSeamstress},
		{"ST-006", "Andriy", "Kovalenko", staff.RoleTechnologist},
	}

	var directorID id.ID
	for _, m := range members {
		memberID := id.New()
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_staff (id, code, name, surname, role, is_active, version, deletion_mark)
			VALUES ($1, $2, $3, $4, $5, true, 1, false)
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, memberID, m.code, m.name, m.surname, m.role)
		if err != nil {
			return id.Nil(), fmt.Errorf("seed staff %s: %w", m.code, err)
		}

		if tag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx, `
				SELECT id FROM cat_staff WHERE code = $1 AND deletion_mark = FALSE
			`, m.code).Scan(&memberID)
			if err != nil {
				return id.Nil(), fmt.Errorf("fetch existing staff %s: %w", m.code, err)
			}
		}

		if m.role == staff.RoleDirector {
			directorID = memberID
		}
	}

	log.Infow("staff seeded", "count", len(members))
	return directorID, nil
}

func seedWarehouses(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	warehouses := []struct {
		code    string
		name    string
		address string
	}{
		{"WH-001", "Raw material store", "Building A, ground floor"},
		{"WH-002", "Cutting shop store", "Building A, first floor"},
		{"WH-003", "Sewing shop store", "Building B, first floor"},
		{"WH-004", "Finished goods store", "Building B, ground floor"},
	}

	for _, w := range warehouses {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_warehouses (id, code, name, address, is_active, version, deletion_mark)
			VALUES ($1, $2, $3, $4, true, 1, false)
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), w.code, w.name, w.address)
		if err != nil {
			return fmt.Errorf("seed warehouse %s: %w", w.code, err)
		}
	}

	log.Infow("warehouses seeded", "count", len(warehouses))
	return nil
}

func seedItems(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	items := []struct {
		code       string
		name       string
		itemType   string
		unit       string
		flowStatus *string
	}{
		{"MAT-00001", "Cotton fabric, white", "material", "m2", strPtr("cut")},
		{"MAT-00002", "Polyester thread, black", "material", "piece", strPtr("shop")},
		{"MAT-00003", "Zipper 20cm", "material", "piece", strPtr("shop")},
		{"MAT-00004", "Interlining roll", "material", "roll", strPtr("cut")},
		{"SEM-00001", "Shirt front panel, cut", "semi", "piece", nil},
		{"PRD-00001", "Men's shirt, classic", "product", "piece", nil},
		{"PRD-00002", "Women's blouse", "product", "piece", nil},
	}

	for _, it := range items {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_items (id, code, name, type, unit, flow_status, cost_price, is_active, version, deletion_mark)
			VALUES ($1, $2, $3, $4, $5, $6, 0, true, 1, false)
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), it.code, it.name, it.itemType, it.unit, it.flowStatus)
		if err != nil {
			return fmt.Errorf("seed item %s: %w", it.code, err)
		}
	}

	log.Infow("items seeded", "count", len(items))
	return nil
}

func strPtr(s string) *string { return &s }
