package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/commerce-platform/inventory-service/internal/domain"
)

// Locations reads stock locations; setup/import owns their lifecycle
type Locations struct {
	db *sqlx.DB
}

// NewLocations creates a new Locations reader
func NewLocations(db *sqlx.DB) *Locations {
	return &Locations{db: db}
}

// GetLocation loads one location by id
func (l *Locations) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	var location domain.Location
	err := l.db.GetContext(ctx, &location, `SELECT * FROM locations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %d: %w", id, domain.ErrLocationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &location, nil
}

// GetLocationByName loads one location by its name, case-insensitively
func (l *Locations) GetLocationByName(ctx context.Context, name string) (*domain.Location, error) {
	var location domain.Location
	err := l.db.GetContext(ctx, &location, `SELECT * FROM locations WHERE LOWER(name) = LOWER($1)`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %q: %w", name, domain.ErrLocationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get location by name: %w", err)
	}
	return &location, nil
}

// ListActiveLocations loads all active locations
func (l *Locations) ListActiveLocations(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	if err := l.db.SelectContext(ctx, &locations, `SELECT * FROM locations WHERE active ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}
