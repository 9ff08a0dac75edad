package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/gmao/internal/ports/secondary"
)

// SiteRepository implements secondary.SiteRepository with database/sql.
type SiteRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewSiteRepository creates a new site repository for the given driver.
func NewSiteRepository(db *sql.DB, driver string) *SiteRepository {
	return &SiteRepository{db: db, dialect: dialect(driver)}
}

const siteColumns = "id, name, description, city, address, category, created_at, updated_at"

func scanSite(row scanner) (*secondary.SiteRecord, error) {
	var (
		desc      sql.NullString
		city      sql.NullString
		address   sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.SiteRecord{}
	if err := row.Scan(&record.ID, &record.Name, &desc, &city, &address, &record.Category, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.City = city.String
	record.Address = address.String
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)

	return record, nil
}

// Create persists a new site.
func (r *SiteRepository) Create(ctx context.Context, site *secondary.SiteRecord) error {
	_, err := r.db.ExecContext(ctx,
		r.dialect.rebind("INSERT INTO sites (id, name, description, city, address, category) VALUES (?, ?, ?, ?, ?, ?)"),
		site.ID, site.Name, nullString(site.Description), nullString(site.City), nullString(site.Address), site.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to create site: %w", err)
	}

	return nil
}

// GetByID retrieves a site by its ID.
func (r *SiteRepository) GetByID(ctx context.Context, id string) (*secondary.SiteRecord, error) {
	record, err := scanSite(r.db.QueryRowContext(ctx,
		r.dialect.rebind("SELECT "+siteColumns+" FROM sites WHERE id = ?"),
		id,
	))

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("site %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return record, nil
}

// Update updates an existing site.
func (r *SiteRepository) Update(ctx context.Context, site *secondary.SiteRecord) error {
	result, err := r.db.ExecContext(ctx,
		r.dialect.rebind("UPDATE sites SET name = ?, description = ?, city = ?, address = ?, category = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"),
		site.Name, nullString(site.Description), nullString(site.City), nullString(site.Address), site.Category, site.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update site: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("site %s %w", site.ID, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a site, its elevators, their events and its technician links.
func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []string{
		"DELETE FROM events WHERE elevator_id IN (SELECT id FROM elevators WHERE site_id = ?)",
		"DELETE FROM elevators WHERE site_id = ?",
		"DELETE FROM site_technicians WHERE site_id = ?",
	}
	for _, query := range steps {
		if _, err := tx.ExecContext(ctx, r.dialect.rebind(query), id); err != nil {
			return fmt.Errorf("failed to delete site: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM sites WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("site %s %w", id, secondary.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit site deletion: %w", err)
	}

	return nil
}

// List retrieves all sites ordered by ID.
func (r *SiteRepository) List(ctx context.Context) ([]*secondary.SiteRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+siteColumns+" FROM sites ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []*secondary.SiteRecord
	for rows.Next() {
		record, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, record)
	}

	return sites, rows.Err()
}

// GetNextID returns the next available site ID.
func (r *SiteRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM sites",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next site ID: %w", err)
	}

	return fmt.Sprintf("SITE-%03d", maxID+1), nil
}

// CountElevators returns the number of elevators owned by a site.
func (r *SiteRepository) CountElevators(ctx context.Context, siteID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		r.dialect.rebind("SELECT COUNT(*) FROM elevators WHERE site_id = ?"),
		siteID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count elevators: %w", err)
	}

	return count, nil
}

// Ensure SiteRepository implements the interface.
var _ secondary.SiteRepository = (*SiteRepository)(nil)
