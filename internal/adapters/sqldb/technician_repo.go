package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/gmao/internal/ports/secondary"
)

// TechnicianRepository implements secondary.TechnicianRepository with database/sql.
type TechnicianRepository struct {
	db      *sql.DB
	dialect dialect
}

// NewTechnicianRepository creates a new technician repository for the given driver.
func NewTechnicianRepository(db *sql.DB, driver string) *TechnicianRepository {
	return &TechnicianRepository{db: db, dialect: dialect(driver)}
}

const technicianColumns = "id, full_name, specialty, available, created_at, updated_at"

func scanTechnician(row scanner) (*secondary.TechnicianRecord, error) {
	var (
		specialty sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.TechnicianRecord{}
	if err := row.Scan(&record.ID, &record.FullName, &specialty, &record.Available, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record.Specialty = specialty.String
	record.CreatedAt = formatTime(createdAt)
	record.UpdatedAt = formatTime(updatedAt)

	return record, nil
}

// Create persists a new technician.
func (r *TechnicianRepository) Create(ctx context.Context, technician *secondary.TechnicianRecord) error {
	_, err := r.db.ExecContext(ctx,
		r.dialect.rebind("INSERT INTO technicians (id, full_name, specialty, available) VALUES (?, ?, ?, ?)"),
		technician.ID, technician.FullName, nullString(technician.Specialty), technician.Available,
	)
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}

	return nil
}

// GetByID retrieves a technician by its ID.
func (r *TechnicianRepository) GetByID(ctx context.Context, id string) (*secondary.TechnicianRecord, error) {
	record, err := scanTechnician(r.db.QueryRowContext(ctx,
		r.dialect.rebind("SELECT "+technicianColumns+" FROM technicians WHERE id = ?"),
		id,
	))

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("technician %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}

	return record, nil
}

// Update updates an existing technician.
func (r *TechnicianRepository) Update(ctx context.Context, technician *secondary.TechnicianRecord) error {
	result, err := r.db.ExecContext(ctx,
		r.dialect.rebind("UPDATE technicians SET full_name = ?, specialty = ?, available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"),
		technician.FullName, nullString(technician.Specialty), technician.Available, technician.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update technician: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("technician %s %w", technician.ID, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a technician and its site links.
func (r *TechnicianRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM site_technicians WHERE technician_id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete technician links: %w", err)
	}

	result, err := tx.ExecContext(ctx, r.dialect.rebind("DELETE FROM technicians WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete technician: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("technician %s %w", id, secondary.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit technician deletion: %w", err)
	}

	return nil
}

// List retrieves all technicians ordered by ID.
func (r *TechnicianRepository) List(ctx context.Context) ([]*secondary.TechnicianRecord, error) {
	return r.query(ctx, "SELECT "+technicianColumns+" FROM technicians ORDER BY id ASC")
}

// GetNextID returns the next available technician ID.
func (r *TechnicianRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM technicians",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next technician ID: %w", err)
	}

	return fmt.Sprintf("TECH-%03d", maxID+1), nil
}

// AssignToSite links a technician to a site.
func (r *TechnicianRepository) AssignToSite(ctx context.Context, technicianID, siteID string) error {
	_, err := r.db.ExecContext(ctx,
		r.dialect.rebind("INSERT INTO site_technicians (site_id, technician_id) VALUES (?, ?)"),
		siteID, technicianID,
	)
	if err != nil {
		return fmt.Errorf("failed to assign technician to site: %w", err)
	}

	return nil
}

// UnassignFromSite removes a technician's link to a site.
func (r *TechnicianRepository) UnassignFromSite(ctx context.Context, technicianID, siteID string) error {
	result, err := r.db.ExecContext(ctx,
		r.dialect.rebind("DELETE FROM site_technicians WHERE site_id = ? AND technician_id = ?"),
		siteID, technicianID,
	)
	if err != nil {
		return fmt.Errorf("failed to unassign technician: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("assignment of technician %s to site %s %w", technicianID, siteID, secondary.ErrNotFound)
	}

	return nil
}

// ListBySite retrieves the technicians linked to a site, ordered by ID.
func (r *TechnicianRepository) ListBySite(ctx context.Context, siteID string) ([]*secondary.TechnicianRecord, error) {
	return r.query(ctx,
		`SELECT t.id, t.full_name, t.specialty, t.available, t.created_at, t.updated_at
		FROM technicians t
		JOIN site_technicians st ON st.technician_id = t.id
		WHERE st.site_id = ?
		ORDER BY t.id ASC`,
		siteID,
	)
}

// IsAssignedToSite reports whether a technician is linked to a site.
func (r *TechnicianRepository) IsAssignedToSite(ctx context.Context, technicianID, siteID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		r.dialect.rebind("SELECT COUNT(*) FROM site_technicians WHERE site_id = ? AND technician_id = ?"),
		siteID, technicianID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check site assignment: %w", err)
	}

	return count > 0, nil
}

func (r *TechnicianRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.TechnicianRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var technicians []*secondary.TechnicianRecord
	for rows.Next() {
		record, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, record)
	}

	return technicians, rows.Err()
}

// Ensure TechnicianRepository implements the interface.
var _ secondary.TechnicianRepository = (*TechnicianRepository)(nil)
