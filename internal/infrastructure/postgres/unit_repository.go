package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

const unitColumns = `id, product_id, sku, serial_number, location, status, created_at, updated_at, deleted_at`

const insertUnit = `INSERT INTO units (` + unitColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// UnitRepo implementación de UnitRepository. La unicidad de serie entre unidades activas
// la garantiza además el índice parcial units_active_serial_uq.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

func scanUnit(row pgx.Row) (*entity.Unit, error) {
	var u entity.Unit
	if err := row.Scan(&u.ID, &u.ProductID, &u.SKU, &u.SerialNumber, &u.Location, &u.Status,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func unitArgs(u *entity.Unit) []any {
	return []any{u.ID, u.ProductID, u.SKU, u.SerialNumber, u.Location, u.Status, u.CreatedAt, u.UpdatedAt, u.DeletedAt}
}

func unitWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrDuplicateSerial, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Create inserta una unidad.
func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	if _, err := r.q.Exec(ctx, insertUnit, unitArgs(u)...); err != nil {
		return unitWriteError("insert unit", err)
	}
	return nil
}

// CreateBatch inserta las unidades en un único round-trip (pgx.Batch).
// Dentro de una tx un fallo deja la tx abortada y el runner hace rollback del lote completo.
func (r *UnitRepo) CreateBatch(ctx context.Context, units []*entity.Unit) error {
	if len(units) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, u := range units {
		batch.Queue(insertUnit, unitArgs(u)...)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range units {
		if _, err := br.Exec(); err != nil {
			return unitWriteError("insert unit batch", err)
		}
	}
	return nil
}

// GetByID obtiene una unidad del producto (incluidas las eliminadas); (nil, nil) si no existe.
func (r *UnitRepo) GetByID(ctx context.Context, productID, unitID string) (*entity.Unit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx,
		`SELECT `+unitColumns+` FROM units WHERE product_id = $1 AND id = $2`, productID, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

// Update reemplaza los campos editables de una unidad activa.
func (r *UnitRepo) Update(ctx context.Context, u *entity.Unit) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE units SET sku = $3, serial_number = $4, location = $5, status = $6, updated_at = $7
		WHERE product_id = $1 AND id = $2 AND deleted_at IS NULL`,
		u.ProductID, u.ID, u.SKU, u.SerialNumber, u.Location, u.Status, u.UpdatedAt,
	)
	if err != nil {
		return unitWriteError("update unit", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete fija deleted_at; una unidad ya eliminada devuelve ErrNotFound.
func (r *UnitRepo) SoftDelete(ctx context.Context, productID, unitID string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE units SET deleted_at = $3, updated_at = $3
		WHERE product_id = $1 AND id = $2 AND deleted_at IS NULL`,
		productID, unitID, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct devuelve las unidades en orden de creación.
func (r *UnitRepo) ListByProduct(ctx context.Context, productID string, includeDeleted bool) ([]*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE product_id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountActive cuenta las unidades no eliminadas del producto.
func (r *UnitRepo) CountActive(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM units WHERE product_id = $1 AND deleted_at IS NULL`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active units: %w", err)
	}
	return n, nil
}

// CountActiveByLocation cuenta las unidades activas del producto en una ubicación.
func (r *UnitRepo) CountActiveByLocation(ctx context.Context, productID, location string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM units WHERE product_id = $1 AND location = $2 AND deleted_at IS NULL`,
		productID, location).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active units by location: %w", err)
	}
	return n, nil
}
