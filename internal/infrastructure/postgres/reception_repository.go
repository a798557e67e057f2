package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.ReceptionRepository = (*ReceptionRepo)(nil)

const receptionColumns = `id, number, year, date, driver, tractor_plate, COALESCE(trailer_plate, ''),
		carrier, destination, COALESCE(site_address, ''), product_id, quantity_announced,
		quantity_received, COALESCE(gap_reason, ''), COALESCE(created_by::text, ''), created_at`

// ReceptionRepo implementación del puerto ReceptionRepository sobre PostgreSQL (usable con pool o tx).
type ReceptionRepo struct {
	q Querier
}

// NewReceptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceptionRepository(q Querier) *ReceptionRepo {
	return &ReceptionRepo{q: q}
}

// Create persiste una recepción de fábrica.
func (r *ReceptionRepo) Create(reception *entity.Reception) error {
	query := `
		INSERT INTO receptions (id, number, year, date, driver, tractor_plate, trailer_plate,
			carrier, destination, site_address, product_id, quantity_announced, quantity_received,
			gap_reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		reception.ID, reception.Number, reception.Year, reception.Date, reception.Driver,
		reception.TractorPlate, nullIfEmpty(reception.TrailerPlate), reception.Carrier,
		reception.Destination, nullIfEmpty(reception.SiteAddress), reception.ProductID,
		reception.QuantityAnnounced, reception.QuantityReceived, nullIfEmpty(reception.GapReason),
		nullIfEmpty(reception.CreatedBy), reception.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reception: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *ReceptionRepo) GetByID(id string) (*entity.Reception, error) {
	query := `SELECT ` + receptionColumns + ` FROM receptions WHERE id = $1`
	rec, err := scanReception(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reception: %w", err)
	}
	return rec, nil
}

// List devuelve recepciones filtradas por año, las más recientes primero.
func (r *ReceptionRepo) List(year int, limit, offset int) ([]*entity.Reception, error) {
	query := `SELECT ` + receptionColumns + ` FROM receptions WHERE 1=1`
	args := []any{}
	if year > 0 {
		args = append(args, year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	query += ` ORDER BY date DESC, number DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return r.listRows(query, args...)
}

// NextNumber reserva el siguiente consecutivo REC-<año>-<n>.
func (r *ReceptionRepo) NextNumber(year int) (string, error) {
	return nextNumber(r.q, "receptions", "REC", year)
}

// ListToStock devuelve las recepciones con destino a stock en orden temporal
// (reparación de movimientos faltantes).
func (r *ReceptionRepo) ListToStock() ([]*entity.Reception, error) {
	query := `SELECT ` + receptionColumns + ` FROM receptions WHERE destination = $1 ORDER BY created_at`
	return r.listRows(query, entity.DestinationStock)
}

func (r *ReceptionRepo) listRows(query string, args ...any) ([]*entity.Reception, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receptions: %w", err)
	}
	defer rows.Close()

	var receptions []*entity.Reception
	for rows.Next() {
		rec, err := scanReception(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reception: %w", err)
		}
		receptions = append(receptions, rec)
	}
	return receptions, rows.Err()
}

func scanReception(row pgx.Row) (*entity.Reception, error) {
	var rec entity.Reception
	err := row.Scan(
		&rec.ID, &rec.Number, &rec.Year, &rec.Date, &rec.Driver, &rec.TractorPlate,
		&rec.TrailerPlate, &rec.Carrier, &rec.Destination, &rec.SiteAddress, &rec.ProductID,
		&rec.QuantityAnnounced, &rec.QuantityReceived, &rec.GapReason, &rec.CreatedBy, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
