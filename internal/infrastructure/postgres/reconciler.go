package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/schema"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// RepairReport resultado de una pasada de reconciliación de esquema.
type RepairReport struct {
	TablesCreated []string
	ColumnsAdded  []string // tabla.columna
	TypeWarnings  []string
}

// Empty indica que la base ya estaba conforme al registro.
func (r *RepairReport) Empty() bool {
	return len(r.TablesCreated) == 0 && len(r.ColumnsAdded) == 0 && len(r.TypeWarnings) == 0
}

// Reconciler compara la estructura física contra el registro maestro y aplica
// las correcciones aditivas (CREATE TABLE, ADD COLUMN) en el arranque. Nunca
// borra ni convierte: una discrepancia de tipo queda como advertencia.
type Reconciler struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewReconciler construye el reconciliador.
func NewReconciler(pool *pgxpool.Pool, log *logger.Logger) *Reconciler {
	return &Reconciler{pool: pool, log: log}
}

// Reconcile introspecciona information_schema, calcula el diff contra el
// registro y aplica todo DDL pendiente en una sola transacción. Devuelve el
// reporte de lo aplicado; error solo ante fallo de DDL o de introspección.
func (r *Reconciler) Reconcile(ctx context.Context) (*RepairReport, error) {
	live, err := r.introspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("introspect schema: %w", err)
	}

	diff := schema.Compare(live, schema.Registry())
	report := &RepairReport{}
	if diff.Empty() {
		r.log.Info().Msg("esquema conforme, nada que reparar")
		return report, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	desired := schema.Registry()
	byName := make(map[string]schema.Table, len(desired))
	for _, t := range desired {
		byName[t.Name] = t
	}

	for _, entry := range diff.Entries {
		switch entry.Kind {
		case schema.DiffCreateTable:
			ddl := createTableDDL(byName[entry.Table])
			if _, err := tx.Exec(ctx, ddl); err != nil {
				return nil, fmt.Errorf("create table %s: %w", entry.Table, err)
			}
			report.TablesCreated = append(report.TablesCreated, entry.Table)
			r.log.Info().Str("table", entry.Table).Msg("tabla creada")

		case schema.DiffAddColumn:
			// Una columna NOT NULL sin default no puede añadirse sobre una
			// tabla con datos: no es reparable de forma aditiva.
			if !entry.Column.Nullable && entry.Column.Default == "" && !entry.Column.PrimaryKey {
				return nil, fmt.Errorf("%s.%s sin default: %w", entry.Table, entry.Column.Name, domain.ErrSchemaConflict)
			}
			ddl := addColumnDDL(entry.Table, *entry.Column)
			if _, err := tx.Exec(ctx, ddl); err != nil {
				return nil, fmt.Errorf("add column %s.%s: %w", entry.Table, entry.Column.Name, err)
			}
			report.ColumnsAdded = append(report.ColumnsAdded, entry.Table+"."+entry.Column.Name)
			r.log.Info().Str("table", entry.Table).Str("column", entry.Column.Name).Msg("columna añadida")

		case schema.DiffTypeMismatch:
			warn := fmt.Sprintf("%s.%s: tipo %s en la base, %s en el registro",
				entry.Table, entry.Column.Name, entry.LiveType, entry.Column.Type)
			report.TypeWarnings = append(report.TypeWarnings, warn)
			r.log.Warn().Str("table", entry.Table).Str("column", entry.Column.Name).
				Str("live_type", entry.LiveType).Str("desired_type", entry.Column.Type).
				Msg("discrepancia de tipo, no se convierte")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit schema transaction: %w", err)
	}
	return report, nil
}

// introspect lee la estructura física desde information_schema.
func (r *Reconciler) introspect(ctx context.Context) (schema.LiveStructure, error) {
	query := `
		SELECT table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public'
		ORDER BY table_name, ordinal_position`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	live := schema.LiveStructure{}
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return nil, err
		}
		live[table] = append(live[table], schema.LiveColumn{
			Name:     column,
			Type:     dataType,
			Nullable: nullable == "YES",
		})
	}
	return live, rows.Err()
}

// createTableDDL genera el CREATE TABLE de una tabla del registro.
func createTableDDL(table schema.Table) string {
	var defs []string
	for _, col := range table.Columns {
		defs = append(defs, columnDef(col))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", table.Name, strings.Join(defs, ",\n\t"))
}

// addColumnDDL genera el ALTER TABLE ADD COLUMN. No se aplican referencias a
// posteriori: exigirían validar datos existentes.
func addColumnDDL(table string, col schema.Column) string {
	noRefs := col
	noRefs.References = ""
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDef(noRefs))
}

func columnDef(col schema.Column) string {
	parts := []string{col.Name, col.Type}
	if col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if col.Unique {
		parts = append(parts, "UNIQUE")
	}
	if !col.Nullable && !col.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != "" {
		parts = append(parts, "DEFAULT "+col.Default)
	}
	if col.References != "" {
		parts = append(parts, "REFERENCES "+col.References)
	}
	return strings.Join(parts, " ")
}
