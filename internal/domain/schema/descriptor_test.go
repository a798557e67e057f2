package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/domain/schema"
)

// liveFromDescriptor proyecta un descriptor a la estructura física equivalente,
// como si la base ya estuviera completamente conforme.
func liveFromDescriptor(d schema.Descriptor) schema.LiveStructure {
	live := make(schema.LiveStructure, len(d))
	for _, table := range d {
		cols := make([]schema.LiveColumn, 0, len(table.Columns))
		for _, c := range table.Columns {
			cols = append(cols, schema.LiveColumn{Name: c.Name, Type: c.Type, Nullable: c.Nullable})
		}
		live[table.Name] = cols
	}
	return live
}

// Base completamente conforme -> diff vacío. Garantiza que el reconciliador
// no emite DDL en arranques repetidos.
func TestCompare_BaseConforme_DiffVacio(t *testing.T) {
	desired := schema.Registry()
	live := liveFromDescriptor(desired)

	diff := schema.Compare(live, desired)
	assert.True(t, diff.Empty(), "una base conforme no debe producir correcciones")
}

// Base vacía -> una entrada CREATE_TABLE por tabla, en el orden del registro.
func TestCompare_BaseVacia_CreaTodasLasTablas(t *testing.T) {
	desired := schema.Registry()
	diff := schema.Compare(schema.LiveStructure{}, desired)

	require.Len(t, diff.Entries, len(desired))
	for i, e := range diff.Entries {
		assert.Equal(t, schema.DiffCreateTable, e.Kind)
		assert.Equal(t, desired[i].Name, e.Table, "el orden de creación debe seguir al registro")
		assert.Nil(t, e.Column)
	}
}

// Columna ausente -> ADD_COLUMN con la definición deseada.
func TestCompare_ColumnaAusente_AddColumn(t *testing.T) {
	desired := schema.Descriptor{
		{
			Name: "clients",
			Columns: []schema.Column{
				{Name: "id", Type: "uuid", PrimaryKey: true},
				{Name: "credit_limit", Type: "numeric", Default: "0"},
			},
		},
	}
	live := schema.LiveStructure{
		"clients": {{Name: "id", Type: "uuid"}},
	}

	diff := schema.Compare(live, desired)
	require.Len(t, diff.Entries, 1)
	e := diff.Entries[0]
	assert.Equal(t, schema.DiffAddColumn, e.Kind)
	assert.Equal(t, "clients", e.Table)
	require.NotNil(t, e.Column)
	assert.Equal(t, "credit_limit", e.Column.Name)
}

// Tablas o columnas extra en la base física se ignoran: nunca se propone borrar.
func TestCompare_ExtrasEnBase_SeIgnoran(t *testing.T) {
	desired := schema.Descriptor{
		{Name: "users", Columns: []schema.Column{{Name: "id", Type: "uuid", PrimaryKey: true}}},
	}
	live := schema.LiveStructure{
		"users":        {{Name: "id", Type: "uuid"}, {Name: "legacy_flag", Type: "boolean"}},
		"tabla_legacy": {{Name: "id", Type: "uuid"}},
	}

	diff := schema.Compare(live, desired)
	assert.True(t, diff.Empty(), "extras físicos no deben generar correcciones")
}

// Divergencia de tipo -> TYPE_MISMATCH (advertencia, nunca conversión).
func TestCompare_TipoDivergente_SoloAdvertencia(t *testing.T) {
	desired := schema.Descriptor{
		{Name: "payments", Columns: []schema.Column{{Name: "amount", Type: "numeric"}}},
	}
	live := schema.LiveStructure{
		"payments": {{Name: "amount", Type: "text"}},
	}

	diff := schema.Compare(live, desired)
	require.Len(t, diff.Entries, 1)
	e := diff.Entries[0]
	assert.Equal(t, schema.DiffTypeMismatch, e.Kind)
	assert.Equal(t, "text", e.LiveType)
	assert.Len(t, diff.Warnings(), 1)
}

// Alias de tipo y precisión no cuentan como divergencia: numeric(14,2) == numeric,
// timestamptz == timestamp with time zone.
func TestCompare_AliasYPrecision_NoDivergen(t *testing.T) {
	desired := schema.Descriptor{
		{
			Name: "invoices",
			Columns: []schema.Column{
				{Name: "total_ttc", Type: "numeric"},
				{Name: "created_at", Type: "timestamptz"},
				{Name: "year", Type: "int4"},
			},
		},
	}
	live := schema.LiveStructure{
		"invoices": {
			{Name: "total_ttc", Type: "numeric(14,2)"},
			{Name: "created_at", Type: "timestamp with time zone"},
			{Name: "year", Type: "integer"},
		},
	}

	diff := schema.Compare(live, desired)
	assert.True(t, diff.Empty())
}

// Los nombres de columna se comparan sin distinguir mayúsculas.
func TestCompare_NombresCaseInsensitive(t *testing.T) {
	desired := schema.Descriptor{
		{Name: "users", Columns: []schema.Column{{Name: "Username", Type: "text"}}},
	}
	live := schema.LiveStructure{
		"users": {{Name: "username", Type: "text"}},
	}

	assert.True(t, schema.Compare(live, desired).Empty())
}

// El registro maestro ordena las referencias hacia arriba: toda tabla
// referenciada aparece antes que la que la referencia.
func TestRegistry_ReferenciasHaciaArriba(t *testing.T) {
	seen := map[string]bool{}
	for _, table := range schema.Registry() {
		for _, col := range table.Columns {
			if col.References == "" {
				continue
			}
			ref := col.References[:indexByte(col.References, '(')]
			if ref == table.Name {
				continue // autorreferencia (products.parent_id)
			}
			assert.True(t, seen[ref],
				"la tabla %s referencia a %s antes de su creación", table.Name, ref)
		}
		seen[table.Name] = true
	}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return len(s)
}
