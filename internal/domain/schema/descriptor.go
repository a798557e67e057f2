package schema

import "strings"

// Column describe una columna deseada. Type usa los nombres canónicos de
// information_schema (text, numeric, uuid, timestamp with time zone...).
// Default es la expresión SQL del valor por defecto; obligatoria para columnas
// NOT NULL que se añadan sobre tablas con datos.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	Default    string
	PrimaryKey bool
	Unique     bool
	References string // "tabla(columna)"; solo se aplica en CREATE TABLE
}

// Table describe una tabla deseada con sus columnas en orden.
type Table struct {
	Name    string
	Columns []Column
}

// Descriptor es la descripción declarativa e inmutable del esquema objetivo,
// en orden de creación (las referencias van después de sus destinos).
type Descriptor []Table

// LiveColumn es una columna observada en la base física.
type LiveColumn struct {
	Name     string
	Type     string
	Nullable bool
}

// LiveStructure es la estructura observada: tabla -> columnas existentes.
type LiveStructure map[string][]LiveColumn

// Tipos de entrada del diff.
const (
	DiffCreateTable  = "CREATE_TABLE"
	DiffAddColumn    = "ADD_COLUMN"
	DiffTypeMismatch = "TYPE_MISMATCH" // solo advertencia, nunca se fuerza la conversión
)

// DiffEntry una corrección aditiva pendiente (o una advertencia de tipo).
type DiffEntry struct {
	Kind     string
	Table    string
	Column   *Column // nil para CREATE_TABLE
	LiveType string  // tipo observado, solo TYPE_MISMATCH
}

// Diff resultado tipado de comparar la base física contra el Descriptor.
type Diff struct {
	Entries []DiffEntry
}

// Empty indica que la base física ya coincide con el descriptor.
func (d Diff) Empty() bool {
	return len(d.Entries) == 0
}

// Warnings devuelve solo las advertencias de tipo (no reparables de forma aditiva).
func (d Diff) Warnings() []DiffEntry {
	var out []DiffEntry
	for _, e := range d.Entries {
		if e.Kind == DiffTypeMismatch {
			out = append(out, e)
		}
	}
	return out
}

// Compare calcula el diff aditivo entre la estructura física y el descriptor.
// Nunca propone borrar: tablas o columnas presentes en la base pero ausentes
// del descriptor se ignoran (eliminarlas exige una migración explícita).
// Es idempotente: sobre una base ya conforme devuelve un Diff vacío.
func Compare(live LiveStructure, desired Descriptor) Diff {
	var diff Diff
	for _, table := range desired {
		liveCols, exists := live[table.Name]
		if !exists {
			diff.Entries = append(diff.Entries, DiffEntry{Kind: DiffCreateTable, Table: table.Name})
			continue
		}
		byName := make(map[string]LiveColumn, len(liveCols))
		for _, c := range liveCols {
			byName[strings.ToLower(c.Name)] = c
		}
		for i := range table.Columns {
			col := table.Columns[i]
			liveCol, ok := byName[strings.ToLower(col.Name)]
			if !ok {
				diff.Entries = append(diff.Entries, DiffEntry{Kind: DiffAddColumn, Table: table.Name, Column: &table.Columns[i]})
				continue
			}
			if !sameType(liveCol.Type, col.Type) {
				diff.Entries = append(diff.Entries, DiffEntry{
					Kind:     DiffTypeMismatch,
					Table:    table.Name,
					Column:   &table.Columns[i],
					LiveType: liveCol.Type,
				})
			}
		}
	}
	return diff
}

// Alias usuales -> nombre canónico de information_schema.
var typeAliases = map[string]string{
	"timestamptz": "timestamp with time zone",
	"timestamp":   "timestamp without time zone",
	"int":         "integer",
	"int4":        "integer",
	"int8":        "bigint",
	"bool":        "boolean",
	"varchar":     "character varying",
	"decimal":     "numeric",
}

func sameType(live, desired string) bool {
	return canonicalType(live) == canonicalType(desired)
}

func canonicalType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	// descartar precisión: numeric(14,2) -> numeric
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if alias, ok := typeAliases[t]; ok {
		return alias
	}
	return t
}
