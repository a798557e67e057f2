package schema

// Registry devuelve el esquema maestro: la única fuente de verdad de la
// estructura de la base. Para cambiar la estructura se modifica primero este
// registro; el reconciliador replica los cambios (solo aditivos) en el
// arranque siguiente. Las tablas van en orden de creación: las referencias
// apuntan siempre hacia arriba.
func Registry() Descriptor {
	id := Column{Name: "id", Type: "uuid", PrimaryKey: true}
	createdAt := Column{Name: "created_at", Type: "timestamp with time zone", Default: "now()"}
	createdBy := Column{Name: "created_by", Type: "uuid", Nullable: true, References: "users(id)"}

	return Descriptor{
		{
			Name: "users",
			Columns: []Column{
				id,
				{Name: "username", Type: "text", Unique: true},
				{Name: "password_hash", Type: "text"},
				{Name: "full_name", Type: "text"},
				{Name: "role", Type: "text", Default: "'user'"},
				{Name: "active", Type: "boolean", Default: "true"},
				createdAt,
			},
		},
		{
			Name: "clients",
			Columns: []Column{
				id,
				{Name: "code", Type: "text", Nullable: true},
				{Name: "name", Type: "text"},
				{Name: "address", Type: "text", Default: "''"},
				{Name: "rc", Type: "text", Default: "''"},
				{Name: "nis", Type: "text", Default: "''"},
				{Name: "nif", Type: "text", Default: "''"},
				{Name: "tax_article", Type: "text", Default: "''"},
				{Name: "email", Type: "text", Nullable: true},
				{Name: "phone_1", Type: "text", Nullable: true},
				{Name: "phone_2", Type: "text", Nullable: true},
				{Name: "bank_account", Type: "text", Nullable: true},
				{Name: "bank", Type: "text", Nullable: true},
				{Name: "category", Type: "text", Nullable: true},
				{Name: "credit_limit", Type: "numeric", Default: "0"},
				{Name: "carry_forward", Type: "numeric", Default: "0"},
				{Name: "active", Type: "boolean", Default: "true"},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "products",
			Columns: []Column{
				id,
				{Name: "code", Type: "text", Nullable: true},
				{Name: "name", Type: "text"},
				{Name: "unit", Type: "text"},
				{Name: "price", Type: "numeric"},
				{Name: "cost_price", Type: "numeric", Default: "0"},
				{Name: "tax_rate", Type: "numeric", Default: "0.19"},
				{Name: "initial_stock", Type: "numeric", Default: "0"},
				{Name: "current_stock", Type: "numeric", Default: "0"},
				{Name: "category", Type: "text", Default: "'Autre'"},
				{Name: "parent_id", Type: "uuid", Nullable: true, References: "products(id)"},
				{Name: "active", Type: "boolean", Default: "true"},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "price_history",
			Columns: []Column{
				id,
				{Name: "product_id", Type: "uuid", References: "products(id)"},
				{Name: "old_price", Type: "numeric"},
				{Name: "new_price", Type: "numeric"},
				{Name: "reference_note", Type: "text", Nullable: true},
				{Name: "applied_at", Type: "timestamp with time zone", Default: "now()"},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "receptions",
			Columns: []Column{
				id,
				{Name: "number", Type: "text", Unique: true},
				{Name: "year", Type: "integer"},
				{Name: "date", Type: "date"},
				{Name: "driver", Type: "text", Default: "''"},
				{Name: "tractor_plate", Type: "text", Default: "''"},
				{Name: "trailer_plate", Type: "text", Nullable: true},
				{Name: "carrier", Type: "text", Default: "''"},
				{Name: "destination", Type: "text", Default: "'TO_STOCK'"},
				{Name: "site_address", Type: "text", Nullable: true},
				{Name: "product_id", Type: "uuid", References: "products(id)"},
				{Name: "quantity_announced", Type: "numeric"},
				{Name: "quantity_received", Type: "numeric"},
				{Name: "gap_reason", Type: "text", Nullable: true},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "invoices",
			Columns: []Column{
				id,
				{Name: "number", Type: "text", Unique: true},
				{Name: "year", Type: "integer"},
				{Name: "date", Type: "date"},
				{Name: "client_id", Type: "uuid", References: "clients(id)"},
				{Name: "total_ht", Type: "numeric", Default: "0"},
				{Name: "total_tva", Type: "numeric", Default: "0"},
				{Name: "total_ttc", Type: "numeric", Default: "0"},
				{Name: "status", Type: "text", Default: "'OPEN'"},
				{Name: "driver", Type: "text", Nullable: true},
				{Name: "tractor_plate", Type: "text", Nullable: true},
				{Name: "trailer_plate", Type: "text", Nullable: true},
				{Name: "carrier", Type: "text", Nullable: true},
				{Name: "closure_year", Type: "integer", Nullable: true},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "invoice_lines",
			Columns: []Column{
				id,
				{Name: "invoice_id", Type: "uuid", References: "invoices(id)"},
				{Name: "product_id", Type: "uuid", References: "products(id)"},
				{Name: "quantity", Type: "numeric"},
				{Name: "unit_price", Type: "numeric"},
				{Name: "amount", Type: "numeric"},
			},
		},
		{
			Name: "credit_notes",
			Columns: []Column{
				id,
				{Name: "number", Type: "text", Unique: true},
				{Name: "year", Type: "integer"},
				{Name: "date", Type: "date"},
				{Name: "invoice_id", Type: "uuid", References: "invoices(id)"},
				{Name: "client_id", Type: "uuid", References: "clients(id)"},
				{Name: "reason", Type: "text", Default: "''"},
				{Name: "total_ht", Type: "numeric", Default: "0"},
				{Name: "total_tva", Type: "numeric", Default: "0"},
				{Name: "total_ttc", Type: "numeric", Default: "0"},
				{Name: "closure_year", Type: "integer", Nullable: true},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "credit_note_lines",
			Columns: []Column{
				id,
				{Name: "credit_note_id", Type: "uuid", References: "credit_notes(id)"},
				{Name: "product_id", Type: "uuid", References: "products(id)"},
				{Name: "quantity", Type: "numeric"},
				{Name: "unit_price", Type: "numeric"},
				{Name: "amount", Type: "numeric"},
			},
		},
		{
			Name: "payments",
			Columns: []Column{
				id,
				{Name: "number", Type: "text", Unique: true},
				{Name: "date", Type: "date"},
				{Name: "client_id", Type: "uuid", References: "clients(id)"},
				{Name: "amount", Type: "numeric"},
				{Name: "mode", Type: "text"},
				{Name: "reference", Type: "text", Nullable: true},
				{Name: "bank", Type: "text", Nullable: true},
				{Name: "closure_year", Type: "integer", Nullable: true},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "stock_movements",
			Columns: []Column{
				id,
				{Name: "product_id", Type: "uuid", References: "products(id)"},
				{Name: "kind", Type: "text"},
				{Name: "quantity", Type: "numeric"},
				{Name: "destination", Type: "text", Nullable: true},
				{Name: "reference", Type: "text", Nullable: true},
				{Name: "document_id", Type: "uuid", Nullable: true},
				{Name: "stock_before", Type: "numeric", Default: "0"},
				{Name: "stock_after", Type: "numeric", Default: "0"},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "closures",
			Columns: []Column{
				id,
				{Name: "year", Type: "integer", Unique: true},
				{Name: "closed_at", Type: "timestamp with time zone", Default: "now()"},
				{Name: "stocks_snapshot", Type: "jsonb", Nullable: true},
				{Name: "balances_snapshot", Type: "jsonb", Nullable: true},
				createdBy,
				createdAt,
			},
		},
		{
			Name: "audit_logs",
			Columns: []Column{
				id,
				{Name: "user_id", Type: "uuid", Nullable: true},
				{Name: "username", Type: "text", Nullable: true},
				{Name: "action", Type: "text"},
				{Name: "details", Type: "text", Nullable: true},
				{Name: "entity_ref", Type: "text", Nullable: true},
				createdAt,
			},
		},
	}
}
