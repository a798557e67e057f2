package stock

import "github.com/jhoicas/Comercial-api/internal/domain/entity"

// OwnerID resuelve el dueño del pool de stock de un producto: el propio
// producto, o su padre si es una variante de precio. Todos los caminos que
// leen o mutan stock pasan por aquí; un hijo nunca tiene contador propio.
func OwnerID(p *entity.Product) string {
	if p.IsChild() {
		return *p.ParentID
	}
	return p.ID
}

// ViaReference construye la referencia de trazabilidad cuando un movimiento
// llega a través de una variante: conserva el código del hijo junto al
// documento de origen.
func ViaReference(base string, child *entity.Product) string {
	if child == nil || !child.IsChild() {
		return base
	}
	label := child.Code
	if label == "" {
		label = child.Name
	}
	if base == "" {
		return "(Via " + label + ")"
	}
	return base + " (Via " + label + ")"
}
