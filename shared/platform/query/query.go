package query

// ---------- Tipos de paginación / ordenamiento ----------

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// Interfaz genérica para paginación
type Pagination interface{}

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "created_at", "price"
	Desc  bool
}

// NoPagination devuelve todos los registros.
var NoPagination Pagination = nil

// DefaultLimit se usa cuando el cliente no indica un límite válido.
const DefaultLimit = 50

// Normalize acota límites negativos o exagerados.
func (p OffsetPagination) Normalize() OffsetPagination {
	if p.Limit <= 0 || p.Limit > 500 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
