package domain

import (
	"fmt"
	"strings"
)

// Store es una de las dos sedes físicas de la concesionaria.
type Store string

const (
	StoreMatriz Store = "matriz"
	StoreFilial Store = "filial"
	// StoreAll no es una sede: en lecturas significa "sin filtrar por tienda".
	StoreAll Store = "all"
)

func (s Store) Valid() bool {
	return s == StoreMatriz || s == StoreFilial
}

// ParseStore acepta una sede o "all" (para lecturas).
func ParseStore(raw string) (Store, error) {
	s := Store(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() || s == StoreAll {
		return s, nil
	}
	return "", fmt.Errorf("unknown store %q", raw)
}

// Stores lista las sedes reales.
func Stores() []Store {
	return []Store{StoreMatriz, StoreFilial}
}

// StoreCriteria filtra por la columna store; StoreAll no filtra.
type StoreCriteria struct {
	Store Store
}

func (c StoreCriteria) ToConditions() []Criterion {
	if c.Store == "" || c.Store == StoreAll {
		return nil
	}
	return []Criterion{{Field: "store", Op: OpEq, Value: string(c.Store)}}
}

// NormalizePlate pasa la matrícula a mayúsculas sin separadores: "abc-1d23" → "ABC1D23".
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if r == '-' || r == ' ' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
