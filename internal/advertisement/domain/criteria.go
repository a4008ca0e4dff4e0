package domain

import (
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

// PublishedCriteria filtra por publicado.
type PublishedCriteria struct {
	Published bool
}

func (c PublishedCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "publicado", Op: sharedDomain.OpEq, Value: c.Published}}
}

type PlatformCriteria struct {
	Platform Platform
}

func (c PlatformCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "platform", Op: sharedDomain.OpEq, Value: string(c.Platform)}}
}

// PlateCriteria busca anuncios que incluyan la matrícula.
type PlateCriteria struct {
	Plate string
}

func (c PlateCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{
		Field: "vehicle_plates",
		Op:    sharedDomain.OpLike,
		Value: "%\"" + sharedDomain.NormalizePlate(c.Plate) + "\"%",
	}}
}
