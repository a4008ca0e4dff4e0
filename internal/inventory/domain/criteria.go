package domain

import (
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

type StatusCriteria struct {
	Status VehicleStatus
}

func (c StatusCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "status", Op: sharedDomain.OpEq, Value: string(c.Status)}}
}

// PlateCriteria compara contra la matrícula normalizada.
type PlateCriteria struct {
	Plate string
}

func (c PlateCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "plate", Op: sharedDomain.OpEq, Value: sharedDomain.NormalizePlate(c.Plate)}}
}

type ModelCriteria struct {
	Model string
}

func (c ModelCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "model", Op: sharedDomain.OpILike, Value: "%" + c.Model + "%"}}
}

// PhotosCompleteCriteria sirve para listar vehículos sin fotos.
type PhotosCompleteCriteria struct {
	Complete bool
}

func (c PhotosCompleteCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "photos_complete", Op: sharedDomain.OpEq, Value: c.Complete}}
}
