package domain

import (
	sharedDomain "github.com/davicafu/autostock/shared/domain"
)

type TaskStatusCriteria struct {
	Status TaskStatus
}

func (c TaskStatusCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "status", Op: sharedDomain.OpEq, Value: string(c.Status)}}
}

type TaskKindCriteria struct {
	Kind TaskKind
}

func (c TaskKindCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "kind", Op: sharedDomain.OpEq, Value: string(c.Kind)}}
}

type InsightResolvedCriteria struct {
	Resolved bool
}

func (c InsightResolvedCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: "resolved", Op: sharedDomain.OpEq, Value: c.Resolved}}
}
