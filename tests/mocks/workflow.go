package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockAdvertisementPublisher simula la mutación de publicación.
type MockAdvertisementPublisher struct {
	mock.Mock
}

func (m *MockAdvertisementPublisher) PublishAdvertisement(ctx context.Context, id, userID string, at time.Time) error {
	args := m.Called(ctx, id, userID, at)
	return args.Error(0)
}

// MockInsightResolver simula la mutación de resolución.
type MockInsightResolver struct {
	mock.Mock
}

func (m *MockInsightResolver) ResolveInsight(ctx context.Context, id, userID string, at time.Time) error {
	args := m.Called(ctx, id, userID, at)
	return args.Error(0)
}
