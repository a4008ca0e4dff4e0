package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockProcedures simula las funciones remotas.
type MockProcedures struct {
	mock.Mock
}

func (m *MockProcedures) Call(ctx context.Context, procedure string) (json.RawMessage, error) {
	args := m.Called(ctx, procedure)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}
