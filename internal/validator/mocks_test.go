package validator

import (
	"github.com/stretchr/testify/mock"
)

// MockRestarter is a mock implementation of Restarter
type MockRestarter struct {
	mock.Mock
}

func (m *MockRestarter) RestartService(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}
