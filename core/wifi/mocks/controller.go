package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Controller is a mock implementation of wifi.Controller
type Controller struct {
	mock.Mock
}

func (m *Controller) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Controller) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
