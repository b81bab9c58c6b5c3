package mocks

import (
	"context"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/stretchr/testify/mock"
)

// Repository is a mock type for the checker.Repository type.
type Repository struct {
	mock.Mock
}

// GetActiveProducts provides a mock function with given fields: ctx.
func (_m *Repository) GetActiveProducts(ctx context.Context) ([]models.TrackedProduct, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetActiveProducts")
	}

	var r0 []models.TrackedProduct
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.TrackedProduct)
	}

	return r0, ret.Error(1)
}

// SaveSnapshot provides a mock function with given fields: ctx, productID, snapshot.
func (_m *Repository) SaveSnapshot(ctx context.Context, productID int64, snapshot *models.Snapshot) error {
	ret := _m.Called(ctx, productID, snapshot)

	if len(ret) == 0 {
		panic("no return value specified for SaveSnapshot")
	}

	return ret.Error(0)
}

// NewRepository creates a new instance of Repository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
