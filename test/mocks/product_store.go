package mocks

import (
	"context"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/stretchr/testify/mock"
)

// ProductStore is a mock type for the tracker.ProductStore type.
type ProductStore struct {
	mock.Mock
}

// AddProduct provides a mock function with given fields: ctx, product.
func (_m *ProductStore) AddProduct(ctx context.Context, product *models.TrackedProduct) (int64, error) {
	ret := _m.Called(ctx, product)

	if len(ret) == 0 {
		panic("no return value specified for AddProduct")
	}

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, *models.TrackedProduct) (int64, error)); ok {
		return rf(ctx, product)
	}
	r0 = ret.Get(0).(int64)

	return r0, ret.Error(1)
}

// ExistsByURL provides a mock function with given fields: ctx, url.
func (_m *ProductStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	ret := _m.Called(ctx, url)

	if len(ret) == 0 {
		panic("no return value specified for ExistsByURL")
	}

	return ret.Bool(0), ret.Error(1)
}

// GetProduct provides a mock function with given fields: ctx, id.
func (_m *ProductStore) GetProduct(ctx context.Context, id int64) (*models.TrackedProduct, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetProduct")
	}

	var r0 *models.TrackedProduct
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.TrackedProduct)
	}

	return r0, ret.Error(1)
}

// GetActiveProducts provides a mock function with given fields: ctx.
func (_m *ProductStore) GetActiveProducts(ctx context.Context) ([]models.TrackedProduct, error) {
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

// DeleteProduct provides a mock function with given fields: ctx, id.
func (_m *ProductStore) DeleteProduct(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteProduct")
	}

	return ret.Error(0)
}

// SaveSnapshot provides a mock function with given fields: ctx, productID, snapshot.
func (_m *ProductStore) SaveSnapshot(ctx context.Context, productID int64, snapshot *models.Snapshot) error {
	ret := _m.Called(ctx, productID, snapshot)

	if len(ret) == 0 {
		panic("no return value specified for SaveSnapshot")
	}

	return ret.Error(0)
}

// NewProductStore creates a new instance of ProductStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewProductStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProductStore {
	m := &ProductStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
