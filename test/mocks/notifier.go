package mocks

import (
	"context"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/stretchr/testify/mock"
)

// Notifier is a mock type for the checker.Notifier type.
type Notifier struct {
	mock.Mock
}

// NotifyStockAvailable provides a mock function with given fields: ctx, alert.
func (_m *Notifier) NotifyStockAvailable(ctx context.Context, alert models.StockAlert) error {
	ret := _m.Called(ctx, alert)

	if len(ret) == 0 {
		panic("no return value specified for NotifyStockAvailable")
	}

	return ret.Error(0)
}

// NotifyPriceDrop provides a mock function with given fields: ctx, drop.
func (_m *Notifier) NotifyPriceDrop(ctx context.Context, drop models.PriceDrop) error {
	ret := _m.Called(ctx, drop)

	if len(ret) == 0 {
		panic("no return value specified for NotifyPriceDrop")
	}

	return ret.Error(0)
}

// NewNotifier creates a new instance of Notifier. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *Notifier {
	m := &Notifier{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
