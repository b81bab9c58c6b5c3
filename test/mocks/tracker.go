package mocks

import (
	"context"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/services/tracker"
	"github.com/stretchr/testify/mock"
)

// Tracker is a mock type for the bot.Tracker type.
type Tracker struct {
	mock.Mock
}

// Add provides a mock function with given fields: ctx, url, desiredSize.
func (_m *Tracker) Add(ctx context.Context, url string, desiredSize string) (*tracker.AddResult, error) {
	ret := _m.Called(ctx, url, desiredSize)

	if len(ret) == 0 {
		panic("no return value specified for Add")
	}

	var r0 *tracker.AddResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*tracker.AddResult)
	}

	return r0, ret.Error(1)
}

// Remove provides a mock function with given fields: ctx, id.
func (_m *Tracker) Remove(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Remove")
	}

	return ret.Error(0)
}

// List provides a mock function with given fields: ctx.
func (_m *Tracker) List(ctx context.Context) ([]models.TrackedProduct, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for List")
	}

	var r0 []models.TrackedProduct
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.TrackedProduct)
	}

	return r0, ret.Error(1)
}

// NewTracker creates a new instance of Tracker. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTracker(t interface {
	mock.TestingT
	Cleanup(func())
}) *Tracker {
	m := &Tracker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
