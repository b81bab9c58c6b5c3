package mocks

import (
	"context"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/stretchr/testify/mock"
)

// Snapshotter is a mock type for the checker.Snapshotter and tracker.Snapshotter types.
type Snapshotter struct {
	mock.Mock
}

// Snapshot provides a mock function with given fields: ctx, url.
func (_m *Snapshotter) Snapshot(ctx context.Context, url string) (*models.Snapshot, error) {
	ret := _m.Called(ctx, url)

	if len(ret) == 0 {
		panic("no return value specified for Snapshot")
	}

	var r0 *models.Snapshot
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*models.Snapshot, error)); ok {
		return rf(ctx, url)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Snapshot)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewSnapshotter creates a new instance of Snapshotter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSnapshotter(t interface {
	mock.TestingT
	Cleanup(func())
}) *Snapshotter {
	m := &Snapshotter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
