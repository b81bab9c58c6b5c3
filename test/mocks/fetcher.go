package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Fetcher is a mock type for the scraper.Fetcher type.
type Fetcher struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, variantID.
func (_m *Fetcher) Fetch(ctx context.Context, variantID string) ([]byte, error) {
	ret := _m.Called(ctx, variantID)

	if len(ret) == 0 {
		panic("no return value specified for Fetch")
	}

	var r0 []byte
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]byte, error)); ok {
		return rf(ctx, variantID)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewFetcher creates a new instance of Fetcher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *Fetcher {
	m := &Fetcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
