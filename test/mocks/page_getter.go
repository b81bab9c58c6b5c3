package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// PageGetter is a mock type for the scraper.PageGetter type.
type PageGetter struct {
	mock.Mock
}

// GetPage provides a mock function with given fields: ctx, pageURL.
func (_m *PageGetter) GetPage(ctx context.Context, pageURL string) ([]byte, error) {
	ret := _m.Called(ctx, pageURL)

	if len(ret) == 0 {
		panic("no return value specified for GetPage")
	}

	var r0 []byte
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]byte, error)); ok {
		return rf(ctx, pageURL)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewPageGetter creates a new instance of PageGetter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPageGetter(t interface {
	mock.TestingT
	Cleanup(func())
}) *PageGetter {
	m := &PageGetter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
