package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// VariantFinder is a mock type for the scraper.VariantFinder type.
type VariantFinder struct {
	mock.Mock
}

// FetchVariantID provides a mock function with given fields: ctx, pageURL.
func (_m *VariantFinder) FetchVariantID(ctx context.Context, pageURL string) string {
	ret := _m.Called(ctx, pageURL)

	if len(ret) == 0 {
		panic("no return value specified for FetchVariantID")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		return rf(ctx, pageURL)
	}

	return ret.String(0)
}

// NewVariantFinder creates a new instance of VariantFinder. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewVariantFinder(t interface {
	mock.TestingT
	Cleanup(func())
}) *VariantFinder {
	m := &VariantFinder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
