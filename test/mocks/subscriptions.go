package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Subscriptions is a mock type for the bot.Subscriptions type.
type Subscriptions struct {
	mock.Mock
}

// SubscribeChat provides a mock function with given fields: ctx, chatID.
func (_m *Subscriptions) SubscribeChat(ctx context.Context, chatID int64) (bool, error) {
	ret := _m.Called(ctx, chatID)

	if len(ret) == 0 {
		panic("no return value specified for SubscribeChat")
	}

	return ret.Bool(0), ret.Error(1)
}

// UnsubscribeChat provides a mock function with given fields: ctx, chatID.
func (_m *Subscriptions) UnsubscribeChat(ctx context.Context, chatID int64) (bool, error) {
	ret := _m.Called(ctx, chatID)

	if len(ret) == 0 {
		panic("no return value specified for UnsubscribeChat")
	}

	return ret.Bool(0), ret.Error(1)
}

// GetSubscribedChats provides a mock function with given fields: ctx.
func (_m *Subscriptions) GetSubscribedChats(ctx context.Context) ([]int64, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for GetSubscribedChats")
	}

	var r0 []int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]int64)
	}

	return r0, ret.Error(1)
}

// NewSubscriptions creates a new instance of Subscriptions. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSubscriptions(t interface {
	mock.TestingT
	Cleanup(func())
}) *Subscriptions {
	m := &Subscriptions{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
