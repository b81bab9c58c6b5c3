package mocks

import (
	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v4"
)

// API is a mock type for the bot.API type.
type API struct {
	mock.Mock
}

// Handle provides a mock function with given fields: endpoint, h, m.
func (_m *API) Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc) {
	_va := make([]interface{}, len(m))
	for _i := range m {
		_va[_i] = m[_i]
	}
	var _ca []interface{}
	_ca = append(_ca, endpoint, h)
	_ca = append(_ca, _va...)
	_m.Called(_ca...)
}

// Start provides a mock function with no fields.
func (_m *API) Start() {
	_m.Called()
}

// Stop provides a mock function with no fields.
func (_m *API) Stop() {
	_m.Called()
}

// Send provides a mock function with given fields: to, what, opts.
func (_m *API) Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error) {
	var _ca []interface{}
	_ca = append(_ca, to, what)
	_ca = append(_ca, opts...)
	ret := _m.Called(_ca...)

	if len(ret) == 0 {
		panic("no return value specified for Send")
	}

	var r0 *telebot.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*telebot.Message)
	}

	return r0, ret.Error(1)
}

// NewAPI creates a new instance of API. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *API {
	m := &API{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
