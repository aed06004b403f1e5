package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/hookline/hookline/internal/domain"
)

// MockSubscriptionCache is a mock of SubscriptionCache interface
type MockSubscriptionCache struct {
	ctrl     *gomock.Controller
	recorder *MockSubscriptionCacheMockRecorder
}

// MockSubscriptionCacheMockRecorder is the mock recorder for MockSubscriptionCache
type MockSubscriptionCacheMockRecorder struct {
	mock *MockSubscriptionCache
}

// NewMockSubscriptionCache creates a new mock instance
func NewMockSubscriptionCache(ctrl *gomock.Controller) *MockSubscriptionCache {
	mock := &MockSubscriptionCache{ctrl: ctrl}
	mock.recorder = &MockSubscriptionCacheMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockSubscriptionCache) EXPECT() *MockSubscriptionCacheMockRecorder {
	return m.recorder
}

// Get mocks base method
func (m *MockSubscriptionCache) Get(ctx context.Context, id string) (*domain.Subscription, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Subscription)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockSubscriptionCacheMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockSubscriptionCache)(nil).Get), ctx, id)
}

// Set mocks base method
func (m *MockSubscriptionCache) Set(ctx context.Context, sub *domain.Subscription) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Set", ctx, sub)
}

// Set indicates an expected call of Set
func (mr *MockSubscriptionCacheMockRecorder) Set(ctx, sub interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Set", reflect.TypeOf((*MockSubscriptionCache)(nil).Set), ctx, sub)
}

// Delete mocks base method
func (m *MockSubscriptionCache) Delete(ctx context.Context, id string) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Delete", ctx, id)
}

// Delete indicates an expected call of Delete
func (mr *MockSubscriptionCacheMockRecorder) Delete(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockSubscriptionCache)(nil).Delete), ctx, id)
}
