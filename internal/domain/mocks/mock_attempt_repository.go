package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/hookline/hookline/internal/domain"
)

// MockAttemptRepository is a mock of AttemptRepository interface
type MockAttemptRepository struct {
	ctrl     *gomock.Controller
	recorder *MockAttemptRepositoryMockRecorder
}

// MockAttemptRepositoryMockRecorder is the mock recorder for MockAttemptRepository
type MockAttemptRepositoryMockRecorder struct {
	mock *MockAttemptRepository
}

// NewMockAttemptRepository creates a new mock instance
func NewMockAttemptRepository(ctrl *gomock.Controller) *MockAttemptRepository {
	mock := &MockAttemptRepository{ctrl: ctrl}
	mock.recorder = &MockAttemptRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockAttemptRepository) EXPECT() *MockAttemptRepositoryMockRecorder {
	return m.recorder
}

// Insert mocks base method
func (m *MockAttemptRepository) Insert(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", ctx, attempt)
	ret0, _ := ret[0].(error)
	return ret0
}

// Insert indicates an expected call of Insert
func (mr *MockAttemptRepositoryMockRecorder) Insert(ctx, attempt interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockAttemptRepository)(nil).Insert), ctx, attempt)
}

// ListByDelivery mocks base method
func (m *MockAttemptRepository) ListByDelivery(ctx context.Context, deliveryID string) ([]*domain.DeliveryAttempt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByDelivery", ctx, deliveryID)
	ret0, _ := ret[0].([]*domain.DeliveryAttempt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByDelivery indicates an expected call of ListByDelivery
func (mr *MockAttemptRepositoryMockRecorder) ListByDelivery(ctx, deliveryID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByDelivery", reflect.TypeOf((*MockAttemptRepository)(nil).ListByDelivery), ctx, deliveryID)
}

// ListRecentBySubscription mocks base method
func (m *MockAttemptRepository) ListRecentBySubscription(ctx context.Context, subscriptionID string, limit int) ([]*domain.DeliveryAttempt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecentBySubscription", ctx, subscriptionID, limit)
	ret0, _ := ret[0].([]*domain.DeliveryAttempt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRecentBySubscription indicates an expected call of ListRecentBySubscription
func (mr *MockAttemptRepositoryMockRecorder) ListRecentBySubscription(ctx, subscriptionID, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecentBySubscription", reflect.TypeOf((*MockAttemptRepository)(nil).ListRecentBySubscription), ctx, subscriptionID, limit)
}

// DeleteOlderThan mocks base method
func (m *MockAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteOlderThan", ctx, cutoff)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DeleteOlderThan indicates an expected call of DeleteOlderThan
func (mr *MockAttemptRepositoryMockRecorder) DeleteOlderThan(ctx, cutoff interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteOlderThan", reflect.TypeOf((*MockAttemptRepository)(nil).DeleteOlderThan), ctx, cutoff)
}

// ListRecent mocks base method
func (m *MockAttemptRepository) ListRecent(ctx context.Context, limit int) ([]*domain.DeliveryAttempt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecent", ctx, limit)
	ret0, _ := ret[0].([]*domain.DeliveryAttempt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRecent indicates an expected call of ListRecent
func (mr *MockAttemptRepositoryMockRecorder) ListRecent(ctx, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecent", reflect.TypeOf((*MockAttemptRepository)(nil).ListRecent), ctx, limit)
}
