package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/hookline/hookline/internal/domain"
)

// MockDeliveryQueue is a mock of DeliveryQueue interface
type MockDeliveryQueue struct {
	ctrl     *gomock.Controller
	recorder *MockDeliveryQueueMockRecorder
}

// MockDeliveryQueueMockRecorder is the mock recorder for MockDeliveryQueue
type MockDeliveryQueueMockRecorder struct {
	mock *MockDeliveryQueue
}

// NewMockDeliveryQueue creates a new mock instance
func NewMockDeliveryQueue(ctrl *gomock.Controller) *MockDeliveryQueue {
	mock := &MockDeliveryQueue{ctrl: ctrl}
	mock.recorder = &MockDeliveryQueueMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockDeliveryQueue) EXPECT() *MockDeliveryQueueMockRecorder {
	return m.recorder
}

// Enqueue mocks base method
func (m *MockDeliveryQueue) Enqueue(ctx context.Context, deliveryID string, attemptCount int, delay time.Duration) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Enqueue", ctx, deliveryID, attemptCount, delay)
	ret0, _ := ret[0].(error)
	return ret0
}

// Enqueue indicates an expected call of Enqueue
func (mr *MockDeliveryQueueMockRecorder) Enqueue(ctx, deliveryID, attemptCount, delay interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Enqueue", reflect.TypeOf((*MockDeliveryQueue)(nil).Enqueue), ctx, deliveryID, attemptCount, delay)
}

// Consume mocks base method
func (m *MockDeliveryQueue) Consume(ctx context.Context) (*domain.DeliveryMessage, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Consume", ctx)
	ret0, _ := ret[0].(*domain.DeliveryMessage)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Consume indicates an expected call of Consume
func (mr *MockDeliveryQueueMockRecorder) Consume(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Consume", reflect.TypeOf((*MockDeliveryQueue)(nil).Consume), ctx)
}
