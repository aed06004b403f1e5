package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/hookline/hookline/internal/domain"
)

// MockDeliveryRepository is a mock of DeliveryRepository interface
type MockDeliveryRepository struct {
	ctrl     *gomock.Controller
	recorder *MockDeliveryRepositoryMockRecorder
}

// MockDeliveryRepositoryMockRecorder is the mock recorder for MockDeliveryRepository
type MockDeliveryRepositoryMockRecorder struct {
	mock *MockDeliveryRepository
}

// NewMockDeliveryRepository creates a new mock instance
func NewMockDeliveryRepository(ctrl *gomock.Controller) *MockDeliveryRepository {
	mock := &MockDeliveryRepository{ctrl: ctrl}
	mock.recorder = &MockDeliveryRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockDeliveryRepository) EXPECT() *MockDeliveryRepositoryMockRecorder {
	return m.recorder
}

// Insert mocks base method
func (m *MockDeliveryRepository) Insert(ctx context.Context, subscriptionID string, payload interface{}) (*domain.WebhookDelivery, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", ctx, subscriptionID, payload)
	ret0, _ := ret[0].(*domain.WebhookDelivery)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Insert indicates an expected call of Insert
func (mr *MockDeliveryRepositoryMockRecorder) Insert(ctx, subscriptionID, payload interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockDeliveryRepository)(nil).Insert), ctx, subscriptionID, payload)
}

// GetByID mocks base method
func (m *MockDeliveryRepository) GetByID(ctx context.Context, id string) (*domain.WebhookDelivery, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.WebhookDelivery)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID
func (mr *MockDeliveryRepositoryMockRecorder) GetByID(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockDeliveryRepository)(nil).GetByID), ctx, id)
}

// UpdateStatus mocks base method
func (m *MockDeliveryRepository) UpdateStatus(ctx context.Context, id, status string, lastAttemptAt *time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStatus", ctx, id, status, lastAttemptAt)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateStatus indicates an expected call of UpdateStatus
func (mr *MockDeliveryRepositoryMockRecorder) UpdateStatus(ctx, id, status, lastAttemptAt interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStatus", reflect.TypeOf((*MockDeliveryRepository)(nil).UpdateStatus), ctx, id, status, lastAttemptAt)
}

// CountByStatusSince mocks base method
func (m *MockDeliveryRepository) CountByStatusSince(ctx context.Context, status string, since time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountByStatusSince", ctx, status, since)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountByStatusSince indicates an expected call of CountByStatusSince
func (mr *MockDeliveryRepositoryMockRecorder) CountByStatusSince(ctx, status, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountByStatusSince", reflect.TypeOf((*MockDeliveryRepository)(nil).CountByStatusSince), ctx, status, since)
}
