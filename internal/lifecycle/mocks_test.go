package lifecycle_test

import (
	"context"
	"time"

	"civicreport/backend/internal/chathub"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindUser(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockStore) TouchLastAssigned(ctx context.Context, userID uint, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockStore) CreateReport(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockStore) FindReport(ctx context.Context, id uint) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockStore) TransitionReport(ctx context.Context, id uint, from models.ReportStatus, change storage.ReportChange) error {
	args := m.Called(ctx, id, from, change)
	return args.Error(0)
}

func (m *MockStore) UpdateReportCategory(ctx context.Context, id, categoryID uint) error {
	args := m.Called(ctx, id, categoryID)
	return args.Error(0)
}

func (m *MockStore) SetCoAssignee(ctx context.Context, id, staffID, maintainerID uint) error {
	args := m.Called(ctx, id, staffID, maintainerID)
	return args.Error(0)
}

func (m *MockStore) ListReportsByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStore) ListReportsByCreator(ctx context.Context, userID uint) ([]models.Report, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStore) ListReportsForStaff(ctx context.Context, userID uint) ([]models.Report, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Report), args.Error(1)
}

type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectStaffForOffice(ctx context.Context, officeID uint) (*models.User, error) {
	args := m.Called(ctx, officeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockSpawner struct {
	mock.Mock
}

func (m *MockSpawner) EnsureChat(ctx context.Context, reportID, staffID uint, other chathub.Participant) (*models.Chat, bool, error) {
	args := m.Called(ctx, reportID, staffID, other)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Chat), args.Bool(1), args.Error(2)
}

func (m *MockSpawner) HasChat(ctx context.Context, reportID uint, kind models.ChatKind) (bool, error) {
	args := m.Called(ctx, reportID, kind)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) RecordTransition(ctx context.Context, report *models.Report, prev, next models.ReportStatus) (*models.Notification, error) {
	args := m.Called(ctx, report, prev, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}
