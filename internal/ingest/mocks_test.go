package ingest_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"urbaniq/backend/internal/authz"
	"urbaniq/backend/internal/models"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

// Users

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// Departments and authority profiles

func (m *MockStorage) SeedDepartments(names []string) error {
	args := m.Called(names)
	return args.Error(0)
}

func (m *MockStorage) ListDepartments() ([]models.Department, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Department), args.Error(1)
}

func (m *MockStorage) GetDepartmentByID(id uint) (*models.Department, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockStorage) GetDepartmentByName(name string) (*models.Department, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *MockStorage) DeleteDepartment(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) CreateAuthorityProfile(profile *models.AuthorityProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockStorage) GetAuthorityProfileByUserID(userID uint) (*models.AuthorityProfile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthorityProfile), args.Error(1)
}

// Complaints

func (m *MockStorage) CreateComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id uint) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) GetComplaintByTrackingID(trackingID string) (*models.Complaint, error) {
	args := m.Called(trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaints(scope authz.Scope, page, pageSize int) ([]models.Complaint, int64, error) {
	args := m.Called(scope, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) UpdateComplaintStatus(id uint, status string, personInCharge, resolutionNote *string) error {
	args := m.Called(id, status, personInCharge, resolutionNote)
	return args.Error(0)
}

func (m *MockStorage) SoftDeleteComplaint(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// Attachments

func (m *MockStorage) AddComplaintImage(image *models.ComplaintImage) error {
	args := m.Called(image)
	return args.Error(0)
}

func (m *MockStorage) SetComplaintVideo(video *models.ComplaintVideo) error {
	args := m.Called(video)
	return args.Error(0)
}

func (m *MockStorage) AddResolutionProof(proof *models.ResolutionProofImage) error {
	args := m.Called(proof)
	return args.Error(0)
}

// Side channels

func (m *MockStorage) PublishStatusEvent(ctx context.Context, trackingID string, payload []byte) error {
	args := m.Called(ctx, trackingID, payload)
	return args.Error(0)
}

func (m *MockStorage) AllowSubmission(ctx context.Context, userID uint) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// fakeBlobStore records every put and hands back local-style URLs.
type fakeBlobStore struct {
	puts map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{puts: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.puts[key] = data
	return "/uploads/" + key, nil
}
