// Package storage is the persistence boundary: a Storage interface the
// services depend on, backed by PostgreSQL through gorm plus Redis for
// rate limiting and the status-event feed.
package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"urbaniq/backend/internal/authz"
	"urbaniq/backend/internal/models"
)

// ErrNotFound is returned for missing or soft-deleted rows.
var ErrNotFound = errors.New("storage: not found")

// ErrProtected is returned when deleting reference data that is still
// pointed at by complaints or authority profiles.
var ErrProtected = errors.New("storage: row is referenced")

type Storage interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Departments and authority profiles
	SeedDepartments(names []string) error
	ListDepartments() ([]models.Department, error)
	GetDepartmentByID(id uint) (*models.Department, error)
	GetDepartmentByName(name string) (*models.Department, error)
	DeleteDepartment(id uint) error
	CreateAuthorityProfile(profile *models.AuthorityProfile) error
	GetAuthorityProfileByUserID(userID uint) (*models.AuthorityProfile, error)

	// Complaints
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	GetComplaintByTrackingID(trackingID string) (*models.Complaint, error)
	ListComplaints(scope authz.Scope, page, pageSize int) ([]models.Complaint, int64, error)
	UpdateComplaintStatus(id uint, status string, personInCharge, resolutionNote *string) error
	SoftDeleteComplaint(id uint) error

	// Attachments
	AddComplaintImage(image *models.ComplaintImage) error
	SetComplaintVideo(video *models.ComplaintVideo) error
	AddResolutionProof(proof *models.ResolutionProofImage) error

	// Side channels
	PublishStatusEvent(ctx context.Context, trackingID string, payload []byte) error
	AllowSubmission(ctx context.Context, userID uint) (bool, error)
}

// Service is the gorm/redis-backed Storage implementation.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}
