package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"urbaniq/backend/internal/authz"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/tracking"
)

// CreateComplaint persists a new complaint. A tracking-id collision is
// treated as a signal to regenerate and retry, never as a failure of
// the submission.
func (s *Service) CreateComplaint(complaint *models.Complaint) error {
	var err error
	for attempt := 0; attempt < tracking.MaxAttempts; attempt++ {
		err = s.DB.Create(complaint).Error
		if err == nil {
			return nil
		}
		if !tracking.IsUniqueViolation(err) {
			return err
		}
		complaint.TrackingID = tracking.NewID()
	}
	return fmt.Errorf("allocate tracking id: %w", err)
}

func (s *Service) GetComplaintByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.preloaded().Where("is_active = ?", true).First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (s *Service) GetComplaintByTrackingID(trackingID string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.preloaded().Where("tracking_id = ? AND is_active = ?", trackingID, true).First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListComplaints applies the authorization scope as a query pre-filter
// and pages the result, newest first.
func (s *Service) ListComplaints(scope authz.Scope, page, pageSize int) ([]models.Complaint, int64, error) {
	if scope.Kind == authz.ScopeNone {
		return []models.Complaint{}, 0, nil
	}

	q := s.DB.Model(&models.Complaint{}).Where("is_active = ?", true)
	switch scope.Kind {
	case authz.ScopeDepartment:
		q = q.Where("assigned_department_id = ?", scope.DepartmentID)
	case authz.ScopeOwner:
		q = q.Where("user_id = ?", scope.OwnerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var complaints []models.Complaint
	err := q.Preload("User").Preload("AssignedDepartment").Preload("Images").Preload("Video").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// UpdateComplaintStatus writes the new status together with the
// optional review/resolution fields.
func (s *Service) UpdateComplaintStatus(id uint, status string, personInCharge, resolutionNote *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if personInCharge != nil {
		updates["person_in_charge"] = *personInCharge
	}
	if resolutionNote != nil {
		updates["resolution_note"] = *resolutionNote
	}
	res := s.DB.Model(&models.Complaint{}).Where("id = ? AND is_active = ?", id, true).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteComplaint flips is_active; the row stays in storage.
func (s *Service) SoftDeleteComplaint(id uint) error {
	res := s.DB.Model(&models.Complaint{}).Where("id = ? AND is_active = ?", id, true).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) AddComplaintImage(image *models.ComplaintImage) error {
	return s.DB.Create(image).Error
}

func (s *Service) SetComplaintVideo(video *models.ComplaintVideo) error {
	return s.DB.Create(video).Error
}

func (s *Service) AddResolutionProof(proof *models.ResolutionProofImage) error {
	return s.DB.Create(proof).Error
}

func (s *Service) preloaded() *gorm.DB {
	return s.DB.Preload("User").Preload("AssignedDepartment").
		Preload("Images").Preload("Video").Preload("ResolutionProofs")
}

// PublishStatusEvent pushes a status change onto the live tracking
// feed. Without Redis the feed is simply off.
func (s *Service) PublishStatusEvent(ctx context.Context, trackingID string, payload []byte) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Publish(ctx, "reports:status:"+trackingID, payload).Err()
}

// AllowSubmission enforces the per-user submission rate limit via a
// counter with a rolling window. Redis being down fails open.
const (
	submissionLimit  = 10
	submissionWindow = time.Hour
)

func (s *Service) AllowSubmission(ctx context.Context, userID uint) (bool, error) {
	if s.Redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("ratelimit:submit:%d", userID)
	count, err := s.Redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		s.Redis.Expire(ctx, key, submissionWindow)
	}
	return count <= submissionLimit, nil
}
