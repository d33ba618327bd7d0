// Package ingest is the entry point for complaint operations: it
// validates submissions, persists them, runs media normalization with
// graceful fallback, and fires the lifecycle notifications. The web
// layer calls only this package.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"urbaniq/backend/internal/authz"
	"urbaniq/backend/internal/blob"
	"urbaniq/backend/internal/lifecycle"
	"urbaniq/backend/internal/media"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/notify"
	"urbaniq/backend/internal/storage"
)

var (
	// ErrNotFound covers both truly missing complaints and ones the
	// actor may not see on list/detail paths, so existence is never
	// confirmed to unauthorized citizens.
	ErrNotFound = errors.New("ingest: not found")
	// ErrForbidden is only returned from the tracking-lookup path,
	// which deliberately reveals existence while denying content.
	ErrForbidden = errors.New("ingest: forbidden")
	// ErrRateLimited rejects a submission burst.
	ErrRateLimited = errors.New("ingest: too many submissions")
)

// ValidationError rejects a submission before anything is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Service orchestrates complaint ingestion and mutation.
type Service struct {
	Storage  storage.Storage
	Media    *media.Normalizer
	Blobs    blob.Store
	Notifier *notify.Dispatcher
	Log      *zap.Logger
}

func NewService(s storage.Storage, m *media.Normalizer, b blob.Store, n *notify.Dispatcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Storage: s, Media: m, Blobs: b, Notifier: n, Log: log}
}

// CreateInput carries the required submission fields.
type CreateInput struct {
	Title         string
	Description   string
	Location      *string
	ComplaintType string
	DepartmentID  uint
}

// Upload is one raw file from the multipart submission.
type Upload struct {
	Filename string
	Data     []byte
}

// AttachmentOutcome reports what happened to one upload. Normalization
// failures are diagnostics, never request failures.
type AttachmentOutcome struct {
	Filename   string `json:"filename"`
	Kind       string `json:"kind"` // image | video | proof
	Normalized bool   `json:"normalized"`
	URL        string `json:"url,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Create validates and persists a complaint, then processes the
// attachments independently and fires the created notification. The
// complaint row is committed before any attachment work, so it exists
// even if every transform fails.
func (s *Service) Create(ctx context.Context, actor authz.Actor, input CreateInput, images []Upload, video *Upload) (*models.Complaint, []AttachmentOutcome, error) {
	if input.Title == "" || input.Description == "" || input.DepartmentID == 0 {
		return nil, nil, &ValidationError{Reason: "title, description and assigned_department_id are required"}
	}
	if input.ComplaintType == "" {
		input.ComplaintType = models.CategoryOther
	}

	dept, err := s.Storage.GetDepartmentByID(input.DepartmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, &ValidationError{Reason: "invalid department"}
		}
		return nil, nil, err
	}

	allowed, err := s.Storage.AllowSubmission(ctx, actor.UserID)
	if err != nil {
		// Rate limiting fails open; losing Redis must not block intake.
		s.Log.Warn("rate limit check failed", zap.Error(err))
	} else if !allowed {
		return nil, nil, ErrRateLimited
	}

	complaint := &models.Complaint{
		UserID:               actor.UserID,
		Title:                input.Title,
		Description:          input.Description,
		Location:             input.Location,
		ComplaintType:        input.ComplaintType,
		Status:               lifecycle.StatusOpen,
		AssignedDepartmentID: dept.ID,
		IsActive:             true,
	}
	if err := s.Storage.CreateComplaint(complaint); err != nil {
		return nil, nil, err
	}
	complaint.AssignedDepartment = *dept

	var outcomes []AttachmentOutcome
	if video != nil {
		outcomes = append(outcomes, s.attachVideo(ctx, complaint, *video))
	}
	for i, img := range images {
		outcomes = append(outcomes, s.attachImage(ctx, complaint, img, i))
	}

	s.notify(ctx, lifecycle.EventCreated, complaint)
	return complaint, outcomes, nil
}

// attachImage normalizes one image, falling back to the original bytes
// when the transform fails. Only a blob-store failure loses the
// attachment, and even that never fails the submission.
func (s *Service) attachImage(ctx context.Context, c *models.Complaint, up Upload, index int) AttachmentOutcome {
	outcome := AttachmentOutcome{Filename: up.Filename, Kind: "image"}

	name, data, contentType := up.Filename, up.Data, "application/octet-stream"
	asset, err := s.Media.NormalizeImage(up.Filename, up.Data)
	if err != nil {
		outcome.Reason = err.Error()
		s.Log.Warn("image normalization failed, storing original",
			zap.String("filename", up.Filename), zap.Error(err))
	} else {
		outcome.Normalized = true
		name, data, contentType = asset.Name, asset.Data, asset.ContentType
	}

	key := fmt.Sprintf("complaints/%d/images/%d_%s", c.ID, index, name)
	url, err := s.Blobs.Put(ctx, key, data, contentType)
	if err != nil {
		outcome.Reason = err.Error()
		s.Log.Error("image blob store failed", zap.String("filename", up.Filename), zap.Error(err))
		return outcome
	}

	image := &models.ComplaintImage{ComplaintID: c.ID, URL: url}
	if err := s.Storage.AddComplaintImage(image); err != nil {
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.URL = url
	c.Images = append(c.Images, *image)
	return outcome
}

// attachVideo transcodes the upload when the tool is present, storing
// the original on unavailability, failure or timeout.
func (s *Service) attachVideo(ctx context.Context, c *models.Complaint, up Upload) AttachmentOutcome {
	outcome := AttachmentOutcome{Filename: up.Filename, Kind: "video"}

	name, data, contentType := up.Filename, up.Data, "application/octet-stream"
	asset, err := s.Media.NormalizeVideo(ctx, up.Filename, up.Data)
	switch {
	case errors.Is(err, media.ErrToolUnavailable):
		outcome.Reason = "transcode tool unavailable"
	case err != nil:
		outcome.Reason = err.Error()
		s.Log.Warn("video transcode failed, storing original",
			zap.String("filename", up.Filename), zap.Error(err))
	default:
		outcome.Normalized = true
		name, data, contentType = asset.Name, asset.Data, asset.ContentType
	}

	key := fmt.Sprintf("complaints/%d/videos/%s", c.ID, name)
	url, err := s.Blobs.Put(ctx, key, data, contentType)
	if err != nil {
		outcome.Reason = err.Error()
		s.Log.Error("video blob store failed", zap.String("filename", up.Filename), zap.Error(err))
		return outcome
	}

	video := &models.ComplaintVideo{ComplaintID: c.ID, URL: url}
	if err := s.Storage.SetComplaintVideo(video); err != nil {
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.URL = url
	c.Video = video
	return outcome
}
