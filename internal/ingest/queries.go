package ingest

import (
	"context"
	"errors"

	"urbaniq/backend/internal/authz"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/storage"
	"urbaniq/backend/internal/tracking"
)

// Page is one page of a visibility-filtered listing.
type Page struct {
	Results    []models.Complaint `json:"results"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Count      int64              `json:"count"`
	TotalPages int64              `json:"total_pages"`
}

// List returns the complaints the actor may see, newest first.
func (s *Service) List(ctx context.Context, actor authz.Actor, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	scope := authz.VisibleScope(actor)
	results, total, err := s.Storage.ListComplaints(scope, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &Page{
		Results:    results,
		Page:       page,
		PageSize:   pageSize,
		Count:      total,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// Mine returns every active complaint the actor submitted.
func (s *Service) Mine(ctx context.Context, actor authz.Actor) ([]models.Complaint, error) {
	scope := authz.Scope{Kind: authz.ScopeOwner, OwnerID: actor.UserID}
	results, _, err := s.Storage.ListComplaints(scope, 1, 1000)
	return results, err
}

// Get fetches one complaint by internal id. Denied access looks the
// same as a missing row.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id uint) (*models.Complaint, error) {
	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanView(actor, complaint) {
		return nil, ErrNotFound
	}
	return complaint, nil
}

// Track fetches one complaint by tracking id. Unlike Get, a complaint
// that exists but is off-limits yields ErrForbidden.
func (s *Service) Track(ctx context.Context, actor authz.Actor, trackingID string) (*models.Complaint, error) {
	id, err := tracking.Parse(trackingID)
	if err != nil {
		return nil, ErrNotFound
	}
	complaint, err := s.Storage.GetComplaintByTrackingID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanView(actor, complaint) {
		return nil, ErrForbidden
	}
	return complaint, nil
}
