package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"urbaniq/backend/internal/authz"
	"urbaniq/backend/internal/lifecycle"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/storage"
)

// StatusInput carries a status-change request.
type StatusInput struct {
	Status         string
	PersonInCharge *string
	ResolutionNote *string
	Proofs         []Upload
}

// SetStatus drives the complaint through the lifecycle machine. An
// unknown status value is a no-op that returns the unchanged
// complaint, matching the lenient contract of the detail endpoint.
func (s *Service) SetStatus(ctx context.Context, actor authz.Actor, id uint, input StatusInput) (*models.Complaint, error) {
	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !authz.CanSetStatus(actor, complaint) {
		return nil, ErrNotFound
	}

	t := lifecycle.Apply(complaint.Status, input.Status)
	if !t.Applied || t.From == t.To {
		return complaint, nil
	}

	if err := s.Storage.UpdateComplaintStatus(id, t.To, input.PersonInCharge, input.ResolutionNote); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	complaint.Status = t.To
	if input.PersonInCharge != nil {
		complaint.PersonInCharge = input.PersonInCharge
	}
	if input.ResolutionNote != nil {
		complaint.ResolutionNote = input.ResolutionNote
	}

	if t.To == lifecycle.StatusResolved {
		for i, proof := range input.Proofs {
			s.attachProof(ctx, complaint, proof, i)
		}
	}

	if t.Event != lifecycle.EventNone {
		s.notify(ctx, t.Event, complaint)
	}
	s.publishStatus(ctx, complaint)
	return complaint, nil
}

// SoftDelete marks the complaint inactive. Deleting an already-deleted
// complaint is NotFound, never an error.
func (s *Service) SoftDelete(ctx context.Context, actor authz.Actor, id uint) error {
	complaint, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !authz.CanSoftDelete(actor, complaint) {
		return ErrNotFound
	}
	if err := s.Storage.SoftDeleteComplaint(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// attachProof stores a resolution-proof image with the same fallback
// contract as submission images.
func (s *Service) attachProof(ctx context.Context, c *models.Complaint, up Upload, index int) AttachmentOutcome {
	outcome := AttachmentOutcome{Filename: up.Filename, Kind: "proof"}

	name, data, contentType := up.Filename, up.Data, "application/octet-stream"
	asset, err := s.Media.NormalizeImage(up.Filename, up.Data)
	if err != nil {
		outcome.Reason = err.Error()
		s.Log.Warn("proof normalization failed, storing original",
			zap.String("filename", up.Filename), zap.Error(err))
	} else {
		outcome.Normalized = true
		name, data, contentType = asset.Name, asset.Data, asset.ContentType
	}

	key := fmt.Sprintf("complaints/%d/proof/%d_%s", c.ID, index, name)
	url, err := s.Blobs.Put(ctx, key, data, contentType)
	if err != nil {
		outcome.Reason = err.Error()
		s.Log.Error("proof blob store failed", zap.String("filename", up.Filename), zap.Error(err))
		return outcome
	}

	proof := &models.ResolutionProofImage{ComplaintID: c.ID, URL: url}
	if err := s.Storage.AddResolutionProof(proof); err != nil {
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.URL = url
	c.ResolutionProofs = append(c.ResolutionProofs, *proof)
	return outcome
}

// notify fires the lifecycle notification to the submitting user. The
// result is logged by the dispatcher; nothing here can fail the
// request.
func (s *Service) notify(ctx context.Context, event lifecycle.Event, c *models.Complaint) {
	if s.Notifier == nil {
		return
	}
	recipient, err := s.Storage.GetUserByID(c.UserID)
	if err != nil {
		s.Log.Warn("notification recipient lookup failed",
			zap.Uint("user_id", c.UserID), zap.Error(err))
		return
	}
	s.Notifier.Dispatch(ctx, event, c, recipient)
}

// publishStatus feeds the live tracking channel.
func (s *Service) publishStatus(ctx context.Context, c *models.Complaint) {
	payload, err := json.Marshal(map[string]string{
		"tracking_id": c.TrackingID,
		"status":      c.Status,
	})
	if err != nil {
		return
	}
	if err := s.Storage.PublishStatusEvent(ctx, c.TrackingID, payload); err != nil {
		s.Log.Warn("status event publish failed",
			zap.String("tracking_id", c.TrackingID), zap.Error(err))
	}
}
