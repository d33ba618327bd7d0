package ingest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"urbaniq/backend/internal/authz"
	"urbaniq/backend/internal/config"
	"urbaniq/backend/internal/ingest"
	"urbaniq/backend/internal/lifecycle"
	"urbaniq/backend/internal/media"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/storage"
	"urbaniq/backend/internal/tracking"
)

func newTestService(s *MockStorage, blobs *fakeBlobStore) *ingest.Service {
	return ingest.NewService(s, media.NewNormalizer(config.DefaultMediaConfig(), nil), blobs, nil, nil)
}

func electricityDept() *models.Department {
	return &models.Department{ID: 4, Name: "Electricity"}
}

// expectCreate wires the mock to behave like the real store: assign a
// row id and a tracking id on create.
func expectCreate(s *MockStorage) {
	s.On("CreateComplaint", mock.AnythingOfType("*models.Complaint")).Run(func(args mock.Arguments) {
		c := args.Get(0).(*models.Complaint)
		c.ID = 1
		if c.TrackingID == "" {
			c.TrackingID = tracking.NewID()
		}
	}).Return(nil).Once()
}

// TestCreate_Success covers the primary submission path: fresh
// tracking identity, open status, assigned department.
func TestCreate_Success(t *testing.T) {
	s := new(MockStorage)
	s.On("GetDepartmentByID", uint(4)).Return(electricityDept(), nil).Once()
	s.On("AllowSubmission", mock.Anything, uint(10)).Return(true, nil).Once()
	expectCreate(s)

	svc := newTestService(s, newFakeBlobStore())
	actor := authz.Actor{UserID: 10}
	input := ingest.CreateInput{
		Title:        "Broken streetlight",
		Description:  "Out for a week",
		DepartmentID: 4,
	}

	complaint, outcomes, err := svc.Create(context.Background(), actor, input, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, complaint)

	assert.NotEmpty(t, complaint.TrackingID, "tracking id assigned at creation")
	_, perr := tracking.Parse(complaint.TrackingID)
	assert.NoError(t, perr)
	assert.NotEqual(t, "1", complaint.TrackingID, "tracking id never derived from the row id")

	assert.Equal(t, lifecycle.StatusOpen, complaint.Status)
	assert.Equal(t, uint(4), complaint.AssignedDepartmentID)
	assert.Equal(t, "Electricity", complaint.AssignedDepartment.Name)
	assert.Equal(t, models.CategoryOther, complaint.ComplaintType, "category defaults to other")
	assert.Empty(t, outcomes)
	s.AssertExpectations(t)
}

// TestCreate_MissingFields verifies validation rejects before any
// persistence happens.
func TestCreate_MissingFields(t *testing.T) {
	s := new(MockStorage)
	svc := newTestService(s, newFakeBlobStore())

	_, _, err := svc.Create(context.Background(), authz.Actor{UserID: 10},
		ingest.CreateInput{Title: "no description"}, nil, nil)

	var verr *ingest.ValidationError
	assert.ErrorAs(t, err, &verr)
	s.AssertNotCalled(t, "CreateComplaint", mock.Anything)
}

// TestCreate_InvalidDepartment verifies an unknown department is a
// validation error, not a storage error.
func TestCreate_InvalidDepartment(t *testing.T) {
	s := new(MockStorage)
	s.On("GetDepartmentByID", uint(99)).Return(nil, storage.ErrNotFound).Once()

	svc := newTestService(s, newFakeBlobStore())
	_, _, err := svc.Create(context.Background(), authz.Actor{UserID: 10},
		ingest.CreateInput{Title: "t", Description: "d", DepartmentID: 99}, nil, nil)

	var verr *ingest.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid department", verr.Reason)
	s.AssertNotCalled(t, "CreateComplaint", mock.Anything)
}

// TestCreate_RateLimited verifies the submission limiter short-circuits
// before persistence.
func TestCreate_RateLimited(t *testing.T) {
	s := new(MockStorage)
	s.On("GetDepartmentByID", uint(4)).Return(electricityDept(), nil).Once()
	s.On("AllowSubmission", mock.Anything, uint(10)).Return(false, nil).Once()

	svc := newTestService(s, newFakeBlobStore())
	_, _, err := svc.Create(context.Background(), authz.Actor{UserID: 10},
		ingest.CreateInput{Title: "t", Description: "d", DepartmentID: 4}, nil, nil)

	assert.ErrorIs(t, err, ingest.ErrRateLimited)
	s.AssertNotCalled(t, "CreateComplaint", mock.Anything)
}

// TestCreate_CorruptImageFallsBack verifies the media fallback: a
// failed decode still stores the original bytes and the submission
// succeeds.
func TestCreate_CorruptImageFallsBack(t *testing.T) {
	s := new(MockStorage)
	s.On("GetDepartmentByID", uint(4)).Return(electricityDept(), nil).Once()
	s.On("AllowSubmission", mock.Anything, uint(10)).Return(true, nil).Once()
	expectCreate(s)
	s.On("AddComplaintImage", mock.AnythingOfType("*models.ComplaintImage")).Return(nil).Once()

	blobs := newFakeBlobStore()
	svc := newTestService(s, blobs)

	original := []byte("not an image at all")
	complaint, outcomes, err := svc.Create(context.Background(), authz.Actor{UserID: 10},
		ingest.CreateInput{Title: "t", Description: "d", DepartmentID: 4},
		[]ingest.Upload{{Filename: "broken.jpg", Data: original}}, nil)

	require.NoError(t, err, "media failure never aborts the submission")
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Normalized)
	assert.NotEmpty(t, outcomes[0].Reason)
	assert.NotEmpty(t, outcomes[0].URL, "attachment still stored")
	assert.Len(t, complaint.Images, 1)

	stored := blobs.puts["complaints/1/images/0_broken.jpg"]
	assert.Equal(t, original, stored, "original bytes preserved on fallback")
	s.AssertExpectations(t)
}

// TestCreate_VideoToolUnavailableFallsBack verifies a missing
// transcoder degrades to raw storage of the upload.
func TestCreate_VideoToolUnavailableFallsBack(t *testing.T) {
	s := new(MockStorage)
	s.On("GetDepartmentByID", uint(4)).Return(electricityDept(), nil).Once()
	s.On("AllowSubmission", mock.Anything, uint(10)).Return(true, nil).Once()
	expectCreate(s)
	s.On("SetComplaintVideo", mock.AnythingOfType("*models.ComplaintVideo")).Return(nil).Once()

	cfg := config.DefaultMediaConfig()
	cfg.FFmpegBinary = "ffmpeg-binary-that-does-not-exist"
	blobs := newFakeBlobStore()
	svc := ingest.NewService(s, media.NewNormalizer(cfg, nil), blobs, nil, nil)

	raw := []byte("raw video bytes")
	complaint, outcomes, err := svc.Create(context.Background(), authz.Actor{UserID: 10},
		ingest.CreateInput{Title: "t", Description: "d", DepartmentID: 4},
		nil, &ingest.Upload{Filename: "clip.mov", Data: raw})

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "video", outcomes[0].Kind)
	assert.False(t, outcomes[0].Normalized)
	assert.Equal(t, "transcode tool unavailable", outcomes[0].Reason)
	require.NotNil(t, complaint.Video)
	assert.Equal(t, raw, blobs.puts["complaints/1/videos/clip.mov"])
	s.AssertExpectations(t)
}
