package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"urbaniq/backend/internal/ingest"
)

// maxUploadBytes bounds one attachment read into memory.
const maxUploadBytes = 64 << 20

// CreateReport accepts the multipart submission: required form fields
// plus optional images and a single video.
func (h *Handler) CreateReport(c *gin.Context) {
	actor := mustActor(c)

	deptID, _ := strconv.ParseUint(firstNonEmpty(c.PostForm("assigned_department_id"), c.PostForm("assigned_department")), 10, 64)
	input := ingest.CreateInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		ComplaintType: c.PostForm("complaint_type"),
		DepartmentID:  uint(deptID),
	}
	if loc := c.PostForm("location"); loc != "" {
		input.Location = &loc
	}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed multipart body"})
		return
	}

	var images []ingest.Upload
	var video *ingest.Upload
	if form != nil {
		for _, fh := range form.File["images"] {
			up, err := readUpload(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable image upload"})
				return
			}
			images = append(images, up)
		}
		if files := form.File["video"]; len(files) > 0 {
			up, err := readUpload(files[0])
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable video upload"})
				return
			}
			video = &up
		}
	}

	complaint, outcomes, err := h.Ingest.Create(c.Request.Context(), actor, input, images, video)
	if err != nil {
		var verr *ingest.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason})
		case errors.Is(err, ingest.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many submissions, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"report":      complaint,
		"attachments": outcomes,
	})
}

// ListReports returns the page of complaints visible to the actor.
func (h *Handler) ListReports(c *gin.Context) {
	actor := mustActor(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.Ingest.List(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// MyReports returns every active complaint the actor submitted.
func (h *Handler) MyReports(c *gin.Context) {
	actor := mustActor(c)
	results, err := h.Ingest.Mine(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// ReportDetail returns one complaint by internal id.
func (h *Handler) ReportDetail(c *gin.Context) {
	actor := mustActor(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	complaint, err := h.Ingest.Get(c.Request.Context(), actor, uint(id))
	if err != nil {
		h.renderIngestError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// PatchReport changes the status. Unknown status values return the
// unchanged complaint with 200, matching the lenient contract.
func (h *Handler) PatchReport(c *gin.Context) {
	actor := mustActor(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	input := ingest.StatusInput{Status: c.PostForm("status")}
	if v := c.PostForm("person_in_charge"); v != "" {
		input.PersonInCharge = &v
	}
	if v := c.PostForm("resolution_note"); v != "" {
		input.ResolutionNote = &v
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["resolution_proofs"] {
			up, err := readUpload(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable proof upload"})
				return
			}
			input.Proofs = append(input.Proofs, up)
		}
	}
	// JSON bodies carry only the status change.
	if input.Status == "" {
		var body struct {
			Status         string  `json:"status"`
			PersonInCharge *string `json:"person_in_charge"`
			ResolutionNote *string `json:"resolution_note"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			input.Status = body.Status
			if body.PersonInCharge != nil {
				input.PersonInCharge = body.PersonInCharge
			}
			if body.ResolutionNote != nil {
				input.ResolutionNote = body.ResolutionNote
			}
		}
	}

	complaint, err := h.Ingest.SetStatus(c.Request.Context(), actor, uint(id), input)
	if err != nil {
		h.renderIngestError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// DeleteReport soft-deletes the complaint.
func (h *Handler) DeleteReport(c *gin.Context) {
	actor := mustActor(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if err := h.Ingest.SoftDelete(c.Request.Context(), actor, uint(id)); err != nil {
		h.renderIngestError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TrackReport looks a complaint up by its tracking id. Unlike the
// detail path it answers 403 when the report exists but is off-limits.
func (h *Handler) TrackReport(c *gin.Context) {
	actor := mustActor(c)
	complaint, err := h.Ingest.Track(c.Request.Context(), actor, c.Param("trackingId"))
	if err != nil {
		h.renderIngestError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// ListDepartments returns the reference departments ordered by name.
func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.Storage.ListDepartments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list departments"})
		return
	}
	c.JSON(http.StatusOK, departments)
}

func (h *Handler) renderIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingest.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, ingest.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
	}
}

func readUpload(fh *multipart.FileHeader) (ingest.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return ingest.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return ingest.Upload{}, err
	}
	return ingest.Upload{Filename: fh.Filename, Data: data}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
