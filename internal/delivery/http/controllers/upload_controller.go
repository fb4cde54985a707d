package controllers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	h "guestrsvp/internal/delivery/http/helpers"
	"guestrsvp/internal/domain"
)

const (
	uploadField     = "image"
	multipartMemory = 1 << 20
	sniffLen        = 512
)

type UploadController struct {
	Logger  *slog.Logger
	Service domain.UploadService
}

func NewUploadController(logger *slog.Logger, svc domain.UploadService) *UploadController {
	return &UploadController{
		Logger:  logger,
		Service: svc,
	}
}

// UploadImage godoc
// @Summary Upload an invitation image
// @Description JPEG, PNG, WebP or GIF up to 5 MB. The type is detected from the content.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} helpers.APIResponse "data contains url and path"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /admin/uploads [post]
func (c *UploadController) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxUploadBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteDomainError(w, r, c.Logger, domain.NewValidationError(uploadField, "image must be at most 5 MB"))
			return
		}
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "expected a multipart form")
		return
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, domain.NewValidationError(uploadField, "image is required"))
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	uploaded, err := c.Service.UploadImage(r.Context(), header.Filename, contentType, header.Size, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, uploaded)
}
