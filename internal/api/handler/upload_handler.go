package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gofix/gofix-api/internal/core/domain"
	"github.com/gofix/gofix-api/internal/core/ports"
)

// uploadField is the multipart form field carrying the image.
const uploadField = "image"

type UploadHandler struct {
	uploads ports.UploadService
}

func NewUploadHandler(uploads ports.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// Upload handles POST /api/upload.
//
// @Summary      Upload an image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "jpeg, png, gif or webp, at most 5 MiB"
// @Success      201    {object}  uploadResponse
// @Failure      400    {object}  map[string]any
// @Failure      413    {object}  map[string]any
// @Failure      415    {object}  map[string]any
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return domain.NewValidationError("No file uploaded")
		}
		return errInvalidPayload(err)
	}

	f, err := fh.Open()
	if err != nil {
		return errInvalidPayload(err)
	}
	defer f.Close()

	up, err := h.uploads.Upload(c.Request().Context(), fh.Filename, fh.Size, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, uploadResponse{Success: true, URL: "/api/uploads/" + up.ID})
}

// Serve handles GET /api/uploads/:id, streaming the stored image.
//
// @Summary      Download an image
// @Tags         uploads
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Param        id   path  string  true  "Upload id"
// @Success      200
// @Failure      404  {object}  map[string]any
// @Router       /api/uploads/{id} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	up, rc, err := h.uploads.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	header := c.Response().Header()
	if up.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(up.Size, 10))
	}
	header.Set("Cache-Control", "public, max-age=86400, immutable")
	return c.Stream(http.StatusOK, up.ContentType, rc)
}
