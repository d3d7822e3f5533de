package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/dto"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
	"github.com/znlumins/webkalenderaihmpsti/pkg/storage"
)

const defaultUploadBucket = "materials"

type uploadService interface {
	Upload(ctx context.Context, actor *models.Actor, bucket, filename, prefix string, content io.Reader) (string, error)
}

type blobOpener interface {
	Open(bucket, name string) (*os.File, error)
}

// FileHandler accepts uploads and serves stored blobs back.
type FileHandler struct {
	uploads uploadService
	blobs   blobOpener
}

// NewFileHandler constructs a FileHandler.
func NewFileHandler(uploads uploadService, blobs blobOpener) *FileHandler {
	return &FileHandler{uploads: uploads, blobs: blobs}
}

// Upload godoc
// @Summary Upload a logo or material
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Param bucket formData string false "Bucket" default(materials)
// @Param prefix formData string false "Name prefix"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /uploads [post]
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Because(appErrors.ErrValidation, err, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Because(appErrors.ErrUploadFailed, err, "cannot read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	bucket := c.DefaultPostForm("bucket", defaultUploadBucket)
	url, err := h.uploads.Upload(c.Request.Context(), actorFromContext(c), bucket, header.Filename, c.PostForm("prefix"), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.UploadResponse{URL: url})
}

// Serve streams a stored blob. Blobs are public once uploaded.
func (h *FileHandler) Serve(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	f, err := h.blobs.Open(c.Param("bucket"), name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
			return
		}
		response.Error(c, appErrors.Store(err, "open file"))
		return
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		response.Error(c, appErrors.Store(err, "stat file"))
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), f)
}
