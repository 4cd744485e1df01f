package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/logger"
)

// ImageUploader issues presigned upload URLs. *storage.S3Storage implements it.
type ImageUploader interface {
	PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage ImageUploader
}

func NewUploadController(storage ImageUploader) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // products, categories, banners or about; defaults to products
}

// GeneratePresignedURL returns a PUT URL for an admin image upload
// POST /api/admin/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "filename and content_type are required")
		return
	}

	response, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	if err != nil {
		logger.Warn("Failed to generate presigned URL", map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       req.Folder,
			"error":        err.Error(),
		})
		info := apperrors.ParseError(err, "upload")
		if info.Status == http.StatusInternalServerError {
			info.Code = apperrors.UploadFailed
			info.Message = "Failed to generate upload URL"
		}
		apperrors.RespondWithError(c, info.Status, info.Code, info.Message)
		return
	}

	logger.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, response)
}
