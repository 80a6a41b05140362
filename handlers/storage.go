package handlers

import (
	"bytes"
	"io"
	"net/http"

	"cupbot/services/business"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxLogoBytes = 5 << 20
	sniffLen     = 3072
)

var allowedLogoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadLogoHandler accepts a multipart "file" and stores it as the business logo.
func (h *HandlerBundle) UploadLogoHandler(c *gin.Context) {
	logger := getLogger(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}
	if !h.Business.StorageEnabled() {
		respondError(c, "upload logo", business.ErrStorageDisabled)
		return
	}
	if fileHeader.Size > maxLogoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "logo must be 5MB or smaller"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file", "detail": err.Error()})
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file", "detail": err.Error()})
		return
	}
	head = head[:n]
	if contentType := mimetype.Detect(head).String(); !allowedLogoTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type", "detail": contentType})
		return
	}

	b, err := h.Business.UploadLogo(c.Request.Context(), businessID(c), io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		logger.Error("Logo upload failed", zap.String("businessID", businessID(c)), zap.Error(err))
		respondError(c, "upload logo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "logo uploaded successfully",
		"logo":    b.Settings.Theme.Logo,
	})
}
