package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadURLPrefix is where uploaded images are served from.
const UploadURLPrefix = "/media/"

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveUpload stores the optional image field under the upload directory and
// returns its public URL, or "" when no file was sent.
func (h *Handler) saveUpload(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("could not read the uploaded image")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("only JPG, PNG, GIF and WEBP images are accepted")
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		h.logg.Error(c.Request.Context(), "save upload", err)
		return "", fmt.Errorf("could not save the uploaded image")
	}
	return UploadURLPrefix + filename, nil
}

// discardUpload removes a file saved by saveUpload when the form it came with
// was rejected.
func (h *Handler) discardUpload(c *gin.Context, url string) {
	if url == "" || !strings.HasPrefix(url, UploadURLPrefix) {
		return
	}
	path := filepath.Join(h.uploadDir, filepath.Base(strings.TrimPrefix(url, UploadURLPrefix)))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.logg.Error(c.Request.Context(), "discard upload", err)
	}
}
