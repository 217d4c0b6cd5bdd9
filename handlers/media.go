package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sitedash/sitedash/internal/storage"
	"github.com/sitedash/sitedash/pkg/logger"
	"github.com/sitedash/sitedash/pkg/metrics"
)

// DefaultMaxImageBytes is the upload limit for header images (5 MiB).
const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

// MediaStore is the object store behind the media endpoints.
type MediaStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, string, error)
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// MediaHandler accepts header image uploads and serves them back.
type MediaHandler struct {
	store    MediaStore
	maxBytes int64
	// publicBase, when set, is prefixed to "/api/media/<key>" to build
	// durable URLs; otherwise presigned object URLs are returned.
	publicBase string
	urlTTL     time.Duration
	newKey     func(ext string) string
}

func NewMediaHandler(store MediaStore, maxBytes int64, publicBase string, urlTTL time.Duration) *MediaHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if urlTTL <= 0 {
		urlTTL = 7 * 24 * time.Hour
	}
	return &MediaHandler{
		store:      store,
		maxBytes:   maxBytes,
		publicBase: strings.TrimRight(publicBase, "/"),
		urlTTL:     urlTTL,
		newKey: func(ext string) string {
			return "uploads/" + uuid.NewString() + ext
		},
	}
}

func (h *MediaHandler) Register(rg gin.IRoutes) {
	rg.POST("/media", h.Upload)
	rg.GET("/media/*key", h.Download)
}

// Upload stores a multipart "file" that must be an image no larger than the
// configured limit and returns its URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Please select a valid image file.")
		return
	}
	if fh.Size > h.maxBytes {
		h.fail(c, http.StatusBadRequest, fmt.Sprintf("File size must be less than %dMB.", h.maxBytes/(1024*1024)))
		return
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		h.fail(c, http.StatusBadRequest, "Please select a valid image file.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Please select a valid image file.")
		return
	}
	defer f.Close()

	// the declared type is client-controlled; sniff the bytes as well
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, "image/") {
		h.fail(c, http.StatusBadRequest, "Please select a valid image file.")
		return
	}

	key := h.newKey(strings.ToLower(path.Ext(fh.Filename)))
	body := io.MultiReader(bytes.NewReader(head), f)
	if err := h.store.UploadFile(c.Request.Context(), key, body, fh.Size, sniffed); err != nil {
		logger.Errorf("media upload %s: %v", key, err)
		metrics.MediaUploads.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image", "message": err.Error()})
		return
	}

	url, err := h.objectURL(c.Request.Context(), key)
	if err != nil {
		logger.Errorf("media url %s: %v", key, err)
		metrics.MediaUploads.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image", "message": err.Error()})
		return
	}
	metrics.MediaUploads.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"url": url, "key": key})
}

// Download streams a stored object.
func (h *MediaHandler) Download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	rc, contentType, err := h.store.DownloadFile(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("media download %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer rc.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

func (h *MediaHandler) objectURL(ctx context.Context, key string) (string, error) {
	if h.publicBase != "" {
		return h.publicBase + "/api/media/" + key, nil
	}
	return h.store.GetPresignedURL(ctx, key, h.urlTTL)
}

func (h *MediaHandler) fail(c *gin.Context, status int, msg string) {
	metrics.MediaUploads.WithLabelValues("rejected").Inc()
	c.JSON(status, gin.H{"error": msg})
}
