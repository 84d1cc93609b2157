// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/gif" // register GIF decoder
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"manassa/internal/middleware"
	"manassa/internal/models"
	"manassa/internal/storage"
	"manassa/internal/store"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps decoded image size to prevent memory bombs.
	maxImagePixels = 100_000_000

	// attachmentExpiry is how long a presigned URL for a private
	// attachment stays valid.
	attachmentExpiry = 1 * time.Hour
)

// allowedMediaTypes defines MIME types accepted for upload. PDF and
// EPUB cover book and scholarship attachments.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":           true,
	"image/png":            true,
	"image/gif":            true,
	"image/webp":           true,
	"image/svg+xml":        true,
	"application/pdf":      true,
	"application/epub+zip": true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation; SVG is vector.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Media groups the upload and attachment endpoints. All file bytes live
// in S3-compatible storage; PostgreSQL holds only metadata.
type Media struct {
	mediaStore *store.MediaStore
	storageCli *storage.Client
}

// NewMedia creates the media handler group. storageCli may be nil when
// object storage is not configured.
func NewMedia(mediaStore *store.MediaStore, storageCli *storage.Client) *Media {
	return &Media{mediaStore: mediaStore, storageCli: storageCli}
}

// List serves GET /api/admin/media.
func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	if h.storageCli == nil {
		respondError(w, r, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	items, err := h.mediaStore.List(50, (page-1)*50)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	type mediaView struct {
		models.Media
		URL      string `json:"url,omitempty"`
		ThumbURL string `json:"thumb_url,omitempty"`
	}
	views := make([]mediaView, 0, len(items))
	for _, m := range items {
		mv := mediaView{Media: m}
		if m.Bucket == h.storageCli.MediaBucket() {
			mv.URL = h.storageCli.MediaURL(m.S3Key)
			if m.ThumbS3Key != nil {
				mv.ThumbURL = h.storageCli.MediaURL(*m.ThumbS3Key)
			}
		}
		views = append(views, mv)
	}

	render.JSON(w, r, map[string]any{"items": views, "page": page})
}

// Upload serves POST /api/admin/media: a multipart upload. Files sent
// with bucket=private land in the attachment bucket and are only
// reachable through presigned URLs.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storageCli == nil {
		respondError(w, r, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, http.StatusRequestEntityTooLarge, "file too large, maximum size is 50 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondError(w, r, http.StatusRequestEntityTooLarge, "file too large, maximum size is 50 MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, r, http.StatusInternalServerError, "failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	lowerName := strings.ToLower(header.Filename)
	switch {
	// DetectContentType reports SVGs as XML or plain text.
	case strings.HasSuffix(lowerName, ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")):
		contentType = "image/svg+xml"
	// EPUB files sniff as generic zip.
	case strings.HasSuffix(lowerName, ".epub") && contentType == "application/zip":
		contentType = "application/epub+zip"
	}

	if !allowedMediaTypes[contentType] {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to process file")
		return
	}

	private := r.FormValue("bucket") == "private"
	bucket := h.storageCli.MediaBucket()
	if private {
		bucket = h.storageCli.PrivateBucket()
	}

	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileID := uuid.New().String()
	s3Key := fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to read file")
		return
	}

	ctx := r.Context()
	upload := h.storageCli.UploadMedia
	if private {
		upload = h.storageCli.UploadAttachment
	}
	if err := upload(ctx, s3Key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", s3Key)
		respondError(w, r, http.StatusInternalServerError, "failed to upload file")
		return
	}

	// Thumbnails only exist for public images.
	var thumbKey *string
	if !private && thumbableTypes[contentType] {
		thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", s3Key)
		} else if thumbData != nil {
			tk := fmt.Sprintf("media/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), fileID)
			if err := h.storageCli.UploadMedia(ctx, tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				thumbKey = &tk
			}
		}
	}

	media := &models.Media{
		Filename:     fileID + ext,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(fileBytes)),
		Bucket:       bucket,
		S3Key:        s3Key,
		ThumbS3Key:   thumbKey,
		UploaderID:   sess.UserID,
	}
	if alt := r.FormValue("alt_text"); alt != "" {
		media.AltText = &alt
	}

	created, err := h.mediaStore.Create(media)
	if err != nil {
		slog.Error("media db insert failed", "error", err, "key", s3Key)
		respondError(w, r, http.StatusInternalServerError, "failed to save file metadata")
		return
	}

	var url, thumbURL string
	if !private {
		url = h.storageCli.MediaURL(created.S3Key)
		if created.ThumbS3Key != nil {
			thumbURL = h.storageCli.MediaURL(*created.ThumbS3Key)
		}
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"id":        created.ID,
		"url":       url,
		"thumb_url": thumbURL,
		"filename":  created.OriginalName,
		"size":      created.HumanSize(),
		"type":      created.ContentType,
	})
}

// Delete serves DELETE /api/admin/media/{id}: removes the row and the
// stored objects.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if h.storageCli == nil {
		respondError(w, r, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid media id")
		return
	}

	// Delete from the database first; the returned row names the
	// objects to clean up.
	deleted, err := h.mediaStore.Delete(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if deleted == nil {
		respondError(w, r, http.StatusNotFound, "not found")
		return
	}

	// Object cleanup is best-effort.
	ctx := r.Context()
	remove := h.storageCli.DeleteMedia
	if deleted.Bucket == h.storageCli.PrivateBucket() {
		remove = h.storageCli.DeleteAttachment
	}
	if err := remove(ctx, deleted.S3Key); err != nil {
		slog.Warn("s3 delete failed", "error", err, "key", deleted.S3Key)
	}
	if deleted.ThumbS3Key != nil {
		if err := h.storageCli.DeleteMedia(ctx, *deleted.ThumbS3Key); err != nil {
			slog.Warn("s3 thumbnail delete failed", "error", err, "key", *deleted.ThumbS3Key)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// Serve serves GET /api/admin/media/{id}/url. Public files redirect to
// the bucket URL; private attachments get a time-limited presigned URL.
func (h *Media) Serve(w http.ResponseWriter, r *http.Request) {
	if h.storageCli == nil {
		respondError(w, r, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid media id")
		return
	}

	media, err := h.mediaStore.FindByID(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if media == nil {
		respondError(w, r, http.StatusNotFound, "not found")
		return
	}

	if media.Bucket == h.storageCli.MediaBucket() {
		http.Redirect(w, r, h.storageCli.MediaURL(media.S3Key), http.StatusFound)
		return
	}

	presigned, err := h.storageCli.AttachmentURL(r.Context(), media.S3Key, attachmentExpiry)
	if err != nil {
		slog.Error("presign failed", "error", err, "key", media.S3Key)
		respondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	http.Redirect(w, r, presigned, http.StatusFound)
}

// generateThumbnail creates a JPEG thumbnail constrained to maxWidth
// while preserving aspect ratio. Returns nil when the image is already
// small enough.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	seeker, ok := src.(io.Seeker)
	if !ok {
		return nil, fmt.Errorf("source does not support seeking")
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	case "application/epub+zip":
		return ".epub"
	default:
		return ""
	}
}
