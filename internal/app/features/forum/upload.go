// internal/app/features/forum/upload.go

package forum

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

const maxUploadBytes = 25 << 20 // 25 MiB

// UploadAttachment handles POST /forum/attachments. The file lands in
// object storage; the response holds the attachment metadata a post
// creation request then embeds.
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	now := time.Now().UTC()
	key := fmt.Sprintf("posts/%04d/%02d/%s-%s",
		now.Year(), now.Month(), uuid.New().String()[:8], sanitizeFilename(header.Filename))

	if err := h.Files.Put(ctx, key, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.Log.Error("store attachment", zap.String("key", key), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	respond.JSON(w, http.StatusCreated, models.Attachment{
		FileName:    header.Filename,
		URL:         h.Files.URL(key),
		ContentType: contentType,
		Size:        header.Size,
		Backend:     models.BackendObjectStorage,
		ObjectKey:   key,
	})
}

// sanitizeFilename strips path components and characters that could be
// problematic in storage keys.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
