package handlers

import (
	"io"
	"net/http"
	"strings"
)

const maxUploadSize = 5 << 20

var uploadFolders = map[string]bool{
	"games":    true,
	"heroes":   true,
	"accounts": true,
}

type UploadResponse struct {
	URL string `json:"url"`
}

// Upload stores a multipart "file" image under the requested folder.
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large or malformed", http.StatusBadRequest)
		return
	}

	folder := strings.TrimSpace(r.FormValue("folder"))
	if folder == "" {
		folder = "accounts"
	}
	if !uploadFolders[folder] {
		http.Error(w, "Invalid folder", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		buf := make([]byte, 512)
		n, _ := file.Read(buf)
		contentType = http.DetectContentType(buf[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			http.Error(w, "Failed to read file", http.StatusBadRequest)
			return
		}
	}

	url, err := h.adminService.UploadImage(r.Context(), folder, contentType, file)
	if err != nil {
		adminError(w, r, "Upload", err)
		return
	}
	respondJSON(w, http.StatusCreated, UploadResponse{URL: url})
}
