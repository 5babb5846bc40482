package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const maxUploadSize = 10 << 20 // 10 MB

// handleUpload accepts a .md or .txt report as multipart form data, analyzes
// it and stores it like a JSON submission.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit upload size
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	// Parse multipart form
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	// Validate file extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".md" && ext != ".txt" {
		respondError(w, http.StatusBadRequest, "only .md and .txt files are allowed")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	if !utf8.Valid(content) {
		respondError(w, http.StatusBadRequest, "file must be UTF-8 text")
		return
	}

	text := string(content)
	if ext == ".md" {
		text = extractReportText(text)
	}

	if strings.TrimSpace(text) == "" {
		respondError(w, http.StatusBadRequest, "file contains no text")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	s.storeReport(w, r, title, text)
}
