package server

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/blake2b"

	"github.com/kamal-hamza/lumi-cli/internal/core/domain"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
)

type imageListResponse struct {
	Root   string             `json:"root"`
	Total  int                `json:"total"`
	Images []domain.ImageFile `json:"images"`
}

type openDocumentRequest struct {
	Name string `json:"name"`
}

type setPropertyRequest struct {
	Value *int `json:"value"`
}

type documentResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Width              int               `json:"width"`
	Height             int               `json:"height"`
	HasEdits           bool              `json:"has_edits"`
	OriginalBrightness int               `json:"original_brightness"`
	EditedBrightness   int               `json:"edited_brightness"`
	Properties         []domain.Property `json:"properties"`
	OpenedAt           time.Time         `json:"opened_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.list.Execute(r.Context(), services.ListRequest{
		ExtFilter: q.Get("ext"),
		SortBy:    q.Get("sort"),
		Reverse:   q.Get("reverse") == "1" || q.Get("reverse") == "true",
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, imageListResponse{
		Root:   resp.Root,
		Total:  resp.Total,
		Images: resp.Images,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.List()
	out := make([]documentResponse, 0, len(sessions))
	for _, sess := range sessions {
		resp, err := s.describe(sess)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, *resp)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOpenDocument(w http.ResponseWriter, r *http.Request) {
	var req openDocumentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, bodyStatus(err), errors.New("invalid JSON body"))
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	file, err := s.list.Resolve(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	sess, err := s.sessions.Open(r.Context(), file.Path)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp, err := s.describe(sess)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	resp, err := s.describe(sess)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.sessions.Close(id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetProperty(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	id, err := domain.ParsePropertyID(mux.Vars(r)["property"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req setPropertyRequest
	if err := decodeBody(w, r, &req); err != nil || req.Value == nil {
		s.writeError(w, bodyStatus(err), errors.New(`body must be {"value": <int>}`))
		return
	}

	if err := s.docs.SetProperty(sess.Document, id, *req.Value); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp, err := s.describe(sess)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetEdits(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.docs.Reset(sess.Document)

	resp, err := s.describe(sess)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var img image.Image = sess.Document.Edited()
	if r.URL.Query().Get("original") == "1" {
		img = sess.Document.Original()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	etag := ETag(buf.Bytes())
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Printf("image %s: %v", sess.ID, err)
	}
}

// ETag returns a strong entity tag for body
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	sess, err := s.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) describe(sess *services.Session) (*documentResponse, error) {
	stats, err := s.docs.Stats(sess.Document)
	if err != nil {
		return nil, err
	}
	return &documentResponse{
		ID:                 sess.ID,
		Name:               sess.Document.Name,
		Width:              stats.Width,
		Height:             stats.Height,
		HasEdits:           stats.HasEdits,
		OriginalBrightness: stats.OriginalBrightness,
		EditedBrightness:   stats.EditedBrightness,
		Properties:         sess.Document.Properties(),
		OpenedAt:           sess.OpenedAt,
	}, nil
}

// maxBodyBytes bounds JSON request bodies; every request type is a few dozen bytes
const maxBodyBytes = 4 << 10

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// bodyStatus maps a decodeBody error to 413 for oversized bodies, 400 otherwise
func bodyStatus(err error) int {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownProperty):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrImageUnavailable), errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
