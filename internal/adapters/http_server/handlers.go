package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"reelmap/internal/app"
	"reelmap/internal/domain"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type placesResponse struct {
	SourceShortcode string                `json:"source_shortcode"`
	Count           int                   `json:"count"`
	Places          []domain.MatchedPlace `json:"places"`
}

var shortcodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reels/{shortcode}/places", h.listPlaces)
	s.mux.Get("/v1/reels/{shortcode}/places/{placeID}", h.getPlace)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeLookupError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
		return
	}
	log.Error().Err(err).Msg("lookup failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) listPlaces(w http.ResponseWriter, r *http.Request) {
	sc := chi.URLParam(r, "shortcode")
	if !shortcodeRe.MatchString(sc) {
		writeProblem(w, http.StatusBadRequest, "Invalid shortcode", "shortcode must match [A-Za-z0-9_-]+")
		return
	}
	ms, err := h.Q.ListPlaces(r.Context(), sc)
	if err != nil {
		writeLookupError(w, err, "reel")
		return
	}
	writeCached(w, r, placesResponse{SourceShortcode: sc, Count: len(ms), Places: ms})
}

func (h *Handlers) getPlace(w http.ResponseWriter, r *http.Request) {
	sc := chi.URLParam(r, "shortcode")
	if !shortcodeRe.MatchString(sc) {
		writeProblem(w, http.StatusBadRequest, "Invalid shortcode", "shortcode must match [A-Za-z0-9_-]+")
		return
	}
	mp, err := h.Q.GetPlace(r.Context(), sc, chi.URLParam(r, "placeID"))
	if err != nil {
		writeLookupError(w, err, "place")
		return
	}
	writeCached(w, r, mp)
}
