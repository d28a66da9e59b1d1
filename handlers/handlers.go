package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/export"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/summary"
	"github.com/nijaru/yt-summary/transcription"
	"github.com/nijaru/yt-summary/utils"
	"github.com/nijaru/yt-summary/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 1 << 20

type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

type Handler struct {
	transcripts TranscriptFetcher
	summarizer  Summarizer
	rateLimiter *rate.Limiter
	staticDir   string
}

// New builds the HTTP handlers. A non-positive cfg.RateLimit disables rate
// limiting.
func New(cfg *config.Config, transcripts TranscriptFetcher, summarizer Summarizer) *Handler {
	h := &Handler{
		transcripts: transcripts,
		summarizer:  summarizer,
		staticDir:   cfg.StaticDir,
	}
	if cfg.RateLimit > 0 {
		h.rateLimiter = rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit)
	}
	return h
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Index)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/api/summarize", h.Summarize)
	mux.HandleFunc("/api/download_txt", h.DownloadText)
	mux.HandleFunc("/api/download_doc", h.DownloadDoc)
	return mux
}

func requestLogger(r *http.Request) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": middleware.RequestIDFromContext(r.Context()),
	})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type summarizeRequest struct {
	URL string `json:"url"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type downloadRequest struct {
	Summary string `json:"summary"`
}

func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	log.Info("Received request")

	if r.Method != http.MethodPost {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req summarizeRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.URL) == "" {
		log.WithError(err).Warn("Missing YouTube URL")
		utils.HandleError(w, "No YouTube URL provided", http.StatusBadRequest)
		return
	}

	if h.rateLimiter != nil && !h.rateLimiter.Allow() {
		log.WithField("url", req.URL).Warn("Rate limit exceeded")
		utils.HandleError(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	videoID, err := validation.ExtractVideoID(req.URL)
	if err != nil {
		log.WithError(err).WithField("url", req.URL).Warn("URL validation failed")
		utils.HandleError(w, err.Error(), http.StatusBadRequest)
		return
	}
	log = log.WithField("video_id", videoID)

	text, err := h.summarizeVideo(r.Context(), videoID)
	if err != nil {
		handleSummarizeError(w, log, err)
		return
	}

	log.Info("Summary generation successful")
	utils.WriteJSON(w, http.StatusOK, summarizeResponse{Summary: text})
}

func (h *Handler) summarizeVideo(ctx context.Context, videoID string) (string, error) {
	transcript, err := h.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return "", err
	}

	raw, err := h.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return "", err
	}

	return utils.CleanText(raw), nil
}

func handleSummarizeError(w http.ResponseWriter, log *logrus.Entry, err error) {
	var transcriptErr *transcription.Error
	var apiErr *summary.APIError

	switch {
	case errors.As(err, &transcriptErr):
		log = log.WithError(err).WithField("kind", transcriptErr.Kind)
		switch transcriptErr.Kind {
		case transcription.KindDisabled, transcription.KindNotFound, transcription.KindUnavailable, transcription.KindEmpty:
			log.Warn("Transcript unavailable")
		case transcription.KindFetchFailed:
			log.Error("Transcript fetch failed")
		default:
			log.Error("Unknown transcript error")
		}
	case errors.As(err, &apiErr):
		log.WithError(err).WithField("status", apiErr.StatusCode).Error("Summarization failed")
	default:
		log.WithError(err).Error("Request failed")
	}

	utils.HandleError(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) DownloadText(w http.ResponseWriter, r *http.Request) {
	req, ok := readDownloadRequest(w, r)
	if !ok {
		return
	}
	writeAttachment(w, export.Text(req.Summary))
}

func (h *Handler) DownloadDoc(w http.ResponseWriter, r *http.Request) {
	req, ok := readDownloadRequest(w, r)
	if !ok {
		return
	}

	doc, err := export.Docx(utils.CleanText(req.Summary))
	if err != nil {
		requestLogger(r).WithError(err).Error("Failed to render document")
		utils.HandleError(w, "Failed to generate document", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, doc)
}

func readDownloadRequest(w http.ResponseWriter, r *http.Request) (downloadRequest, bool) {
	var req downloadRequest
	if r.Method != http.MethodPost {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return req, false
	}
	if err := decodeJSON(w, r, &req); err != nil {
		requestLogger(r).WithError(err).Warn("Invalid download request")
		utils.HandleError(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return errors.Wrap(err, "decoding request body")
	}
	return nil
}

func writeAttachment(w http.ResponseWriter, doc export.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		logrus.WithError(err).WithField("filename", doc.Filename).Error("Failed to write attachment")
	}
}
