package transcription

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

const DefaultMaxChars = 5000

// Fragment is one timed caption segment. Start and Duration are in seconds.
type Fragment struct {
	Text     string
	Start    float64
	Duration float64
}

type Provider interface {
	FetchFragments(ctx context.Context, videoID string) ([]Fragment, error)
}

// Cache stores finished transcripts by video ID.
type Cache interface {
	GetTranscript(ctx context.Context, videoID string) (string, bool, error)
	SetTranscript(ctx context.Context, videoID, text string) error
}

type TranscriptionService struct {
	provider Provider
	cache    Cache
	maxChars int
}

// NewTranscriptionService returns a service backed by provider. cache may be
// nil, and maxChars <= 0 selects DefaultMaxChars.
func NewTranscriptionService(provider Provider, cache Cache, maxChars int) *TranscriptionService {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &TranscriptionService{
		provider: provider,
		cache:    cache,
		maxChars: maxChars,
	}
}

// Fetch returns the joined and truncated transcript for videoID. Every failure
// is an *Error.
func (s *TranscriptionService) Fetch(ctx context.Context, videoID string) (string, error) {
	if text, ok := s.cached(ctx, videoID); ok {
		return text, nil
	}

	fragments, err := s.provider.FetchFragments(ctx, videoID)
	if err != nil {
		return "", classify(videoID, err)
	}

	transcript := JoinFragments(fragments)
	if strings.TrimSpace(transcript) == "" {
		return "", &Error{Kind: KindEmpty, VideoID: videoID}
	}
	transcript = Truncate(transcript, s.maxChars)

	logrus.WithFields(logrus.Fields{
		"video_id":  videoID,
		"fragments": len(fragments),
		"chars":     len([]rune(transcript)),
	}).Info("Fetched transcript")

	s.store(ctx, videoID, transcript)
	return transcript, nil
}

func (s *TranscriptionService) cached(ctx context.Context, videoID string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	text, ok, err := s.cache.GetTranscript(ctx, videoID)
	if err != nil {
		logrus.WithError(err).WithField("video_id", videoID).Warn("Failed to read transcript cache")
		return "", false
	}
	if ok {
		logrus.WithField("video_id", videoID).Info("Transcript found in cache")
	}
	return text, ok
}

func (s *TranscriptionService) store(ctx context.Context, videoID, text string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetTranscript(ctx, videoID, text); err != nil {
		logrus.WithError(err).WithField("video_id", videoID).Warn("Failed to save transcript to cache")
	}
}

// JoinFragments joins fragment texts with single spaces in the given order.
func JoinFragments(fragments []Fragment) string {
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	return strings.Join(texts, " ")
}

// Truncate keeps the first n characters of s. It may cut a word in half.
func Truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
