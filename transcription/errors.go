package transcription

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why a transcript could not be produced.
type Kind int

const (
	KindFetchFailed Kind = iota
	KindDisabled
	KindNotFound
	KindUnavailable
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindDisabled:
		return "disabled"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindEmpty:
		return "empty"
	default:
		return "fetch_failed"
	}
}

type Error struct {
	Kind    Kind
	VideoID string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDisabled:
		return "Transcripts are disabled for this video"
	case KindNotFound:
		return "No transcript available for this video"
	case KindUnavailable:
		return "Video is unavailable or private"
	case KindEmpty:
		return "Transcript is empty"
	default:
		if e.Err != nil {
			return fmt.Sprintf("Transcript fetch failed: %v", e.Err)
		}
		return "Transcript fetch failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify turns any provider error into an *Error. Errors the provider already
// classified keep their kind.
func classify(videoID string, err error) *Error {
	var transcriptErr *Error
	if errors.As(err, &transcriptErr) {
		if transcriptErr.VideoID == "" {
			transcriptErr.VideoID = videoID
		}
		return transcriptErr
	}
	return &Error{Kind: KindFetchFailed, VideoID: videoID, Err: err}
}
