package validation

import (
	"regexp"
)

var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

type ValidationError struct {
	Message string
	Input   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExtractVideoID returns the 11 character video ID following a "v=" query
// parameter or a "youtu.be/" path. The URL is not otherwise normalized.
func ExtractVideoID(rawURL string) (string, error) {
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", &ValidationError{Message: "Invalid YouTube URL format", Input: rawURL}
	}
	return match[1], nil
}
