package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

var (
	punctuationSpacing = regexp.MustCompile(`([.,!?])([\p{L}\p{N}_])`)
	dashSpacing        = regexp.MustCompile(`-\s*`)
)

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, map[string]string{"error": message})
}

func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}

// CleanText tidies model output: NFKC normalization, the letter-spacing fix,
// a space after sentence punctuation and "- " bullets. Rules run in order.
func CleanText(text string) string {
	text = norm.NFKC.String(text)
	text = collapseLetterSpacing(text)
	text = spaceAfterPunctuation(text)
	return normalizeDashes(text)
}

// collapseLetterSpacing drops a single space that follows a literal 'w' and
// precedes a word character, e.g. "w ord" becomes "word". Only 'w' triggers it.
func collapseLetterSpacing(text string) string {
	runes := []rune(text)
	var builder strings.Builder
	builder.Grow(len(text))
	for i, r := range runes {
		if r == ' ' && i > 0 && i+1 < len(runes) && runes[i-1] == 'w' && isWordChar(runes[i+1]) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func spaceAfterPunctuation(text string) string {
	return punctuationSpacing.ReplaceAllString(text, "$1 $2")
}

func normalizeDashes(text string) string {
	return dashSpacing.ReplaceAllString(text, "- ")
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
