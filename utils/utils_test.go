package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleError(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleError(rr, "Test error", http.StatusBadRequest)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %s", ct)
	}

	expected := `{"error":"Test error"}`
	if strings.TrimSpace(rr.Body.String()) != strings.TrimSpace(expected) {
		t.Errorf("handler returned unexpected body: got %v want %v", rr.Body.String(), expected)
	}
}

func TestCollapseLetterSpacing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"w ord", "word"},
		{"w w w", "www"},
		{"show me", "showme"},
		{"hello world", "hello world"},
		{"a b c", "a b c"},
		{"w  double", "w  double"},
		{"w .", "w ."},
		{"trailing w ", "trailing w "},
	}

	for _, tt := range tests {
		if got := collapseLetterSpacing(tt.input); got != tt.expected {
			t.Errorf("collapseLetterSpacing(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSpaceAfterPunctuation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"First.Second", "First. Second"},
		{"a,b,c", "a, b, c"},
		{"Wow!Really?Yes", "Wow! Really? Yes"},
		{"Already. Spaced", "Already. Spaced"},
		{"End.", "End."},
		{"Version 3.5", "Version 3. 5"},
		{"Ellipsis...next", "Ellipsis... next"},
		{"Ünicode.Ärger", "Ünicode. Ärger"},
	}

	for _, tt := range tests {
		if got := spaceAfterPunctuation(tt.input); got != tt.expected {
			t.Errorf("spaceAfterPunctuation(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeDashes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-item", "- item"},
		{"-   item", "- item"},
		{"- item", "- item"},
		{"-\titem", "- item"},
		{"well-known", "well- known"},
	}

	for _, tt := range tests {
		if got := normalizeDashes(tt.input); got != tt.expected {
			t.Errorf("normalizeDashes(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCleanText(t *testing.T) {
	input := "Summary:\n-First point.It matters\n-  Second point,really\nﬁnal ｗord"
	expected := "Summary:\n- First point. It matters\n- Second point, really\nfinal word"

	if got := CleanText(input); got != expected {
		t.Errorf("CleanText() = %q, want %q", got, expected)
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"- point one\n- point two",
		"-First.Second,third!Fourth?fifth",
		"Key ideas:\n-   alpha\n-beta.gamma",
		"No changes needed here.",
		"Mixed ｆｕｌｌｗｉｄｔｈ text.Next",
	}

	for _, input := range inputs {
		once := CleanText(input)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("CleanText not idempotent for %q: once %q, twice %q", input, once, twice)
		}
	}
}
