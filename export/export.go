package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/pkg/errors"
)

const (
	TextFilename    = "video-summary.txt"
	TextContentType = "text/plain; charset=utf-8"

	DocxFilename    = "video-summary.docx"
	DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	docxTitle     = "Video Summary"
	bulletStyleID = "ListBullet"
)

// Document is a rendered summary ready to be sent as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Paragraph is one line of a summary as it appears in a word document.
type Paragraph struct {
	Text   string
	Bullet bool
}

func Text(summary string) Document {
	return Document{
		Filename:    TextFilename,
		ContentType: TextContentType,
		Body:        []byte(summary),
	}
}

// Paragraphs splits summary into lines. Blank lines are dropped and lines
// starting with "-" become bullets without the dash.
func Paragraphs(summary string) []Paragraph {
	var paragraphs []Paragraph
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			paragraphs = append(paragraphs, Paragraph{
				Text:   strings.TrimSpace(strings.TrimPrefix(trimmed, "-")),
				Bullet: true,
			})
			continue
		}
		paragraphs = append(paragraphs, Paragraph{Text: trimmed})
	}
	return paragraphs
}

// Docx renders summary as a word document with a "Video Summary" heading.
// Bullet paragraphs use the template's ListBullet style, which carries the
// list numbering.
func Docx(summary string) (Document, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return Document{}, errors.Wrap(err, "creating document")
	}

	if _, err := doc.AddHeading(docxTitle, 1); err != nil {
		return Document{}, errors.Wrap(err, "adding heading")
	}

	for _, p := range Paragraphs(summary) {
		para := doc.AddParagraph(p.Text)
		if p.Bullet {
			para.Style(bulletStyleID)
		}
	}

	dir, err := os.MkdirTemp("", "yt-summary-")
	if err != nil {
		return Document{}, errors.Wrap(err, "creating temp dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, DocxFilename)
	if err := doc.SaveTo(path); err != nil {
		return Document{}, errors.Wrap(err, "saving document")
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "reading document")
	}

	return Document{
		Filename:    DocxFilename,
		ContentType: DocxContentType,
		Body:        body,
	}, nil
}
