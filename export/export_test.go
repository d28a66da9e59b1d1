package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	summary := "- point one\n- point two ✓ naïve"

	doc := Text(summary)

	assert.Equal(t, "video-summary.txt", doc.Filename)
	assert.True(t, strings.HasPrefix(doc.ContentType, "text/plain"))
	assert.True(t, bytes.Equal([]byte(summary), doc.Body))
}

func TestParagraphs(t *testing.T) {
	summary := "Overview of the talk\n\n- point one\n  -   point two  \nClosing thoughts\n   \n-"

	want := []Paragraph{
		{Text: "Overview of the talk"},
		{Text: "point one", Bullet: true},
		{Text: "point two", Bullet: true},
		{Text: "Closing thoughts"},
		{Text: "", Bullet: true},
	}

	if diff := cmp.Diff(want, Paragraphs(summary)); diff != "" {
		t.Errorf("Paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestParagraphs_Empty(t *testing.T) {
	assert.Empty(t, Paragraphs(""))
	assert.Empty(t, Paragraphs("\n \n\t"))
}

func readDocumentXML(t *testing.T, body []byte) string {
	t.Helper()

	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatal("word/document.xml not found in archive")
	return ""
}

func TestDocx(t *testing.T) {
	doc, err := Docx("Intro line\n- point one\n- point two\nOutro line")
	require.NoError(t, err)

	assert.Equal(t, "video-summary.docx", doc.Filename)
	assert.Equal(t, DocxContentType, doc.ContentType)

	xml := readDocumentXML(t, doc.Body)

	order := []string{"Video Summary", "Intro line", "point one", "point two", "Outro line"}
	last := -1
	for _, text := range order {
		idx := strings.Index(xml, text)
		require.GreaterOrEqual(t, idx, 0, "missing %q in document", text)
		assert.Greater(t, idx, last, "%q out of order", text)
		last = idx
	}
	assert.NotContains(t, xml, "- point one")
}

func TestDocx_BulletStyle(t *testing.T) {
	doc, err := Docx("- point one\nplain\n- point two")
	require.NoError(t, err)

	xml := readDocumentXML(t, doc.Body)

	// Styles are referenced by ID, and only ListBullet carries the numbering.
	assert.Equal(t, 2, strings.Count(xml, `<w:pStyle w:val="ListBullet"`))
	assert.Equal(t, 3, strings.Count(xml, "<w:pStyle "), "heading plus two bullets")
	assert.NotContains(t, xml, `w:val="List Bullet"`)
}
