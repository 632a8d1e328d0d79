package testutil

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/require"
)

// WriteTestFile writes content to path, creating parent directories. It uses
// require assertions for test setup.
func WriteTestFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// WriteTestImage writes a solid-color image of the given dimensions to path.
// The encoded format follows the path extension.
func WriteTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := imaging.New(width, height, color.NRGBA{R: 40, G: 120, B: 200, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

// WriteTestDocx writes a DOCX document to path with one paragraph per entry
// in lines. Empty entries become empty paragraphs.
func WriteTestDocx(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	w := docx.New().WithDefaultTheme()
	for _, line := range lines {
		para := w.AddParagraph()
		if line != "" {
			para.AddText(line)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = w.WriteTo(f)
	require.NoError(t, err)
}

// WriteTestPDF writes a minimal but structurally valid PDF to path with one
// page per entry in pageTexts. An empty entry produces a page with no text.
func WriteTestPDF(t *testing.T, path string, pageTexts ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buildPDF(pageTexts), 0o644))
}

// buildPDF assembles the PDF byte stream by hand, tracking object offsets so
// the cross reference table stays accurate.
func buildPDF(pageTexts []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	numObjs := 3 + 2*len(pageTexts)
	offsets := make([]int, numObjs+1)

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := ""
	for i := range pageTexts {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pageTexts)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pageTexts {
		pageNum := 4 + 2*i
		contentNum := pageNum + 1
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentNum))
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapePDFString(text))
		}
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", numObjs+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= numObjs; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", numObjs+1, xrefStart)
	return buf.Bytes()
}

func escapePDFString(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			out.WriteByte('\\')
			out.WriteRune(r)
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
