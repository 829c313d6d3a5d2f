// Package ocrtest provides fixtures for tests that exercise the OCR tools:
// minimal PDFs and shell-script stand-ins for pdftotext, gs and tesseract.
package ocrtest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PDF returns a structurally valid PDF with the given number of blank pages.
func PDF(pages int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := make([]string, 0, pages)
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", i+3))
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for range pages {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// WritePDF writes PDF(pages) to dir/name and returns its path.
func WritePDF(t testing.TB, dir, name string, pages int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, PDF(pages), 0644))
	return path
}

// WriteScript writes an executable /bin/sh script to dir/name.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

// Tools holds the paths of stub tool binaries.
type Tools struct {
	PdfToText   string
	Ghostscript string
	Tesseract   string
}

// DirectText is what the pdftotext stub prints.
const DirectText = "embedded text layer\n"

// PageText is what the gs and tesseract stubs produce for page n.
func PageText(n int) string {
	return fmt.Sprintf("recognized page %d", n)
}

const ghostscriptStub = `page=""
out=""
prev=""
for a in "$@"; do
	case "$a" in
		-dFirstPage=*) page="${a#-dFirstPage=}" ;;
	esac
	if [ "$prev" = "-o" ]; then
		out="$a"
	fi
	prev="$a"
done
printf 'recognized page %s' "$page" > "$out"
`

const tesseractStub = `if [ "$2" != "stdout" ]; then
	echo "expected stdout target" >&2
	exit 1
fi
cat "$1"
`

// StubTools installs deterministic stand-ins in a temp dir. The gs stub
// writes PageText(n) into its output file; the tesseract stub echoes the
// image file back, so OCR of page n yields PageText(n).
func StubTools(t testing.TB) Tools {
	t.Helper()
	dir := t.TempDir()
	return Tools{
		PdfToText:   WriteScript(t, dir, "pdftotext", "printf 'embedded text layer\\n'\n"),
		Ghostscript: WriteScript(t, dir, "gs", ghostscriptStub),
		Tesseract:   WriteScript(t, dir, "tesseract", tesseractStub),
	}
}
