package resumes

import (
	"bytes"
	"fmt"
	"testing"
)

// minimalPDF builds a well-formed PDF with the given number of blank pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [ %s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		writeObj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	xrefAt := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefAt)
	return buf.Bytes()
}

func TestSniffPDF(t *testing.T) {
	if !sniffPDF(minimalPDF(1)) {
		t.Fatalf("expected generated document to sniff as PDF")
	}
	if sniffPDF([]byte("PK\x03\x04 this is a zip")) {
		t.Fatalf("expected zip not to sniff as PDF")
	}
	if sniffPDF([]byte("hello world")) {
		t.Fatalf("expected text not to sniff as PDF")
	}
}

func TestCountPages(t *testing.T) {
	if got := countPages(minimalPDF(2)); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
	if got := countPages([]byte("%PDF-1.4\ngarbage")); got != 0 {
		t.Fatalf("expected 0 for malformed pdf, got %d", got)
	}
	if got := countPages(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %d", got)
	}
}
