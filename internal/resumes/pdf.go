package resumes

import (
	"bytes"
	"net/http"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

// sniffPDF reports whether data carries a PDF signature, whatever the client declared.
func sniffPDF(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head) == mimePDF
}

// countPages returns the page count of a PDF, or 0 when the document cannot
// be parsed. The parser panics on some malformed inputs.
func countPages(data []byte) (pages int) {
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}
