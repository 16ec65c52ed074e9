package adapters

import (
	"fmt"
	"io"
	"strings"

	"generate-lecture-service/application/ports/outbound"
	"github.com/ledongthuc/pdf"
)

// pdfExtractor pulls plain text out of an uploaded PDF, page by page, with
// page breaks preserved as paragraph breaks.
type pdfExtractor struct {
	logger outbound.LoggerPort
}

func NewPdfExtractor(logger outbound.LoggerPort) outbound.TranscriptExtractorPort {
	return &pdfExtractor{
		logger: logger,
	}
}

func (p *pdfExtractor) Extract(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		p.logger.Error(err, "Failed to open PDF")
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	pageCount := reader.NumPage()
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.ErrorWithFields(err, "Failed to extract page text", map[string]interface{}{
				"page": pageNum,
			})
			return "", fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	extracted := strings.TrimSpace(builder.String())
	if extracted == "" {
		return "", fmt.Errorf("PDF contains no extractable text")
	}

	p.logger.DebugWithFields("Extracted PDF text", map[string]interface{}{
		"pages": pageCount,
		"chars": len(extracted),
	})

	return extracted, nil
}
