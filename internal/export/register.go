package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"veridoc/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row of the document register.
var columns = []string{
	"Document Number",
	"Title",
	"Current Version",
	"Category",
	"Security Class",
	"Risk Class",
	"Workflow Status",
	"Current Step",
	"Total Steps",
	"Tags",
	"Change Control ID",
	"Effective Date",
	"Next Issue Date",
	"Attachment Count",
	"Created At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting the document register as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the register header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments converts a batch of document records to CSV rows and writes them.
func (w *Writer) WriteDocuments(docs []domain.DocumentRecord) error {
	for i := range docs {
		row := documentToRow(&docs[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// documentToRow converts a single document record to a register row.
func documentToRow(doc *domain.DocumentRecord) []string {
	row := make([]string, len(columns))

	row[0] = doc.DocumentNumber
	row[1] = doc.Title
	row[2] = doc.CurrentVersion
	row[3] = doc.Category
	row[4] = doc.SecurityClass
	row[5] = string(doc.RiskClass)
	row[6] = string(doc.Workflow.Status)
	row[7] = strconv.Itoa(doc.Workflow.CurrentStepIndex + 1)
	if doc.Workflow.CurrentStepIndex >= len(doc.Workflow.Steps) {
		// Completed workflows have no step in flight.
		row[7] = ""
	}
	row[8] = strconv.Itoa(len(doc.Workflow.Steps))
	row[9] = strings.Join(doc.Tags, "; ")
	row[10] = doc.ChangeControlID
	row[11] = formatTime(doc.EffectiveDate)
	row[12] = formatTime(doc.NextIssueDate)
	row[13] = strconv.Itoa(len(doc.Attachments))
	row[14] = doc.CreatedAt.Format(time.RFC3339)
	row[15] = doc.UpdatedAt.Format(time.RFC3339)

	return row
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
