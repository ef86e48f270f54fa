package quote

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultName is used when the requested file name is blank
const DefaultName = "Estimate.pdf"

// NormalizeName makes sure a file name ends in .pdf.
// "quote" becomes "quote.pdf", "Quote.PDF" is kept as is and "" becomes DefaultName.
// Directory parts are dropped so the name is always a single path element.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == "/" {
		return DefaultName
	}
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}

// DefaultFileName suggests "Estimate-{client}-{YYYY-MM-DD}.pdf", using "Client" when no name is set
func DefaultFileName(clientName string, date time.Time) string {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		clientName = "Client"
	}
	clientName = strings.NewReplacer("/", "-", "\\", "-").Replace(clientName)
	return "Estimate-" + clientName + "-" + date.Format("2006-01-02") + ".pdf"
}
