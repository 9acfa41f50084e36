package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kpi-audit/backend/internal/kpi"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns a fetched or uploaded payload into parser input. HTML pages
// are reduced to their first table; anything else is treated as CSV text.
// Call it once, where the raw bytes enter the program.
func Decode(body []byte, contentType string) (string, error) {
	body = bytes.TrimPrefix(body, utf8BOM)

	if isHTML(body, contentType) {
		return tableToCSV(body)
	}

	return string(body), nil
}

// StripBOM removes a leading UTF-8 byte order mark from text that is
// already known to be CSV.
func StripBOM(text string) string {
	return strings.TrimPrefix(text, string(utf8BOM))
}

// isHTML trusts a declared content type. The body is only sniffed when the
// type is missing or generic.
func isHTML(body []byte, contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "", "application/octet-stream":
		trimmed := bytes.TrimSpace(body)
		return len(trimmed) > 0 && trimmed[0] == '<'
	default:
		return strings.Contains(mediaType, "html")
	}
}

func tableToCSV(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", &kpi.ParseError{Msg: fmt.Sprintf("failed to read HTML document: %v", err)}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return "", &kpi.ParseError{Msg: "HTML document contains no table"}
	}

	var header []string
	var rows [][]string

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		headerCells := tr.Find("th")
		if header == nil && headerCells.Length() > 0 {
			header = cellTexts(headerCells)
			return
		}

		cells := cellTexts(tr.Find("td"))
		if len(cells) == 0 {
			return
		}
		if header == nil {
			header = cells
			return
		}
		rows = append(rows, cells)
	})

	if header == nil {
		return "", &kpi.ParseError{Msg: "HTML table has no rows"}
	}

	return kpi.EncodeRows(header, rows), nil
}

func cellTexts(sel *goquery.Selection) []string {
	cells := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		cells = append(cells, strings.Join(strings.Fields(s.Text()), " "))
	})
	return cells
}
