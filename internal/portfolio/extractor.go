// Package portfolio parses the rendered dashboard table into Holding records.
package portfolio

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"fii-data/internal/model"
)

const (
	// Fields per record, in table column order starting at the ticker cell.
	fieldsPerRecord = 9

	// Fallback addressing over the flattened td list: first ticker cell and
	// distance between consecutive records. Matches the rendered layout of the
	// dashboard table; any layout change upstream breaks it, which is why the
	// structural row walk is tried first.
	fallbackOffset = 11
	fallbackStride = 10

	actionLinkText = "Ver relatórios"
)

// StructureError means the expected markup is absent entirely (no table body).
// Distinct from a table that is present but empty, which yields zero records.
type StructureError struct {
	Missing string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("portfolio: document has no %s element", e.Missing)
}

// Extract parses one rendered HTML document into the ordered holding list.
// Row boundaries are located structurally (one <tr> per record); when the
// table body carries no usable <tr> rows the fixed offset/stride heuristic
// over the flattened cell list is used instead. A malformed field aborts the
// whole extraction: partial-row recovery is not attempted.
func Extract(doc string) ([]model.Holding, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("portfolio: parse document: %w", err)
	}

	tbody := findFirst(root, "tbody")
	if tbody == nil {
		return nil, &StructureError{Missing: "tbody"}
	}

	records, ok, err := extractByRows(tbody)
	if err != nil {
		return nil, err
	}
	if ok {
		return records, nil
	}
	return extractByStride(tbody)
}

// extractByRows walks <tr> children and maps each data row to one record.
// A data row carries the 9 record cells, optionally preceded by one control
// cell (expand/checkbox column); anything narrower is a summary or measure
// row and is skipped. ok is false when no <tr> yielded a record, signalling
// the caller to fall back to positional addressing.
func extractByRows(tbody *html.Node) ([]model.Holding, bool, error) {
	var records []model.Holding
	for _, tr := range findAll(tbody, "tr") {
		cells := cellTexts(tr)
		var fields []string
		switch {
		case len(cells) == fieldsPerRecord:
			fields = cells
		case len(cells) == fieldsPerRecord+1:
			fields = cells[1:]
		default:
			continue
		}
		h, err := buildHolding(fields)
		if err != nil {
			return nil, false, err
		}
		records = append(records, h)
	}
	return records, len(records) > 0, nil
}

// extractByStride flattens every td under tbody and reads 9 cells per record
// at the fixed offset/stride. Running past the end of the cell list means
// "no more rows" and terminates quietly.
func extractByStride(tbody *html.Node) ([]model.Holding, error) {
	cells := cellTexts(tbody)
	var records []model.Holding
	for i := fallbackOffset; i+fieldsPerRecord <= len(cells); i += fallbackStride {
		h, err := buildHolding(cells[i : i+fieldsPerRecord])
		if err != nil {
			return nil, err
		}
		records = append(records, h)
	}
	return records, nil
}

// buildHolding maps 9 cell texts to one record, applying the repair rules for
// the fields the page renders mangled.
func buildHolding(c []string) (model.Holding, error) {
	inception, entryPrice, err := splitEntryCell(c[3])
	if err != nil {
		return model.Holding{}, err
	}
	current, err := repairCurrentPrice(c[4])
	if err != nil {
		return model.Holding{}, err
	}
	return model.Holding{
		Ticker:             strings.ReplaceAll(c[0], actionLinkText, ""),
		Sector:             c[1],
		ExpectedYield:      c[2],
		InceptionDate:      inception,
		AdjustedEntryPrice: entryPrice,
		CurrentPrice:       current,
		CeilingPrice:       c[5],
		Allocation:         c[6],
		Profitability:      c[7],
		Bias:               c[8],
	}, nil
}

// splitEntryCell takes the combined "<price><dd/mm/yyyy>" cell and returns
// the trailing 10-character date and the leading price remainder.
func splitEntryCell(s string) (date, price string, err error) {
	r := []rune(s)
	if len(r) < 10 {
		return "", "", fmt.Errorf("portfolio: entry cell %q shorter than a date", s)
	}
	return string(r[len(r)-10:]), string(r[:len(r)-10]), nil
}

// repairCurrentPrice rebuilds the current-price cell. The page concatenates a
// sign indicator onto the fractional part and appends a trailing marker, e.g.
// "R$ 101,39-▼" → "R$ 101,39". Everything before the first comma is kept, the
// fractional token loses its last character and any embedded minus.
func repairCurrentPrice(s string) (string, error) {
	whole, frac, found := strings.Cut(s, ",")
	if !found {
		return "", fmt.Errorf("portfolio: current price cell %q has no decimal separator", s)
	}
	if i := strings.Index(frac, ","); i >= 0 {
		frac = frac[:i]
	}
	if r := []rune(frac); len(r) > 0 {
		frac = string(r[:len(r)-1])
	}
	return whole + "," + strings.ReplaceAll(frac, "-", ""), nil
}

// findFirst returns the first element with the given tag, depth first.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant element with the given tag, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

// cellTexts flattens the text content of every td under n, in document order.
func cellTexts(n *html.Node) []string {
	tds := findAll(n, "td")
	out := make([]string, len(tds))
	for i, td := range tds {
		out[i] = nodeText(td)
	}
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
