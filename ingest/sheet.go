package ingest

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetSpec describes how one upload variant maps spreadsheet columns to
// canonical field names. Source headers are matched after normalization, so
// inconsistent spacing and casing in real-world files do not break uploads.
type SheetSpec struct {
	// SheetName is the required worksheet; empty means the first sheet.
	SheetName string
	// ColumnMap maps normalized source headers to canonical field names.
	// Every source header listed here is required.
	ColumnMap map[string]string
	// NumericColumns are canonical fields coerced to numbers. Cells that fail
	// coercion become absent instead of failing the upload.
	NumericColumns []string
}

// CampaignSheet is the column layout of campaign upload spreadsheets.
var CampaignSheet = SheetSpec{
	ColumnMap: map[string]string{
		"CÓDIGO DE BARRAS":  "barcode",
		"DESCRIÇÃO":         "description",
		"PONTUAÇÃO":         "score",
		"PREÇO NORMAL":      "normal_price",
		"PREÇO COM DESCONTO": "discount_price",
		"REBAIXE":           "markdown",
		"QTD LIMITE":        "quantity_limit",
	},
	NumericColumns: []string{"score", "normal_price", "discount_price", "markdown", "quantity_limit"},
}

// CircularSheet is the column layout of circular upload spreadsheets, read
// from the mandatory "Todos" worksheet.
var CircularSheet = SheetSpec{
	SheetName: "Todos",
	ColumnMap: map[string]string{
		"GTIN":                    "barcode",
		"DESCRIÇÃO":               "description",
		"LABORATÓRIO":             "laboratory",
		"TIPO DE PREÇO":           "price_type",
		"PREÇO NORMAL":            "normal_price",
		"PREÇO DESCONTO GERAL":    "discount_price",
		"PREÇO DESCONTO CLIENTE+": "client_discount_price",
		"PREÇO APP":               "app_price",
		"TIPO DE REGRA":           "rule_type",
	},
	NumericColumns: []string{"normal_price", "discount_price", "client_discount_price", "app_price"},
}

// ParseError marks upload problems caused by the file itself (unreadable
// workbook, missing sheet, missing columns). Handlers report these as client
// errors rather than server failures.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string {
	return e.msg
}

func parseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	spaceBeforePlus = regexp.MustCompile(`\s\+`)
)

// NormalizeHeader collapses repeated whitespace, drops spaces immediately
// before a '+', trims, and uppercases, so that headers like " Preço  desconto
// cliente +" still match their expected form.
func NormalizeHeader(header string) string {
	normalized := whitespaceRun.ReplaceAllString(header, " ")
	normalized = spaceBeforePlus.ReplaceAllString(normalized, "+")
	return strings.ToUpper(strings.TrimSpace(normalized))
}

// Row is one parsed spreadsheet row keyed by canonical field name. Blank
// cells and failed numeric coercions are absent, never sentinel values.
type Row struct {
	text    map[string]*string
	numbers map[string]*float64
}

// Text returns the trimmed cell value for a canonical field, or nil.
func (r Row) Text(key string) *string {
	return r.text[key]
}

// Number returns the coerced numeric value for a canonical field, or nil.
func (r Row) Number(key string) *float64 {
	return r.numbers[key]
}

// Int returns the coerced numeric value truncated to an int, or nil.
func (r Row) Int(key string) *int {
	f := r.numbers[key]
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

func (r Row) empty() bool {
	for _, v := range r.text {
		if v != nil {
			return false
		}
	}
	for _, v := range r.numbers {
		if v != nil {
			return false
		}
	}
	return true
}

// parseNumber coerces a cell to a float. Decimal commas are accepted because
// the source spreadsheets are pt-BR exports.
func parseNumber(cell string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(cell, ",", "."))
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ReadRows parses the spec's worksheet into canonical rows. Missing required
// columns abort the whole read with an error naming them; fully blank rows
// are dropped.
func ReadRows(r io.Reader, spec SheetSpec) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, parseErrorf("could not read spreadsheet: %v", err)
	}
	defer f.Close()

	sheetName := spec.SheetName
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rawRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, parseErrorf("worksheet %q not found in spreadsheet", sheetName)
	}
	if len(rawRows) == 0 {
		return nil, nil
	}

	numeric := make(map[string]bool, len(spec.NumericColumns))
	for _, col := range spec.NumericColumns {
		numeric[col] = true
	}

	// Map canonical field -> column index via normalized headers.
	colIndex := make(map[string]int, len(spec.ColumnMap))
	for i, header := range rawRows[0] {
		if canonical, ok := spec.ColumnMap[NormalizeHeader(header)]; ok {
			if _, seen := colIndex[canonical]; !seen {
				colIndex[canonical] = i
			}
		}
	}

	var missing []string
	for source, canonical := range spec.ColumnMap {
		if _, ok := colIndex[canonical]; !ok {
			missing = append(missing, source)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, parseErrorf("spreadsheet is missing required columns: %s", strings.Join(missing, ", "))
	}

	rows := make([]Row, 0, len(rawRows)-1)
	for _, rawRow := range rawRows[1:] {
		row := Row{
			text:    make(map[string]*string),
			numbers: make(map[string]*float64),
		}
		for canonical, idx := range colIndex {
			var cell string
			if idx < len(rawRow) {
				cell = rawRow[idx]
			}
			if numeric[canonical] {
				row.numbers[canonical] = parseNumber(cell)
				continue
			}
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				row.text[canonical] = nil
			} else {
				row.text[canonical] = &trimmed
			}
		}
		if row.empty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
