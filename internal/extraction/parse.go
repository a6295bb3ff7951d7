package extraction

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"savor/internal/common"
	"savor/internal/llm"
	"savor/internal/models"
)

// Format identifies which reply shape the model produced.
type Format int

const (
	FormatJSON Format = iota + 1
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	}
	return "unknown"
}

// csvColumns is the fixed CSV layout: name,category,quantity,unit,price,expiration_date.
const csvColumns = 6

// jsonRow is one element of a JSON reply. Quantity and price arrive as
// numbers or strings depending on the model; the date key has two spellings.
type jsonRow struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Quantity       json.RawMessage `json:"quantity"`
	Unit           string          `json:"unit"`
	Price          json.RawMessage `json:"price"`
	ExpDate        *string         `json:"expDate"`
	ExpirationDate *string         `json:"expiration_date"`
}

// reply is the tagged union of the reply shapes we accept. Exactly one of
// jsonRows or csvRecords is set, according to format.
type reply struct {
	format     Format
	jsonRows   []json.RawMessage
	csvRecords [][]string
	dropped    int
}

// Result is the normalized output of Parse.
type Result struct {
	Format  Format
	Items   []models.RawLineItem
	Dropped int
}

// Parse normalizes a raw model reply into line items. Malformed rows are
// counted in Dropped and skipped; they never fail the batch.
func Parse(text string) Result {
	r := decode(llm.StripFences(text))

	res := Result{Format: r.format, Dropped: r.dropped, Items: []models.RawLineItem{}}

	switch r.format {
	case FormatJSON:
		for _, raw := range r.jsonRows {
			var row jsonRow
			if err := json.Unmarshal(raw, &row); err != nil {
				res.Dropped++
				continue
			}
			item, ok := row.normalize()
			if !ok {
				res.Dropped++
				continue
			}
			res.Items = append(res.Items, item)
		}
	case FormatCSV:
		for _, rec := range r.csvRecords {
			item, ok := normalizeRecord(rec)
			if !ok {
				res.Dropped++
				continue
			}
			res.Items = append(res.Items, item)
		}
	}

	return res
}

func decode(text string) reply {
	if rows, dropped, ok := decodeJSON(text); ok {
		return reply{format: FormatJSON, jsonRows: rows, dropped: dropped}
	}
	records, dropped := decodeCSV(text)
	return reply{format: FormatCSV, csvRecords: records, dropped: dropped}
}

// decodeJSON accepts a bare array, an {"items": [...]} envelope, or an array
// embedded in surrounding prose. A damaged array is salvaged object by object;
// the number of unrecoverable objects is returned as dropped.
func decodeJSON(text string) (rows []json.RawMessage, dropped int, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, 0, false
	}

	if err := json.Unmarshal([]byte(trimmed), &rows); err == nil {
		return rows, 0, true
	}

	var envelope struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil && envelope.Items != nil {
		return envelope.Items, 0, true
	}

	start := strings.IndexByte(trimmed, '[')
	if start == -1 {
		return nil, 0, false
	}
	if span, err := llm.ExtractJSON(trimmed, '[', ']'); err == nil {
		if err := json.Unmarshal([]byte(span), &rows); err == nil {
			return rows, 0, true
		}
	}

	objs, abandoned := splitObjects(trimmed[start:])
	for _, obj := range objs {
		rows = append(rows, json.RawMessage(obj))
	}
	return rows, abandoned, len(rows) > 0
}

// splitObjects returns each {...} span in text. Rows are flat objects, so a
// '{' inside an open object means the open one was damaged and is abandoned.
// A newline always ends a string literal, which keeps one unterminated
// string from swallowing the following rows.
func splitObjects(text string) (objs []string, abandoned int) {
	var (
		start    = -1
		inString bool
		escaped  bool
	)

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\n' {
			inString, escaped = false, false
		}
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			if start >= 0 {
				abandoned++
			}
			start = i
		case '}':
			if start >= 0 {
				objs = append(objs, text[start:i+1])
				start = -1
			}
		}
	}
	if start >= 0 {
		abandoned++
	}
	return objs, abandoned
}

func decodeCSV(text string) ([][]string, int) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	var (
		records [][]string
		dropped int
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			dropped++
			continue
		}
		if isHeader(rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

func isHeader(rec []string) bool {
	switch strings.ToLower(strings.TrimSpace(rec[0])) {
	case "name", "item_name", "item":
		return true
	}
	return false
}

func (row jsonRow) normalize() (models.RawLineItem, bool) {
	date := row.ExpirationDate
	if date == nil {
		date = row.ExpDate
	}

	quantity, unitHint := parseQuantity(rawScalar(row.Quantity))
	return build(row.Name, row.Category, quantity, unitHint, row.Unit, parsePrice(rawScalar(row.Price)), deref(date))
}

func normalizeRecord(rec []string) (models.RawLineItem, bool) {
	if len(rec) != csvColumns {
		return models.RawLineItem{}, false
	}
	quantity, unitHint := parseQuantity(rec[2])
	return build(rec[0], rec[1], quantity, unitHint, rec[3], parsePrice(rec[4]), rec[5])
}

func build(name, category string, quantity float64, unitHint, unit string, price float64, date string) (models.RawLineItem, bool) {
	name = strings.TrimSpace(name)
	if name == "" || isNonFood(name) {
		return models.RawLineItem{}, false
	}

	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = unitHint
	}
	if unit == "" {
		unit = string(models.UnitCount)
	}

	return models.RawLineItem{
		Name:           name,
		Category:       strings.ToLower(strings.TrimSpace(category)),
		Quantity:       quantity,
		Unit:           unit,
		Price:          price,
		ExpirationDate: cleanDate(date),
	}, true
}

// rawScalar turns a JSON number or string into its text form.
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// parseQuantity reads a leading number and an optional trailing unit,
// e.g. "2 lbs" or "1.5kg". Missing or non-positive amounts become 1.
func parseQuantity(s string) (float64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, ""
	}

	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	if end == -1 {
		end = len(s)
	}

	q, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || q <= 0 {
		return 1, ""
	}
	return q, strings.TrimSpace(s[end:])
}

// parsePrice accepts plain or currency-prefixed amounts. Anything else is 0.
func parsePrice(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p < 0 {
		return 0
	}
	return p
}

// cleanDate keeps only a well-formed YYYY-MM-DD date; anything else is absent.
func cleanDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(common.DateLayout, s); err != nil {
		return ""
	}
	return s
}

var nonFoodNames = map[string]struct{}{
	"tax": {}, "sales tax": {}, "subtotal": {}, "total": {}, "balance due": {},
	"bag": {}, "bags": {}, "bag fee": {}, "bag charge": {}, "bottle deposit": {}, "deposit": {},
	"discount": {}, "coupon": {}, "change": {}, "cash": {},
}

func isNonFood(name string) bool {
	_, ok := nonFoodNames[strings.ToLower(name)]
	return ok
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
