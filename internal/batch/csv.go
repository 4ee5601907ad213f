package batch

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/surveylens/brandcheck/internal/model"
)

// LoadCSV reads batch items from a CSV file with a header row. Recognized
// columns: text (required), language_code, category, images (pipe-separated
// URLs). Unknown columns are ignored so analysts can keep their own notes
// in the file.
func LoadCSV(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["text"]; !ok {
		return nil, eris.New("batch: csv is missing required column \"text\"")
	}

	var items []Item
	row := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "batch: read row %d", row+1)
		}
		row++

		req := model.ResponseRequest{
			Text:         field(record, cols, "text"),
			LanguageCode: field(record, cols, "language_code"),
			Category:     field(record, cols, "category"),
		}
		if images := field(record, cols, "images"); images != "" {
			for _, u := range strings.Split(images, "|") {
				if u = strings.TrimSpace(u); u != "" {
					req.Images = append(req.Images, u)
				}
			}
		}
		items = append(items, Item{Row: row, Request: req})
	}
	return items, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
