package batch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/surveylens/brandcheck/internal/model"
)

// WriteReport writes per-item results and a summary sheet to an XLSX file
// for analyst review.
func WriteReport(path string, results []Result, summary Summary) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Decisions")
	if err != nil {
		return eris.Wrap(err, "batch: add decisions sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Row", "Text", "Action", "Confidence %", "Rule", "Human Review", "Risk Factors", "Cached", "Error"} {
		header.AddCell().Value = h
	}

	for _, res := range results {
		row := sheet.AddRow()
		row.AddCell().Value = strconv.Itoa(res.Item.Row)
		row.AddCell().Value = res.Item.Request.Text

		if res.Err != nil {
			for i := 0; i < 6; i++ {
				row.AddCell()
			}
			row.AddCell().Value = res.Err.Error()
			continue
		}

		d := res.Decision
		row.AddCell().Value = string(d.Action)
		row.AddCell().Value = strconv.Itoa(d.ConfidencePercent)
		row.AddCell().Value = d.Classification.RuleName
		row.AddCell().Value = strconv.FormatBool(d.RequiresHumanReview)
		row.AddCell().Value = riskSummary(d)
		row.AddCell().Value = strconv.FormatBool(d.FromCache)
		row.AddCell()
	}

	stats, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "batch: add summary sheet")
	}
	for _, line := range [][2]string{
		{"Total", strconv.Itoa(summary.Total)},
		{"Approved", strconv.Itoa(summary.Approved)},
		{"Rejected", strconv.Itoa(summary.Rejected)},
		{"Review", strconv.Itoa(summary.Review)},
		{"From cache", strconv.Itoa(summary.FromCache)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Duration", summary.Duration.Round(time.Millisecond).String()},
	} {
		row := stats.AddRow()
		row.AddCell().Value = line[0]
		row.AddCell().Value = line[1]
	}

	return eris.Wrapf(f.Save(path), "batch: save report %s", path)
}

func riskSummary(d *model.Decision) string {
	if len(d.RiskFactors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(d.RiskFactors))
	for _, r := range d.RiskFactors {
		parts = append(parts, fmt.Sprintf("%s (%s)", r.Kind, r.Severity))
	}
	return strings.Join(parts, "; ")
}
