// Package export serializes the stored collection and statistics summary
// into downloadable files: a structured JSON record, a delimited-text table,
// or a spreadsheet.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"healthpulse/models"
)

// ErrNoData is returned when a tabular export is requested for an empty
// collection. The JSON export never fails on empty input.
var ErrNoData = errors.New("no data to export")

const dataVersion = "1.0"

// Record is the structured JSON export envelope.
type Record struct {
	ExportedAt  time.Time                `json:"exported_at"`
	TotalCount  int                      `json:"total_count"`
	DataVersion string                   `json:"data_version"`
	Submissions []models.Response        `json:"submissions"`
	Statistics  models.StatisticsSummary `json:"statistics"`
}

// File is a rendered export ready to be served as a download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// tableHeader is the fixed 14-column header shared by the CSV and XLSX
// exports.
var tableHeader = []string{
	"timestamp",
	"age_group",
	"gender",
	"location",
	"activity",
	"diet",
	"sleep",
	"smoking",
	"alcohol",
	"conditions",
	"overall_health",
	"classification",
	"score",
	"risk_factors",
}

// JSON renders the structured record export. An empty collection produces an
// empty submissions array, never an error.
func JSON(responses []models.Response, summary models.StatisticsSummary, now time.Time) (File, error) {
	rec := Record{
		ExportedAt:  now.UTC(),
		TotalCount:  len(responses),
		DataVersion: dataVersion,
		Submissions: responses,
		Statistics:  summary,
	}
	if rec.Submissions == nil {
		rec.Submissions = []models.Response{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return File{}, fmt.Errorf("encode export record: %w", err)
	}
	return File{
		Name:        fileName("json", now),
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// CSV renders the delimited-text export: one header row plus one row per
// response, with embedded delimiters and quotes escaped by quote-wrapping
// and quote-doubling.
func CSV(responses []models.Response, now time.Time) (File, error) {
	if len(responses) == 0 {
		return File{}, ErrNoData
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tableHeader); err != nil {
		return File{}, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range responses {
		if err := w.Write(tableRow(r)); err != nil {
			return File{}, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return File{}, fmt.Errorf("flush csv: %w", err)
	}
	return File{
		Name:        fileName("csv", now),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

// XLSX renders the same table as a spreadsheet with a bold header row.
func XLSX(responses []models.Response, now time.Time) (File, error) {
	if len(responses) == 0 {
		return File{}, ErrNoData
	}

	f := excelize.NewFile()
	const sheet = "Responses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return File{}, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, style)
	}

	if err := f.SetSheetRow(sheet, "A1", toAnyRow(tableHeader)); err != nil {
		f.Close()
		return File{}, fmt.Errorf("write header row: %w", err)
	}
	for i, r := range responses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return File{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, toAnyRow(tableRow(r))); err != nil {
			f.Close()
			return File{}, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return File{}, fmt.Errorf("render xlsx: %w", err)
	}
	if err := f.Close(); err != nil {
		return File{}, fmt.Errorf("close xlsx: %w", err)
	}
	return File{
		Name:        fileName("xlsx", now),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func tableRow(r models.Response) []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Demographics.AgeGroup,
		r.Demographics.Gender,
		r.Demographics.Location,
		r.Lifestyle.Activity,
		r.Lifestyle.Diet,
		r.Lifestyle.Sleep,
		r.Lifestyle.Smoking,
		r.Lifestyle.Alcohol,
		strings.Join(r.MedicalConditions, "; "),
		r.OverallHealth,
		r.Classification,
		strconv.Itoa(r.Score),
		strings.Join(r.RiskFactors, "; "),
	}
}

func toAnyRow(row []string) *[]any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return &out
}

func fileName(ext string, now time.Time) string {
	return fmt.Sprintf("health-data-%s.%s", now.UTC().Format("2006-01-02"), ext)
}
