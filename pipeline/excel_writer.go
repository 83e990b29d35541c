package pipeline

import (
	"fmt"
	"sync"

	"github.com/aluiziolira/go-scrape-streams/models"
	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Livestreams"

// ExcelWriter buffers records into a single worksheet and saves the workbook
// on Close.
type ExcelWriter struct {
	file     *excelize.File
	filename string
	row      int
	saved    bool
	mu       sync.Mutex
}

// NewExcelWriter creates the workbook and writes a styled header row.
func NewExcelWriter(filename string) (*ExcelWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	if defaultSheet := file.GetSheetName(0); defaultSheet != excelSheetName {
		if err := file.SetSheetName(defaultSheet, excelSheetName); err != nil {
			file.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	w := &ExcelWriter{file: file, filename: filename, row: 1}
	if err := w.writeHeader(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *ExcelWriter) writeHeader() error {
	cells := make([]interface{}, len(header))
	for i, name := range header {
		cells[i] = name
	}
	if err := w.file.SetSheetRow(excelSheetName, "A1", &cells); err != nil {
		return fmt.Errorf("write excel header: %w", err)
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCell, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := w.file.SetCellStyle(excelSheetName, "A1", lastCell, style); err != nil {
		return fmt.Errorf("style excel header: %w", err)
	}
	if err := w.file.SetPanes(excelSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze excel header: %w", err)
	}

	w.row = 2
	return nil
}

// Write appends records as typed cells.
func (w *ExcelWriter) Write(records []*models.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, w.row)
		if err != nil {
			return fmt.Errorf("excel row %d: %w", w.row, err)
		}
		values := []interface{}{
			rec.ID,
			rec.Title,
			rec.Category,
			string(rec.Status),
			rec.PublishedDate,
			rec.PublishedTime.Or(""),
			rec.DaysSincePublished,
			rec.Views,
			rec.Likes,
			rec.Comments,
			rec.DurationSeconds,
			rec.URL,
			rec.EngagementScore,
			rec.DurationMinutes,
			rec.ViewsPerMinute,
			rec.ViewsPerDay,
			rec.EngagementPerView,
			rec.LikeRate,
			rec.CommentRate,
		}
		if err := w.file.SetSheetRow(excelSheetName, cell, &values); err != nil {
			return fmt.Errorf("write excel record: %w", err)
		}
		w.row++
	}
	return nil
}

// Close saves the workbook and releases it.
func (w *ExcelWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.saved {
		if err := w.file.SaveAs(w.filename); err != nil {
			w.file.Close()
			return fmt.Errorf("save excel file: %w", err)
		}
		w.saved = true
	}
	return w.file.Close()
}

// Validate ensures the header row is present.
func (w *ExcelWriter) Validate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	name, err := w.file.GetCellValue(excelSheetName, "A1")
	if err != nil {
		return fmt.Errorf("read excel header: %w", err)
	}
	if name != header[0] {
		return fmt.Errorf("excel header missing")
	}
	return nil
}
