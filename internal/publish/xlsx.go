package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"fii-data/internal/model"
)

// WorkbookSink publishes to a worksheet of a local .xlsx workbook. Same
// clear-then-write semantics as the hosted sheet; useful when the run has no
// Google credentials.
type WorkbookSink struct {
	Path      string
	Worksheet string
}

func (s *WorkbookSink) Name() string { return "xlsx" }

func (s *WorkbookSink) Publish(_ context.Context, snap model.Snapshot) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.clearSheet(f); err != nil {
		return err
	}
	for i, row := range tableRows(snap.Holdings) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("publish: cell name: %w", err)
		}
		if err := f.SetSheetRow(s.Worksheet, cell, &row); err != nil {
			return fmt.Errorf("publish: write row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellValue(s.Worksheet, stampHeaderCell, stampHeader); err != nil {
		return fmt.Errorf("publish: write timestamp header: %w", err)
	}
	if err := f.SetCellValue(s.Worksheet, stampValueCell, snap.UpdatedAt.Format(stampLayout)); err != nil {
		return fmt.Errorf("publish: write timestamp: %w", err)
	}
	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("publish: save workbook: %w", err)
	}
	return nil
}

func (s *WorkbookSink) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		f = excelize.NewFile()
	} else if err != nil {
		return nil, fmt.Errorf("publish: open workbook: %w", err)
	}
	if _, err := f.NewSheet(s.Worksheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("publish: worksheet %s: %w", s.Worksheet, err)
	}
	return f, nil
}

// clearSheet removes every populated row so stale holdings never survive a
// shrinking portfolio.
func (s *WorkbookSink) clearSheet(f *excelize.File) error {
	rows, err := f.GetRows(s.Worksheet)
	if err != nil {
		return fmt.Errorf("publish: read worksheet: %w", err)
	}
	for i := len(rows); i >= 1; i-- {
		if err := f.RemoveRow(s.Worksheet, i); err != nil {
			return fmt.Errorf("publish: clear row %d: %w", i, err)
		}
	}
	return nil
}
