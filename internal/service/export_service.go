package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"sivigila-data/internal/domain"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// maxSheetNameLen límite de longitud de nombre de hoja del formato xlsx.
const maxSheetNameLen = 31

// ExportService descargas masivas del conjunto visible y filtrado.
type ExportService interface {
	// CSV returns the scoped+filtered set as delimited text with a UTF-8 BOM
	// so spreadsheet tools decode accents correctly.
	CSV(ctx context.Context, sess domain.Session, filters DashboardFilters) ([]byte, error)

	// Workbook returns an xlsx with one sheet holding every row plus one
	// sheet per life-cycle band holding only its rows.
	Workbook(ctx context.Context, sess domain.Session, filters DashboardFilters) ([]byte, error)
}

type exportService struct {
	cases  CaseService
	logger *zap.Logger
}

func NewExportService(cases CaseService, logger *zap.Logger) ExportService {
	return &exportService{cases: cases, logger: logger}
}

func (s *exportService) load(ctx context.Context, sess domain.Session, filters DashboardFilters) ([]domain.CaseRecord, error) {
	records, err := s.cases.List(ctx, sess, true)
	if err != nil {
		return nil, err
	}
	return applyFilters(records, filters), nil
}

func (s *exportService) CSV(ctx context.Context, sess domain.Session, filters DashboardFilters) ([]byte, error) {
	records, err := s.load(ctx, sess, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF") // BOM
	w := csv.NewWriter(&buf)
	if err := w.Write(domain.CaseColumns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range records {
		if err := w.Write(records[i].Row()); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.Info("CSV export generated",
		zap.Int("rows", len(records)),
		zap.String("username", sess.Username),
	)
	return buf.Bytes(), nil
}

// sheetNameForLifeCycle derives the per-band sheet name: catalog label up to
// the parenthesis, truncated to the format's limit.
func sheetNameForLifeCycle(lifeCycle string) string {
	name := lifeCycle
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxSheetNameLen {
		name = string(r[:maxSheetNameLen])
	}
	return name
}

func (s *exportService) Workbook(ctx context.Context, sess domain.Session, filters DashboardFilters) ([]byte, error) {
	records, err := s.load(ctx, sess, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	// Don't defer Close here: WriteTo needs the file open.

	if err := writeCaseSheet(f, "TODOS_LOS_DATOS", records); err != nil {
		f.Close()
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	for _, lifeCycle := range domain.LifeCycles {
		var subset []domain.CaseRecord
		for _, r := range records {
			if r.LifeCycle == lifeCycle {
				subset = append(subset, r)
			}
		}
		if len(subset) == 0 {
			continue
		}
		if err := writeCaseSheet(f, sheetNameForLifeCycle(lifeCycle), subset); err != nil {
			f.Close()
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	s.logger.Info("Workbook export generated",
		zap.Int("rows", len(records)),
		zap.String("username", sess.Username),
	)
	return buf.Bytes(), nil
}

func writeCaseSheet(f *excelize.File, sheetName string, records []domain.CaseRecord) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range domain.CaseColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx := range records {
		row := rowIdx + 2 // row 1 is the header
		for col, value := range records[rowIdx].Row() {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if value == "" {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}
