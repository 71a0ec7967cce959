package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"cnc-ops/internal/service/history"
)

type HistoryLoader interface {
	Load(ctx context.Context, v history.Viewer, q history.Query) (history.Page, error)
}

type GenerateExcelService struct {
	history HistoryLoader
}

func NewGenerateService(history HistoryLoader) *GenerateExcelService {
	return &GenerateExcelService{history: history}
}

const (
	sheetProduction = "Production"
	sheetDowntime   = "Downtime"
)

var (
	productionHeaders = []string{
		"Date", "Project code", "Customer code", "Item", "Part", "Machine",
		"Planned qty", "Actual qty", "Outstanding qty", "NG qty",
		"Start", "End", "Surface process", "Other process",
		"Operator", "Supervisor", "Programmer", "Setter", "Min/piece",
	}
	downtimeHeaders = []string{"Date", "Machine", "Stopped at", "Restarted at", "Reason"}
)

// GenerateExcel renders the history v is allowed to see, filtered by q, as
// an xlsx workbook with one sheet per report kind.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, v history.Viewer, q history.Query) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	page, err := g.history.Load(ctx, v, q)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch history: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetProduction); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(sheetDowntime); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	writeHeader(f, sheetProduction, productionHeaders, headerStyle)
	writeHeader(f, sheetDowntime, downtimeHeaders, headerStyle)

	for i, r := range page.Production {
		row := []any{
			r.DeploymentDate, r.ProjectCode, r.CustomerCode, r.ItemName, r.PartName, r.MachineLabel(),
			r.PlannedQty, r.ActualQty, r.OutstandingQty(), r.NgQty,
			r.StartTime, r.EndTime, r.SurfaceProcess, r.OtherProcess,
			r.OperatorName(), r.Supervisor, r.Programmer, r.Setter, r.EstimatedTimePerPiece,
		}
		if err := f.SetSheetRow(sheetProduction, cellName(1, i+2), &row); err != nil {
			return nil, fmt.Errorf("%s: production row %d: %w", op, i, err)
		}
	}

	for i, r := range page.Downtime {
		row := []any{r.DowntimeDate, r.MachineLabel(), r.StartTime, r.EndTime, r.Reason}
		if err := f.SetSheetRow(sheetDowntime, cellName(1, i+2), &row); err != nil {
			return nil, fmt.Errorf("%s: downtime row %d: %w", op, i, err)
		}
	}

	for _, sheet := range []string{sheetProduction, sheetDowntime} {
		f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
		})
	}

	f.SetColWidth(sheetProduction, "A", "S", 15)
	f.SetColWidth(sheetDowntime, "A", "D", 15)
	f.SetColWidth(sheetDowntime, "E", "E", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write workbook: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
