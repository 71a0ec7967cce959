package report

import (
	"time"

	"cnc-ops/internal/storage"
)

// Column headers of the shared spreadsheet. The Apps Script matches them
// verbatim, so they must not be translated.
const (
	colDeployDay      = "Ngày triển khai"
	colDeployMonth    = "Tháng Triển Khai"
	colDeployYear     = "Năm Triển Khai"
	colProjectCode    = "Mã Dự Án"
	colCustomerCode   = "Mã KH"
	colItemName       = "Mục Số - Tên hạng mục"
	colPartName       = "Tên chi tiết gia công"
	colMachine        = "Tên Máy Thực Hiện"
	colPlannedQty     = "Số lượng kế hoạch (PCS)"
	colActualQty      = "Số lượng thực tế (PCS)"
	colOutstandingQty = "Số lượng chưa hoàn thành (PCS)"
	colNgQty          = "Số lượng hàng NG"
	colStartTime      = "Thời gian bắt đầu (giờ/phút)"
	colEndTime        = "Thời gian kết thúc (giờ/phút)"
	colSurfaceProcess = "Công đoạn Gia Công Bề Mặt"
	colOtherProcess   = "Công đoạn khác"
	colOperator       = "Người thực hiện"
	colSupervisor     = "Người Giám Sát"
	colTimePerPiece   = "Thời gian dự kiến theo lập trình (phút/Sp)"

	colDowntimeDay   = "Ngày máy dừng hoạt động"
	colDowntimeMonth = "Tháng Máy Dừng"
	colDowntimeMach  = "Tên Máy"
	colDowntimeStart = "Thời gian máy bắt đầu dừng"
	colDowntimeEnd   = "Thời gian máy hoạt động trở lại"
	colDowntimeWhy   = "Nguyên Nhân Máy Dừng"
)

const dateLayout = "2006-01-02"

// productionPayload maps a report onto spreadsheet columns. Programmer and
// Setter have no column and stay local.
func productionPayload(r storage.ProductionReport) map[string]any {
	day, month, year := splitDate(r.DeploymentDate)

	return map[string]any{
		colDeployDay:      day,
		colDeployMonth:    month,
		colDeployYear:     year,
		colProjectCode:    r.ProjectCode,
		colCustomerCode:   r.CustomerCode,
		colItemName:       r.ItemName,
		colPartName:       r.PartName,
		colMachine:        r.MachineLabel(),
		colPlannedQty:     r.PlannedQty,
		colActualQty:      r.ActualQty,
		colOutstandingQty: r.OutstandingQty(),
		colNgQty:          r.NgQty,
		colStartTime:      r.StartTime,
		colEndTime:        r.EndTime,
		colSurfaceProcess: r.SurfaceProcess,
		colOtherProcess:   r.OtherProcess,
		colOperator:       r.OperatorName(),
		colSupervisor:     r.Supervisor,
		colTimePerPiece:   r.EstimatedTimePerPiece,
	}
}

func downtimePayload(r storage.DowntimeReport) map[string]any {
	day, month, _ := splitDate(r.DowntimeDate)

	return map[string]any{
		colDowntimeDay:   day,
		colDowntimeMonth: month,
		colDowntimeMach:  r.MachineLabel(),
		colDowntimeStart: r.StartTime,
		colDowntimeEnd:   r.EndTime,
		colDowntimeWhy:   r.Reason,
	}
}

func splitDate(v string) (day, month, year int) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return 0, 0, 0
	}
	return t.Day(), int(t.Month()), t.Year()
}
