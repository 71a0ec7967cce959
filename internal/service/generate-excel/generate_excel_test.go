package generate_excel

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cnc-ops/internal/service/history"
	"cnc-ops/internal/storage"
)

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Load(ctx context.Context, v history.Viewer, q history.Query) (history.Page, error) {
	args := m.Called(ctx, v, q)
	return args.Get(0).(history.Page), args.Error(1)
}

func TestGenerateExcel(t *testing.T) {
	viewer := history.Viewer{FullName: "Nguyen Van A", Role: storage.RoleOperator}
	query := history.Query{Search: "cnc"}

	loader := new(MockHistory)
	loader.On("Load", mock.Anything, viewer, query).Return(history.Page{
		Production: []storage.ProductionReport{{
			DeploymentDate:        "2024-03-05",
			ProjectCode:           "ABC123",
			CustomerCode:          "AB",
			MachineName:           "CNC-01",
			PlannedQty:            5,
			ActualQty:             3,
			StartTime:             "08:00",
			EndTime:               "09:30",
			Operator:              "Nguyen Van A",
			EstimatedTimePerPiece: 30,
		}},
		Downtime: []storage.DowntimeReport{{
			DowntimeDate: "2024-03-06",
			MachineName:  "CNC-02",
			StartTime:    "10:00",
			EndTime:      "11:15",
			Reason:       "Spindle overheating",
		}},
	}, nil)

	data, err := NewGenerateService(loader).GenerateExcel(context.Background(), viewer, query)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetProduction, sheetDowntime}, f.GetSheetList())

	rows, err := f.GetRows(sheetProduction)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, productionHeaders, rows[0])
	assert.Equal(t, "ABC123", rows[1][1])
	assert.Equal(t, "2", rows[1][8])
	assert.Equal(t, "30", rows[1][18])

	rows, err = f.GetRows(sheetDowntime)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Spindle overheating", rows[1][4])

	loader.AssertExpectations(t)
}

func TestGenerateExcel_LoadError(t *testing.T) {
	loader := new(MockHistory)
	loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(history.Page{}, errors.New("boom"))

	_, err := NewGenerateService(loader).GenerateExcel(context.Background(), history.Viewer{}, history.Query{})

	assert.ErrorContains(t, err, "boom")
}
