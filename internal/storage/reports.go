package storage

const SurfaceProcessNone = "N/A"

// SurfaceProcesses is the fixed list offered for ProductionReport.SurfaceProcess.
var SurfaceProcesses = []string{
	SurfaceProcessNone,
	"Anodizing",
	"Hard anodizing",
	"Black oxide",
	"Zinc plating",
	"Nickel plating",
	"Chrome plating",
	"Powder coating",
	"Painting",
	"Sand blasting",
	"Polishing",
	"Heat treatment",
}

func IsSurfaceProcess(v string) bool {
	for _, p := range SurfaceProcesses {
		if p == v {
			return true
		}
	}
	return false
}

// ProductionReport is one machining run of a shift. MachineName, Operator,
// Supervisor, Programmer and Setter are copies of display names taken at
// submission time, not references.
type ProductionReport struct {
	ID                    string  `json:"id,omitempty"`
	DeploymentDate        string  `json:"deploymentDate" validate:"required,datetime=2006-01-02"`
	ProjectCode           string  `json:"projectCode" validate:"required"`
	CustomerCode          string  `json:"customerCode"`
	ItemName              string  `json:"itemName" validate:"required"`
	PartName              string  `json:"partName" validate:"required"`
	MachineName           string  `json:"machineName" validate:"required"`
	PlannedQty            int     `json:"plannedQty" validate:"gte=0"`
	ActualQty             int     `json:"actualQty" validate:"gte=0"`
	NgQty                 int     `json:"ngQty" validate:"gte=0"`
	StartTime             string  `json:"startTime" validate:"required,hhmm"`
	EndTime               string  `json:"endTime" validate:"required,hhmm"`
	SurfaceProcess        string  `json:"surfaceProcess" validate:"surface"`
	OtherProcess          string  `json:"otherProcess"`
	Operator              string  `json:"operator" validate:"required"`
	Supervisor            string  `json:"supervisor" validate:"required"`
	Programmer            string  `json:"programmer,omitempty"`
	Setter                string  `json:"setter,omitempty"`
	EstimatedTimePerPiece float64 `json:"estimatedTimePerPiece"`
}

func (r ProductionReport) OperatorName() string { return r.Operator }

func (r ProductionReport) MachineLabel() string { return r.MachineName }

// OutstandingQty is what is left of the plan. It goes negative on overproduction.
func (r ProductionReport) OutstandingQty() int {
	return r.PlannedQty - r.ActualQty
}

type DowntimeReport struct {
	ID           string `json:"id,omitempty"`
	DowntimeDate string `json:"downtimeDate" validate:"required,datetime=2006-01-02"`
	MachineName  string `json:"machineName" validate:"required"`
	StartTime    string `json:"startTime" validate:"required,hhmm"`
	EndTime      string `json:"endTime" validate:"required,hhmm"`
	Reason       string `json:"reason" validate:"required"`
}

func (r DowntimeReport) MachineLabel() string { return r.MachineName }
