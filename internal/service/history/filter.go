package history

import (
	"slices"
	"strings"

	"cnc-ops/internal/storage"
)

// Viewer is who is looking at the history.
type Viewer struct {
	FullName string
	Role     storage.Role
}

type Query struct {
	// SelectedUser narrows production history to one operator. Only admins
	// may set it; it is ignored for everybody else.
	SelectedUser string
	Search       string
}

// FilterProduction returns the production reports v may see, matching q,
// newest deployment date first. Operators only ever get their own reports.
// The input slice is not modified.
func FilterProduction(reports []storage.ProductionReport, v Viewer, q Query) []storage.ProductionReport {
	owner := ""
	switch {
	case v.Role != storage.RoleAdmin:
		owner = v.FullName
	case q.SelectedUser != "":
		owner = q.SelectedUser
	}

	term := strings.ToLower(q.Search)

	out := make([]storage.ProductionReport, 0, len(reports))
	for _, r := range reports {
		if v.Role != storage.RoleAdmin || owner != "" {
			if r.OperatorName() != owner {
				continue
			}
		}
		if term != "" && !strings.Contains(productionHaystack(r), term) {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b storage.ProductionReport) int {
		return strings.Compare(b.DeploymentDate, a.DeploymentDate)
	})

	return out
}

// FilterDowntime applies the search term to machine name and reason. Downtime
// has no owner, so every signed-in user sees all of it.
func FilterDowntime(reports []storage.DowntimeReport, q Query) []storage.DowntimeReport {
	term := strings.ToLower(q.Search)

	out := make([]storage.DowntimeReport, 0, len(reports))
	for _, r := range reports {
		if term != "" &&
			!strings.Contains(strings.ToLower(r.MachineLabel()), term) &&
			!strings.Contains(strings.ToLower(r.Reason), term) {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b storage.DowntimeReport) int {
		return strings.Compare(b.DowntimeDate, a.DowntimeDate)
	})

	return out
}

func productionHaystack(r storage.ProductionReport) string {
	return strings.ToLower(strings.Join([]string{
		r.ProjectCode,
		r.CustomerCode,
		r.ItemName,
		r.PartName,
		r.MachineLabel(),
		r.OperatorName(),
		r.Supervisor,
		r.Programmer,
		r.Setter,
	}, " "))
}
