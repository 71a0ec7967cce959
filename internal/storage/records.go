package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection keys. They match the keys the browser build kept in local storage,
// so exported data can be imported as is.
const (
	KeyUsers             = "cnc_users"
	KeyMachines          = "cnc_machines"
	KeyProductionReports = "cnc_production_reports"
	KeyDowntimeReports   = "cnc_downtime_reports"
)

// KV is a string-keyed blob store. Get reports found=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Records exposes the four collections as typed slices. Every Save overwrites
// the whole collection: to change one record callers read, modify and write
// back. Nothing guards that window, so two concurrent writers of the same
// collection race and the later one wins.
type Records struct {
	kv KV
}

func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

func (r *Records) Users(ctx context.Context) ([]User, error) {
	return load(ctx, r.kv, KeyUsers, DefaultUsers)
}

func (r *Records) SaveUsers(ctx context.Context, users []User) error {
	return save(ctx, r.kv, KeyUsers, users)
}

func (r *Records) Machines(ctx context.Context) ([]Machine, error) {
	return load(ctx, r.kv, KeyMachines, DefaultMachines)
}

func (r *Records) SaveMachines(ctx context.Context, machines []Machine) error {
	return save(ctx, r.kv, KeyMachines, machines)
}

func (r *Records) ProductionReports(ctx context.Context) ([]ProductionReport, error) {
	return load[ProductionReport](ctx, r.kv, KeyProductionReports, nil)
}

func (r *Records) SaveProductionReports(ctx context.Context, reports []ProductionReport) error {
	return save(ctx, r.kv, KeyProductionReports, reports)
}

func (r *Records) DowntimeReports(ctx context.Context) ([]DowntimeReport, error) {
	return load[DowntimeReport](ctx, r.kv, KeyDowntimeReports, nil)
}

func (r *Records) SaveDowntimeReports(ctx context.Context, reports []DowntimeReport) error {
	return save(ctx, r.kv, KeyDowntimeReports, reports)
}

// load decodes a collection. When the key is absent and seed is set, the seed
// is written first, so it happens exactly once per store.
func load[T any](ctx context.Context, kv KV, key string, seed func() ([]T, error)) ([]T, error) {
	const op = "storage.Records.load"

	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", op, key, err)
	}

	if !found {
		if seed == nil {
			return []T{}, nil
		}

		items, err := seed()
		if err != nil {
			return nil, fmt.Errorf("%s: seed %s: %w", op, key, err)
		}

		if err := save(ctx, kv, key, items); err != nil {
			return nil, err
		}

		return items, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, key, err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

func save[T any](ctx context.Context, kv KV, key string, items []T) error {
	const op = "storage.Records.save"

	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", op, key, err)
	}

	if err := kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("%s: write %s: %w", op, key, err)
	}

	return nil
}
