package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"cnc-ops/internal/storage"
	"cnc-ops/internal/validation"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPasswordRequired   = errors.New("password is required for a new user")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalid            = errors.New("invalid input")
)

type Records interface {
	Users(ctx context.Context) ([]storage.User, error)
	SaveUsers(ctx context.Context, users []storage.User) error
	Machines(ctx context.Context) ([]storage.Machine, error)
	SaveMachines(ctx context.Context, machines []storage.Machine) error
}

// Service manages the user and machine lists.
type Service struct {
	log      *slog.Logger
	records  Records
	validate *validator.Validate
	now      func() time.Time
}

func New(log *slog.Logger, records Records) *Service {
	return &Service{
		log:      log,
		records:  records,
		validate: validation.New(),
		now:      time.Now,
	}
}

// Stats is what the dashboard shows about the directory.
type Stats struct {
	Users    int `json:"users"`
	Machines int `json:"machines"`
}

func (s *Service) Users(ctx context.Context) ([]storage.User, error) {
	const op = "service.directory.Users"

	users, err := s.records.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]storage.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}

	return out, nil
}

// SaveUser creates u when it has no id and replaces the stored user
// otherwise. A blank password on edit keeps the current one.
func (s *Service) SaveUser(ctx context.Context, u storage.User) (storage.User, error) {
	const op = "service.directory.SaveUser"

	u.Username = strings.TrimSpace(u.Username)
	u.PasswordHash = ""

	if err := s.validate.Struct(u); err != nil {
		return storage.User{}, fmt.Errorf("%w: %s", ErrInvalid, validation.Describe(err))
	}

	users, err := s.records.Users(ctx)
	if err != nil {
		return storage.User{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, existing := range users {
		if existing.ID != "" && existing.ID == u.ID {
			idx = i
			continue
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return storage.User{}, fmt.Errorf("%s: %w: %s", op, ErrUsernameTaken, u.Username)
		}
	}

	if u.ID != "" && idx < 0 {
		return storage.User{}, fmt.Errorf("%s: user %s: %w", op, u.ID, ErrNotFound)
	}

	switch {
	case u.Password != "":
		hash, err := storage.HashPassword(u.Password)
		if err != nil {
			return storage.User{}, fmt.Errorf("%s: hash password: %w", op, err)
		}
		u.PasswordHash = hash
	case idx >= 0:
		u.PasswordHash = users[idx].PasswordHash
	default:
		return storage.User{}, ErrPasswordRequired
	}
	u.Password = ""

	if idx >= 0 {
		users[idx] = u
	} else {
		u.ID = fmt.Sprintf("user-%d", s.now().UnixMilli())
		users = append(users, u)
	}

	if err := s.records.SaveUsers(ctx, users); err != nil {
		return storage.User{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user saved", slog.String("id", u.ID), slog.String("username", u.Username))

	return u.Public(), nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	const op = "service.directory.DeleteUser"

	users, err := s.records.Users(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	kept := make([]storage.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}

	if len(kept) == len(users) {
		return fmt.Errorf("%s: user %s: %w", op, id, ErrNotFound)
	}

	if err := s.records.SaveUsers(ctx, kept); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Authenticate returns the public view of the user whose credentials match.
func (s *Service) Authenticate(ctx context.Context, username, password string) (storage.User, error) {
	const op = "service.directory.Authenticate"

	users, err := s.records.Users(ctx)
	if err != nil {
		return storage.User{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, u := range users {
		if u.Username != username {
			continue
		}
		if storage.CheckPassword(password, u.PasswordHash) != nil {
			break
		}
		return u.Public(), nil
	}

	return storage.User{}, ErrInvalidCredentials
}

func (s *Service) Machines(ctx context.Context) ([]storage.Machine, error) {
	const op = "service.directory.Machines"

	machines, err := s.records.Machines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return machines, nil
}

func (s *Service) SaveMachine(ctx context.Context, m storage.Machine) (storage.Machine, error) {
	const op = "service.directory.SaveMachine"

	m.Name = strings.TrimSpace(m.Name)

	if err := s.validate.Struct(m); err != nil {
		return storage.Machine{}, fmt.Errorf("%w: %s", ErrInvalid, validation.Describe(err))
	}

	machines, err := s.records.Machines(ctx)
	if err != nil {
		return storage.Machine{}, fmt.Errorf("%s: %w", op, err)
	}

	if m.ID == "" {
		m.ID = fmt.Sprintf("machine-%d", s.now().UnixMilli())
		machines = append(machines, m)
	} else {
		found := false
		for i := range machines {
			if machines[i].ID == m.ID {
				machines[i] = m
				found = true
				break
			}
		}
		if !found {
			return storage.Machine{}, fmt.Errorf("%s: machine %s: %w", op, m.ID, ErrNotFound)
		}
	}

	if err := s.records.SaveMachines(ctx, machines); err != nil {
		return storage.Machine{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("machine saved", slog.String("id", m.ID), slog.String("name", m.Name))

	return m, nil
}

// DeleteMachine removes the machine. Reports keep their copy of its name and
// users pointing at it simply lose their default.
func (s *Service) DeleteMachine(ctx context.Context, id string) error {
	const op = "service.directory.DeleteMachine"

	machines, err := s.records.Machines(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	kept := make([]storage.Machine, 0, len(machines))
	for _, m := range machines {
		if m.ID != id {
			kept = append(kept, m)
		}
	}

	if len(kept) == len(machines) {
		return fmt.Errorf("%s: machine %s: %w", op, id, ErrNotFound)
	}

	if err := s.records.SaveMachines(ctx, kept); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	const op = "service.directory.Stats"

	var stats Stats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.records.Users(ctx)
		stats.Users = len(users)
		return err
	})

	g.Go(func() error {
		machines, err := s.records.Machines(ctx)
		stats.Machines = len(machines)
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
