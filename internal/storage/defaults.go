package storage

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultMachines is the machine list a fresh store starts with.
func DefaultMachines() ([]Machine, error) {
	return []Machine{
		{ID: "machine-1", Name: "CNC-01"},
		{ID: "machine-2", Name: "CNC-02"},
		{ID: "machine-3", Name: "CNC-03"},
		{ID: "machine-4", Name: "Lathe-01"},
	}, nil
}

// DefaultUsers is the account list a fresh store starts with. The demo
// passwords are hashed on the way in.
func DefaultUsers() ([]User, error) {
	users := []User{
		{ID: "user-1", Username: "admin", Password: "admin123", FullName: "Administrator", Role: RoleAdmin},
		{ID: "user-2", Username: "operator1", Password: "123456", FullName: "Nguyen Van A", Role: RoleOperator, DefaultMachineID: "machine-1"},
		{ID: "user-3", Username: "operator2", Password: "123456", FullName: "Tran Van B", Role: RoleOperator, DefaultMachineID: "machine-2"},
	}

	for i := range users {
		hash, err := HashPassword(users[i].Password)
		if err != nil {
			return nil, fmt.Errorf("hash password of %s: %w", users[i].Username, err)
		}
		users[i].PasswordHash = hash
		users[i].Password = ""
	}

	return users, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
