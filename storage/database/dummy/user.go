package dummydb

import (
	"context"
	gosync "sync"

	"github.com/dkasongo/darasa/core/user"
)

// UserRepository is an in-memory user.Repository used in tests.
type UserRepository struct {
	gosync.RWMutex
	table   map[int]*user.User
	pkCount int
}

var _ user.Repository = (*UserRepository)(nil) // interface compliance check

func NewUserRepository() *UserRepository {
	return &UserRepository{table: make(map[int]*user.User)}
}

func (repo *UserRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.table))
	for _, u := range repo.table {
		users = append(users, *u)
	}
	return users
}

func (repo *UserRepository) CheckUsernameUniqueness(_ context.Context, username, email string, excludedUsers ...user.User) error {
	repo.RLock()
	defer repo.RUnlock()

	excluded := make(map[int]bool, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = true
	}
	for _, usr := range repo.query() {
		if excluded[usr.ID] {
			continue
		}
		if usr.Username == username {
			return user.ErrUsernameExists
		}
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *UserRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.Lock()
	defer repo.Unlock()

	repo.pkCount++
	usr.ID = repo.pkCount
	repo.table[usr.ID] = &usr
	return usr, nil
}

func (repo *UserRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	repo.RLock()
	defer repo.RUnlock()

	if usr, ok := repo.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) GetUserByUsernameOrEmail(_ context.Context, username string) (user.User, error) {
	repo.RLock()
	defer repo.RUnlock()

	for _, usr := range repo.query() {
		if usr.Username == username || usr.Email == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	repo.RLock()
	defer repo.RUnlock()
	return repo.query(), nil
}

func (repo *UserRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.Lock()
	defer repo.Unlock()

	if _, ok := repo.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.table[usr.ID] = &usr
	return usr, nil
}
