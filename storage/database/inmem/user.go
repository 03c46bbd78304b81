package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/user"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// emails are globally unique; login is tenant-less
	for _, existing := range repo.db.users {
		if strings.EqualFold(existing.Email, usr.Email) {
			return user.User{}, &core.DuplicateError{Field: "email", Value: usr.Email}
		}
	}
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if filter.ID != "" && usr.ID != filter.ID {
			continue
		}
		if filter.Email != "" && !strings.EqualFold(usr.Email, filter.Email) {
			continue
		}
		if !filter.Tenant.IsZero() && usr.TenantID != filter.Tenant.ID() {
			continue
		}
		return *usr, nil
	}
	return user.User{}, core.ErrNotFound
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]user.User, 0)
	for _, usr := range repo.db.users {
		if !filter.Scope.Matches(usr) {
			continue
		}
		if filter.RoleID != "" && (!usr.RoleID.Valid || usr.RoleID.String != filter.RoleID) {
			continue
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !matchSearch(filter.Search, usr.Name, usr.Email) {
			continue
		}
		users = append(users, *usr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[usr.ID]; !ok {
		return user.User{}, core.ErrNotFound
	}
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.users, id)
	}
	return nil
}

func matchSearch(search string, fields ...string) bool {
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
