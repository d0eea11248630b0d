package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[string]bool, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = true
	}

	for _, usr := range repo.query() {
		if usr.Email == email && !excluded[usr.ID] {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.IsEmpty() {
		return user.User{}, user.ErrNotFound
	}
	for _, usr := range repo.query() {
		if filter.ID != "" && usr.ID != filter.ID {
			continue
		}
		if filter.Email != "" && usr.Email != filter.Email {
			continue
		}
		if filter.Status != "" && usr.Status != filter.Status {
			continue
		}
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.query()

	if filter != nil {
		// users with search keyword matching Name or Email
		if filter.Search != "" {
			var filtered []user.User
			search := strings.ToLower(filter.Search)
			for _, u := range users {
				if strings.Contains(strings.ToLower(u.Email), search) ||
					strings.Contains(strings.ToLower(u.Name), search) {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}
		// users with any of the specified roles
		if users != nil && len(filter.Roles) > 0 {
			var filtered []user.User
			for _, u := range users {
				for _, r := range filter.Roles {
					if u.Role == r {
						filtered = append(filtered, u)
						break
					}
				}
			}
			users = filtered
		}
		if users != nil && filter.Status != "" {
			var filtered []user.User
			for _, u := range users {
				if u.Status == filter.Status {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}
		if users != nil && !filter.CreatedFrom.IsZero() {
			var filtered []user.User
			timeUTC := filter.CreatedFrom.UTC()
			for _, u := range users {
				if u.CreatedAt.Equal(timeUTC) || u.CreatedAt.After(timeUTC) {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}
		if users != nil && !filter.CreatedTo.IsZero() {
			var filtered []user.User
			timeUTC := filter.CreatedTo.UTC()
			for _, u := range users {
				if u.CreatedAt.Before(timeUTC) || u.CreatedAt.Equal(timeUTC) {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}
	}

	// newest first by default; explicit orderings only honor created_at here
	ascending := false
	for _, ord := range ordering {
		if ord.Field == "created_at" {
			ascending = ord.Ascending
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if ascending {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User, status *string) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.Name != "" {
		origUsr.Name = usr.Name
	}
	if usr.Email != "" {
		origUsr.Email = usr.Email
	}
	if usr.Role != "" {
		origUsr.Role = usr.Role
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if status != nil {
		origUsr.Status = *status
	}
	if !usr.UpdatedAt.IsZero() {
		origUsr.UpdatedAt = usr.UpdatedAt
	}
	if !usr.LastLogin.IsZero() {
		origUsr.LastLogin = usr.LastLogin
	}

	repo.db.table[usr.ID] = origUsr
	return *origUsr, nil
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
