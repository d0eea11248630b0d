package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

// orderableColumns whitelists the columns a caller may order by.
var orderableColumns = map[string]bool{
	"name":       true,
	"email":      true,
	"role":       true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
	"last_login": true,
}

type userRow struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	Name         string     `db:"name"`
	Role         string     `db:"role"`
	Status       string     `db:"status"`
	PasswordHash null.Bytes `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastLogin    null.Time  `db:"last_login"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		Role:         r.Role,
		Status:       r.Status,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sql.DB, conf *core.Config) *userRepository {
	return &userRepository{db: sqlx.NewDb(db, conf.Database.Engine)}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS (SELECT 1 FROM profile WHERE email = $1`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		query += ` AND id != ALL($2)`
		args = append(args, pq.Array(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	const query = `
INSERT INTO profile (id, email, name, role, status, password_hash, created_at, updated_at)
VALUES (:id, :email, :name, :role, :status, :password_hash, :created_at, :updated_at)`

	row := userRow{
		ID:           usr.ID,
		Email:        usr.Email,
		Name:         usr.Name,
		Role:         usr.Role,
		Status:       usr.Status,
		PasswordHash: null.BytesFrom(usr.PasswordHash),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
	}
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	if filter.IsEmpty() {
		return user.User{}, user.ErrNotFound
	}

	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	addCond := func(col, val string) {
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if filter.ID != "" {
		addCond("id", filter.ID)
	}
	if filter.Email != "" {
		addCond("email", filter.Email)
	}
	if filter.Status != "" {
		addCond("status", filter.Status)
	}

	var row userRow
	query := `SELECT * FROM profile WHERE ` + strings.Join(where, " AND ")
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user")
	}
	return row.unpack(), nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	addCond := func(cond string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter != nil {
		if filter.Search != "" {
			addCond("(name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+filter.Search+"%")
		}
		if len(filter.Roles) > 0 {
			addCond("role = ANY($%d)", pq.Array(filter.Roles))
		}
		if filter.Status != "" {
			addCond("status = $%d", filter.Status)
		}
		if !filter.CreatedFrom.IsZero() {
			addCond("created_at >= $%d", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			addCond("created_at <= $%d", filter.CreatedTo.UTC())
		}
	}

	query := `SELECT * FROM profile`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	orderBy := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if orderableColumns[ord.Field] {
			orderBy = append(orderBy, ord.String())
		}
	}
	if len(orderBy) == 0 {
		orderBy = append(orderBy, core.DBOrdering{Field: "created_at"}.String())
	}
	query += ` ORDER BY ` + strings.Join(orderBy, ", ")

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.unpack())
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, status *string) (user.User, error) {
	set := make([]string, 0, 7)
	args := make([]interface{}, 0, 7)
	addSet := func(col string, val interface{}) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if usr.Name != "" {
		addSet("name", usr.Name)
	}
	if usr.Email != "" {
		addSet("email", usr.Email)
	}
	if usr.Role != "" {
		addSet("role", usr.Role)
	}
	if usr.PasswordHash != nil {
		addSet("password_hash", usr.PasswordHash)
	}
	if status != nil {
		addSet("status", *status)
	}
	if !usr.UpdatedAt.IsZero() {
		addSet("updated_at", usr.UpdatedAt.UTC())
	}
	if !usr.LastLogin.IsZero() {
		addSet("last_login", usr.LastLogin.UTC())
	}
	if len(set) == 0 {
		return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	}

	args = append(args, usr.ID)
	query := fmt.Sprintf(`UPDATE profile SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM profile WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
