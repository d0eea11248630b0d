package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/darasahq/darasa/core"
)

// Roles. The set is closed: an account holds exactly one of these.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

// Account statuses. Only active accounts may sign in.
const (
	StatusActive = "active"
	StatusHold   = "hold"
)

var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

	rolePriorities = map[string]int{
		RoleAdmin:   40,
		RoleTeacher: 30,
		RoleStudent: 20,
		RoleParent:  10,
	}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Parent", Value: RoleParent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Admin", Value: RoleAdmin},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

// KnownRole reports whether role is in the closed role set.
func KnownRole(role string) bool {
	_, ok := rolePriorities[role]
	return ok
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsActive() bool  { return u.Status == StatusActive }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsParent() bool  { return u.Role == RoleParent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"required,knownrole"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Zero-value fields are left untouched.
type UpdateUser struct {
	Name            string  `json:"name" validate:"omitempty,alphanum_"`
	Email           string  `json:"email" validate:"omitempty,email"`
	Role            string  `json:"role" validate:"omitempty,knownrole"`
	Status          *string `json:"status" validate:"omitempty,accountstatus"`
	Password        string  `json:"password" validate:"omitempty"`
	PasswordConfirm string  `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, validate *validator.Validate, svc Service) error {
	name := core.CleanString(uu.Name)
	if name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Email, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

// GetFilter selects a single record; set fields are AND-combined.
type GetFilter struct {
	ID     string
	Email  string
	Status string
}

func (gf GetFilter) IsEmpty() bool {
	return gf.ID == "" && gf.Email == "" && gf.Status == ""
}

// QueryFilter applies AND-combined restrictions to a user listing.
// Search does a case-insensitive match on Name or Email.
type QueryFilter struct {
	Search      string    `query:"search"`
	Roles       []string  `query:"role"`
	Status      string    `query:"status"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.Status == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
