package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/hadir/core"
)

// Roles
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// Permissions (capability strings). Route middleware and services check
// these instead of comparing role strings ad hoc.
const (
	PermUserManage = "user:manage"

	PermCourseRead   = "course:read"
	PermCourseManage = "course:manage"

	PermEnrollmentCreate = "enrollment:create"
	PermEnrollmentRead   = "enrollment:read"
	PermEnrollmentDrop   = "enrollment:drop"
	PermEnrollmentManage = "enrollment:manage"

	PermScheduleRead   = "schedule:read"
	PermScheduleManage = "schedule:manage"

	PermHolidayManage = "holiday:manage"

	PermAttendanceCreate = "attendance:create"
	PermAttendanceRead   = "attendance:read"
	PermAttendanceManage = "attendance:manage"

	PermTaskRead   = "task:read"
	PermTaskManage = "task:manage"

	PermProofUpload = "proof:upload"
)

var (
	AllRoles = []string{RoleStudent, RoleLecturer, RoleAdmin}

	// DefaultPermissions granted at creation time per role. Admins hold
	// every permission implicitly (see User.Can).
	DefaultPermissions = map[string][]string{
		RoleStudent: {
			PermCourseRead,
			PermEnrollmentCreate,
			PermEnrollmentRead,
			PermEnrollmentDrop,
			PermScheduleRead,
			PermAttendanceCreate,
			PermAttendanceRead,
			PermTaskRead,
			PermProofUpload,
		},
		RoleLecturer: {
			PermCourseRead,
			PermEnrollmentRead,
			PermScheduleRead,
			PermAttendanceRead,
			PermTaskRead,
			PermTaskManage,
		},
		RoleAdmin: nil,
	}
)

func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	IsActive     bool      `json:"is_active"`
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

func (u *User) IsAdmin() bool    { return u.Role == RoleAdmin }
func (u *User) IsLecturer() bool { return u.Role == RoleLecturer }
func (u *User) IsStudent() bool  { return u.Role == RoleStudent }

// Can reports whether the user holds the given permission.
// Admins hold all permissions.
func (u *User) Can(perm string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string   `json:"role" validate:"omitempty,role"`
	Permissions     []string `json:"permissions"`
}

func (nu *NewUser) Validate(svc ServiceInterface) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	if err := ValidatePassword(nu.Password, nu.Name, nu.Username, nu.Email); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string   `json:"name"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	IsActive        *bool    `json:"is_active"`
	Role            string   `json:"role" validate:"omitempty,role"`
	Permissions     []string `json:"permissions"`
	Password        string   `json:"password" validate:"omitempty"`
	PasswordConfirm string   `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc ServiceInterface) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}
	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	if uu.Password != "" {
		if err := ValidatePassword(uu.Password, uu.Name, uu.Username, uu.Email); err != nil {
			return err
		}
	}
	return svc.CheckUniqueness(uu.Username, uu.Email, origUsr)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Role        string    `query:"role"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}
