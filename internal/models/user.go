package models

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleParent  Role = "PARENT"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleParent, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Origin names the account store an identity was resolved from.
type Origin string

const (
	OriginGeneric Origin = "GENERIC"
	OriginStudent Origin = "STUDENT"
	OriginTeacher Origin = "TEACHER"
)

type GenericAccount struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type StudentAccount struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	ClassName    string
	Section      string
	RollNumber   int
	ParentID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TeacherAccount struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	EmployeeID   string
	Subject      string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the store-independent view of an account. Role is the
// effective role: fixed for student and teacher accounts, the stored role
// for generic accounts.
type Identity struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Origin       Origin
	Role         Role
}

func (a GenericAccount) Identity() Identity {
	return Identity{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Origin:       OriginGeneric,
		Role:         a.Role,
	}
}

func (a StudentAccount) Identity() Identity {
	return Identity{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Origin:       OriginStudent,
		Role:         RoleStudent,
	}
}

func (a TeacherAccount) Identity() Identity {
	return Identity{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Origin:       OriginTeacher,
		Role:         RoleTeacher,
	}
}

// Actor is the request-scoped descriptor attached after token verification.
type Actor struct {
	ID        string
	Role      Role
	Origin    Origin
	TokenID   string
	ExpiresAt time.Time
}
