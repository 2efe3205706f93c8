package identity

import (
	"context"
	"errors"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository"
)

type GenericStore interface {
	FindByEmail(ctx context.Context, email string) (models.GenericAccount, error)
	GetByID(ctx context.Context, id string) (models.GenericAccount, error)
}

type StudentStore interface {
	FindByEmail(ctx context.Context, email string) (models.StudentAccount, error)
	GetByID(ctx context.Context, id string) (models.StudentAccount, error)
}

type TeacherStore interface {
	FindByEmail(ctx context.Context, email string) (models.TeacherAccount, error)
	GetByID(ctx context.Context, id string) (models.TeacherAccount, error)
}

// NewChain returns the providers in login precedence order: generic,
// student, teacher.
func NewChain(generic GenericStore, students StudentStore, teachers TeacherStore) Chain {
	return Chain{Generic(generic), Student(students), Teacher(teachers)}
}

type accountRecord interface {
	Identity() models.Identity
}

// storeProvider adapts a typed account store to Provider.
type storeProvider[T accountRecord] struct {
	origin   models.Origin
	notFound error
	byEmail  func(ctx context.Context, email string) (T, error)
	byID     func(ctx context.Context, id string) (T, error)
}

func (p storeProvider[T]) Origin() models.Origin {
	return p.origin
}

func (p storeProvider[T]) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	rec, err := p.byEmail(ctx, email)
	return p.result(rec, err)
}

func (p storeProvider[T]) FindByID(ctx context.Context, id string) (models.Identity, error) {
	rec, err := p.byID(ctx, id)
	return p.result(rec, err)
}

func (p storeProvider[T]) result(rec T, err error) (models.Identity, error) {
	if err != nil {
		if errors.Is(err, p.notFound) {
			return models.Identity{}, ErrNotFound
		}
		return models.Identity{}, err
	}
	return rec.Identity(), nil
}

func Generic(store GenericStore) Provider {
	return storeProvider[models.GenericAccount]{
		origin:   models.OriginGeneric,
		notFound: repository.ErrUserNotFound,
		byEmail:  store.FindByEmail,
		byID:     store.GetByID,
	}
}

func Student(store StudentStore) Provider {
	return storeProvider[models.StudentAccount]{
		origin:   models.OriginStudent,
		notFound: repository.ErrStudentNotFound,
		byEmail:  store.FindByEmail,
		byID:     store.GetByID,
	}
}

func Teacher(store TeacherStore) Provider {
	return storeProvider[models.TeacherAccount]{
		origin:   models.OriginTeacher,
		notFound: repository.ErrTeacherNotFound,
		byEmail:  store.FindByEmail,
		byID:     store.GetByID,
	}
}
