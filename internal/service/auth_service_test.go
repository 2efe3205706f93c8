package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/config"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/identity"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository/memory"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/security"
)

var testParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:   "service-test-secret",
		JWTIssuer:   "edumate-test",
		TokenTTL:    24 * time.Hour,
		SignupRoles: []string{"ADMIN", "PARENT", "TEACHER"},
	}
}

type fixture struct {
	db       *memory.DB
	denylist *memory.Denylist
	auth     *AuthService
}

func newFixture(t *testing.T, cfg config.SecurityConfig) *fixture {
	t.Helper()
	db := memory.NewDB()
	denylist := memory.NewDenylist()
	chain := identity.NewChain(db.Users, db.Students, db.Teachers)
	return &fixture{
		db:       db,
		denylist: denylist,
		auth:     NewAuthService(chain, db.Users, denylist, cfg, zerolog.New(io.Discard)),
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPasswordWithParams(password, testParams)
	require.NoError(t, err)
	return hash
}

func (f *fixture) seedAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.db.Users.Create(ctx, models.GenericAccount{
		ID: "g-parent", Email: "parent@school.org", PasswordHash: mustHash(t, "parent-pw"), Name: "Pat", Role: models.RoleParent,
	}))
	require.NoError(t, f.db.Users.Create(ctx, models.GenericAccount{
		ID: "g-admin", Email: "admin@school.org", PasswordHash: mustHash(t, "admin-pw"), Name: "Ada", Role: models.RoleAdmin,
	}))
	require.NoError(t, f.db.Students.Put(ctx, models.StudentAccount{
		ID: "s-1", Email: "kid@school.org", PasswordHash: mustHash(t, "kid-pw"), Name: "Kim", ClassName: "5", Section: "A", RollNumber: 7,
	}))
	require.NoError(t, f.db.Teachers.Put(ctx, models.TeacherAccount{
		ID: "t-1", Email: "teacher@school.org", PasswordHash: mustHash(t, "teacher-pw"), Name: "Tom", EmployeeID: "E-1", Subject: "Math",
	}))
}

func TestLoginResolvesEachStore(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)
	ctx := context.Background()

	cases := []struct {
		email, password string
		wantID          string
		wantRole        models.Role
	}{
		{"parent@school.org", "parent-pw", "g-parent", models.RoleParent},
		{"admin@school.org", "admin-pw", "g-admin", models.RoleAdmin},
		{"kid@school.org", "kid-pw", "s-1", models.RoleStudent},
		{"teacher@school.org", "teacher-pw", "t-1", models.RoleTeacher},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			result, err := f.auth.Login(ctx, LoginInput{Email: tc.email, Password: tc.password})
			require.NoError(t, err)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, tc.wantID, result.User.ID)
			assert.Equal(t, tc.wantRole, result.User.Role)
			assert.Equal(t, tc.email, result.User.Email)

			actor, _, err := f.auth.Resolve(ctx, result.Token)
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, actor.ID)
			assert.Equal(t, tc.wantRole, actor.Role)
		})
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)

	result, err := f.auth.Login(context.Background(), LoginInput{Email: "  Teacher@School.ORG ", Password: "teacher-pw"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", result.User.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)
	ctx := context.Background()

	_, unknownErr := f.auth.Login(ctx, LoginInput{Email: "nobody@school.org", Password: "whatever"})
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)

	for _, email := range []string{"parent@school.org", "kid@school.org", "teacher@school.org"} {
		_, err := f.auth.Login(ctx, LoginInput{Email: email, Password: "wrong"})
		assert.Equal(t, unknownErr, err, email)
	}

	_, err := f.auth.Login(ctx, LoginInput{Email: "", Password: "x"})
	assert.Equal(t, unknownErr, err)
	_, err = f.auth.Login(ctx, LoginInput{Email: "kid@school.org", Password: ""})
	assert.Equal(t, unknownErr, err)
}

func TestLoginUnreadableHashIsInvalidCredentials(t *testing.T) {
	const salt, hash = "c2FsdHNhbHRzYWx0c2FsdA", "aGFzaGhhc2hoYXNoaGFzaA"
	cases := map[string]string{
		"plaintext":    "plaintext",
		"zero time":    "$argon2id$v=19$m=65536,t=0,p=1$" + salt + "$" + hash,
		"zero threads": "$argon2id$v=19$m=65536,t=1,p=0$" + salt + "$" + hash,
		"huge memory":  "$argon2id$v=19$m=4294967295,t=1,p=1$" + salt + "$" + hash,
		"empty salt":   "$argon2id$v=19$m=8192,t=1,p=1$$" + hash,
	}
	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, testSecurityConfig())
			require.NoError(t, f.db.Users.Create(context.Background(), models.GenericAccount{
				ID: "g-legacy", Email: "legacy@school.org", PasswordHash: stored, Name: "L", Role: models.RoleParent,
			}))

			_, err := f.auth.Login(context.Background(), LoginInput{Email: "legacy@school.org", Password: "plaintext"})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLoginPrefersGenericStoreOnEmailCollision(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	ctx := context.Background()
	require.NoError(t, f.db.Users.Create(ctx, models.GenericAccount{
		ID: "g-dup", Email: "dup@school.org", PasswordHash: mustHash(t, "generic-pw"), Name: "G", Role: models.RoleParent,
	}))
	require.NoError(t, f.db.Students.Put(ctx, models.StudentAccount{
		ID: "s-dup", Email: "dup@school.org", PasswordHash: mustHash(t, "student-pw"), Name: "S",
	}))

	result, err := f.auth.Login(ctx, LoginInput{Email: "dup@school.org", Password: "generic-pw"})
	require.NoError(t, err)
	assert.Equal(t, "g-dup", result.User.ID)
	assert.Equal(t, models.RoleParent, result.User.Role)

	// The student record is never consulted once the generic store matched.
	_, err = f.auth.Login(ctx, LoginInput{Email: "dup@school.org", Password: "student-pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveRejectsDeletedSubject(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)
	ctx := context.Background()

	result, err := f.auth.Login(ctx, LoginInput{Email: "teacher@school.org", Password: "teacher-pw"})
	require.NoError(t, err)

	require.NoError(t, f.db.Teachers.Delete(ctx, "t-1"))

	_, _, err = f.auth.Resolve(ctx, result.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveUsesOriginClaimNotEmail(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	ctx := context.Background()
	require.NoError(t, f.db.Teachers.Put(ctx, models.TeacherAccount{ID: "same-id", Email: "t@school.org", Name: "Teacher"}))
	require.NoError(t, f.db.Students.Put(ctx, models.StudentAccount{ID: "same-id", Email: "s@school.org", Name: "Student"}))

	token, _, err := security.GenerateAccessToken(testSecurityConfig().JWTSecret, "edumate-test",
		security.TokenSubject{UserID: "same-id", Role: "STUDENT", Origin: "STUDENT"}, time.Hour)
	require.NoError(t, err)

	actor, ident, err := f.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.OriginStudent, actor.Origin)
	assert.Equal(t, "Student", ident.Name)
}

func TestResolveKeepsTokenRoleByDefault(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)
	ctx := context.Background()

	result, err := f.auth.Login(ctx, LoginInput{Email: "parent@school.org", Password: "parent-pw"})
	require.NoError(t, err)

	require.NoError(t, f.db.Users.UpdateRole(ctx, "g-parent", models.RoleAdmin))

	actor, ident, err := f.auth.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, actor.Role)
	assert.Equal(t, models.RoleAdmin, ident.Role)
}

func TestResolveCanRefreshRoleFromRecord(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.RefreshRoleFromRecord = true
	f := newFixture(t, cfg)
	f.seedAll(t)
	ctx := context.Background()

	result, err := f.auth.Login(ctx, LoginInput{Email: "parent@school.org", Password: "parent-pw"})
	require.NoError(t, err)

	require.NoError(t, f.db.Users.UpdateRole(ctx, "g-parent", models.RoleAdmin))

	actor, _, err := f.auth.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, actor.Role)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)
	ctx := context.Background()
	secret := testSecurityConfig().JWTSecret

	expired, _, err := security.GenerateAccessToken(secret, "edumate-test",
		security.TokenSubject{UserID: "g-admin", Role: "ADMIN", Origin: "GENERIC"}, -time.Second)
	require.NoError(t, err)
	foreign, _, err := security.GenerateAccessToken("someone-elses-secret", "edumate-test",
		security.TokenSubject{UserID: "g-admin", Role: "ADMIN", Origin: "GENERIC"}, time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"signature": foreign,
		"garbage":   "not.a.token",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := f.auth.Resolve(ctx, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)
	ctx := context.Background()

	first, err := f.auth.Login(ctx, LoginInput{Email: "kid@school.org", Password: "kid-pw"})
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, LoginInput{Email: "kid@school.org", Password: "kid-pw"})
	require.NoError(t, err)

	actor, _, err := f.auth.Resolve(ctx, first.Token)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, actor))

	_, _, err = f.auth.Resolve(ctx, first.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Other sessions of the same account are independent.
	_, _, err = f.auth.Resolve(ctx, second.Token)
	assert.NoError(t, err)
}

func TestSignupCreatesGenericAccount(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	ctx := context.Background()

	result, err := f.auth.Signup(ctx, SignupInput{
		Email: "A@x.com", Password: "p1", Name: "A", Role: "parent", Phone: "123",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", result.User.Email)
	assert.Equal(t, models.RoleParent, result.User.Role)
	assert.NotEmpty(t, result.Token)

	stored, err := f.db.Users.GetByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "123", stored.Phone)
	assert.NotEqual(t, "p1", stored.PasswordHash)

	login, err := f.auth.Login(ctx, LoginInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)
	ctx := context.Background()

	_, err := f.auth.Signup(ctx, SignupInput{Email: "parent@school.org", Password: "x", Name: "Dup", Role: "PARENT"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.auth.Signup(ctx, SignupInput{Email: "new@school.org", Password: "x", Name: "N", Role: "STUDENT"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.auth.Signup(ctx, SignupInput{Email: "new@school.org", Password: "x", Role: "PARENT"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSignupChecksOnlyGenericStore(t *testing.T) {
	f := newFixture(t, testSecurityConfig())
	f.seedAll(t)

	result, err := f.auth.Signup(context.Background(), SignupInput{
		Email: "kid@school.org", Password: "other", Name: "Guardian", Role: "PARENT",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, result.User.Role)
}

type brokenStudents struct{}

func (brokenStudents) FindByEmail(context.Context, string) (models.StudentAccount, error) {
	return models.StudentAccount{}, errors.New("students table unavailable")
}

func (brokenStudents) GetByID(context.Context, string) (models.StudentAccount, error) {
	return models.StudentAccount{}, errors.New("students table unavailable")
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	db := memory.NewDB()
	chain := identity.NewChain(db.Users, brokenStudents{}, db.Teachers)
	auth := NewAuthService(chain, db.Users, nil, testSecurityConfig(), zerolog.New(io.Discard))

	_, err := auth.Login(context.Background(), LoginInput{Email: "kid@school.org", Password: "kid-pw"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
