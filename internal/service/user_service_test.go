package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrelease/internal/model"
	"medrelease/internal/store"
)

// The seed document ships an "admin" Super Admin with the default
// credential; login tests run against it.

func TestLoginByUsernameCaseInsensitive(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	result, err := svc.Login(LoginInput{Identifier: "ADMIN", Password: store.DefaultPassword})
	require.NoError(t, err)

	assert.Equal(t, model.RoleSuperAdmin, result.User.Role)
	assert.Empty(t, result.User.Password, "credential must be stripped")
	assert.NotEmpty(t, result.Token)
}

func TestLoginByEmailAndName(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	byEmail, err := svc.Login(LoginInput{Identifier: "Admin@Klinik.Local", Password: store.DefaultPassword})
	require.NoError(t, err)

	byName, err := svc.Login(LoginInput{Identifier: "administrator", Password: store.DefaultPassword})
	require.NoError(t, err)

	assert.Equal(t, byEmail.User.ID, byName.User.ID)
}

func TestLoginWrongPasswordNotNotFound(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	// Identifier matches the display name case-insensitively; the failure
	// must say wrong credential, not unknown user.
	_, err := svc.Login(LoginInput{Identifier: "ADMINISTRATOR", Password: "salah"})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLoginUnknownIdentifier(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	_, err := svc.Login(LoginInput{Identifier: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginMissingFields(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	_, err := svc.Login(LoginInput{Identifier: " ", Password: "x"})
	assert.ErrorIs(t, err, ErrLoginFieldsMissing)

	_, err = svc.Login(LoginInput{Identifier: "admin", Password: ""})
	assert.ErrorIs(t, err, ErrLoginFieldsMissing)
}

func TestLoginInactiveAccount(t *testing.T) {
	st := newTestStore(t)
	svc := NewUserService(st)

	created, err := svc.Create(CreateUserInput{Name: "Cuti Panjang", Email: "cuti@klinik.local", Role: model.RolePetugas})
	require.NoError(t, err)
	_, err = svc.Update(created.ID, UpdateUserInput{Status: "Nonaktif"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Identifier: "cuti@klinik.local", Password: store.DefaultPassword})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestCreateUserDerivesDefaults(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	created, err := svc.Create(CreateUserInput{Name: "Rina", Email: "rina@klinik.local", Role: model.RolePetugas})
	require.NoError(t, err)

	assert.Equal(t, "rina", created.Username)
	assert.Equal(t, model.UserStatusActive, created.Status)
	assert.Empty(t, created.Password, "response is sanitized")

	// But the stored record carries the default credential
	_, err = svc.Login(LoginInput{Identifier: "rina", Password: store.DefaultPassword})
	require.NoError(t, err)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	_, err := svc.Create(CreateUserInput{Name: "Dobel", Email: "admin@klinik.local", Role: model.RolePetugas})
	assert.Error(t, err)

	_, err = svc.Create(CreateUserInput{Name: "Dobel", Email: "lain@klinik.local", Username: "admin", Role: model.RolePetugas})
	assert.Error(t, err)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	_, err := svc.Create(CreateUserInput{Name: "X", Email: "x@klinik.local", Role: "Hacker"})
	assert.Error(t, err)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	created, err := svc.Create(CreateUserInput{Name: "Rina", Email: "rina@klinik.local", Role: model.RolePetugas})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, UpdateUserInput{Name: "Rina Putri", Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Rina Putri", updated.Name)
	assert.Equal(t, model.RoleAdmin, updated.Role)

	require.NoError(t, svc.Delete(created.ID))
	assert.ErrorIs(t, svc.Delete(created.ID), store.ErrNotFound)

	_, err = svc.Update(created.ID, UpdateUserInput{Name: "Ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListUsersSanitizedAndSorted(t *testing.T) {
	svc := NewUserService(newTestStore(t))

	users, err := svc.List()
	require.NoError(t, err)
	require.NotEmpty(t, users)

	for i, u := range users {
		assert.Empty(t, u.Password)
		if i > 0 {
			assert.Greater(t, u.ID, users[i-1].ID)
		}
	}
}
