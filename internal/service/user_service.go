package service

import (
	"errors"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medrelease/internal/model"
	"medrelease/internal/store"
)

// Login failure reasons. The source distinguishes "not found" from "wrong
// credential" in user-facing text; that minor information leak is
// inherited as-is (flagged, not fixed).
var (
	ErrLoginFieldsMissing = errors.New("email/username dan password wajib diisi")
	ErrUserNotFound       = errors.New("pengguna tidak ditemukan")
	ErrUserInactive       = errors.New("akun tidak aktif")
	ErrWrongPassword      = errors.New("password salah")
)

// DTOs for user operations.
type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LoginResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type CreateUserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password"`
}

type UpdateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Password string `json:"password"`
}

// UserService defines login and account management over the document's
// users map.
type UserService interface {
	Login(input LoginInput) (*LoginResult, error)
	List() ([]model.User, error)
	Create(input CreateUserInput) (*model.User, error)
	Update(id int, input UpdateUserInput) (*model.User, error)
	Delete(id int) error
}

type userService struct {
	store *store.Store
}

// NewUserService returns a new instance of UserService.
func NewUserService(st *store.Store) UserService {
	return &userService{store: st}
}

// Helper: check if role is allowed
func validateUserRole(role string) bool {
	return role == model.RoleSuperAdmin || role == model.RoleAdmin || role == model.RolePetugas
}

// sortedUserIDs makes map iteration deterministic ("first user with a
// role" is the lowest id).
func sortedUserIDs(users map[int]model.User) []int {
	ids := make([]int, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Login matches the identifier case-insensitively against email, username
// and display name, checks the account is active, and compares the stored
// plaintext credential. The returned user is sanitized.
func (s *userService) Login(input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Identifier) == "" || input.Password == "" {
		return nil, ErrLoginFieldsMissing
	}
	ident := strings.ToLower(strings.TrimSpace(input.Identifier))

	var match *model.User
	err := s.store.View(func(doc *model.Document) error {
		for _, id := range sortedUserIDs(doc.Users) {
			u := doc.Users[id]
			if strings.ToLower(u.Email) == ident ||
				strings.ToLower(u.Username) == ident ||
				strings.ToLower(u.Name) == ident {
				match = &u
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if match == nil {
		return nil, ErrUserNotFound
	}
	if match.Status != model.UserStatusActive {
		return nil, ErrUserInactive
	}
	if match.Password != input.Password {
		return nil, ErrWrongPassword
	}

	token, err := signToken(*match)
	if err != nil {
		return nil, errors.New("gagal membuat token")
	}
	return &LoginResult{User: match.Sanitized(), Token: token}, nil
}

// signToken issues the session JWT for the HTTP facade.
func signToken(u model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"name": u.Name,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	// Same fallback strategy as the middleware; see middleware.GetJWTSecret
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}
	return token.SignedString([]byte(secret))
}

func (s *userService) List() ([]model.User, error) {
	var out []model.User
	err := s.store.View(func(doc *model.Document) error {
		for _, id := range sortedUserIDs(doc.Users) {
			out = append(out, doc.Users[id].Sanitized())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *userService) Create(input CreateUserInput) (*model.User, error) {
	if !validateUserRole(input.Role) {
		return nil, errors.New("role tidak valid: harus Super Admin, Admin, atau Petugas")
	}
	if input.Username == "" {
		if at := strings.Index(input.Email, "@"); at > 0 {
			input.Username = input.Email[:at]
		}
	}
	if input.Password == "" {
		input.Password = store.DefaultPassword
	}

	var created model.User
	err := s.store.Update(func(doc *model.Document) error {
		maxID := 0
		for _, id := range sortedUserIDs(doc.Users) {
			u := doc.Users[id]
			if strings.EqualFold(u.Email, input.Email) {
				return errors.New("email sudah terdaftar")
			}
			if strings.EqualFold(u.Username, input.Username) {
				return errors.New("username sudah terdaftar")
			}
			if id > maxID {
				maxID = id
			}
		}
		created = model.User{
			ID:       maxID + 1,
			Name:     input.Name,
			Email:    input.Email,
			Username: input.Username,
			Role:     input.Role,
			Status:   model.UserStatusActive,
			JoinDate: time.Now().Format("2006-01-02"),
			Password: input.Password,
		}
		if doc.Users == nil {
			doc.Users = make(map[int]model.User)
		}
		doc.Users[created.ID] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	created = created.Sanitized()
	return &created, nil
}

func (s *userService) Update(id int, input UpdateUserInput) (*model.User, error) {
	if input.Role != "" && !validateUserRole(input.Role) {
		return nil, errors.New("role tidak valid: harus Super Admin, Admin, atau Petugas")
	}

	var updated model.User
	err := s.store.Update(func(doc *model.Document) error {
		u, ok := doc.Users[id]
		if !ok {
			return store.ErrNotFound
		}
		if input.Name != "" {
			u.Name = input.Name
		}
		if input.Email != "" {
			u.Email = input.Email
		}
		if input.Username != "" {
			u.Username = input.Username
		}
		if input.Role != "" {
			u.Role = input.Role
		}
		if input.Status != "" {
			u.Status = input.Status
		}
		if input.Password != "" {
			u.Password = input.Password
		}
		doc.Users[id] = u
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	updated = updated.Sanitized()
	return &updated, nil
}

func (s *userService) Delete(id int) error {
	return s.store.Update(func(doc *model.Document) error {
		if _, ok := doc.Users[id]; !ok {
			return store.ErrNotFound
		}
		delete(doc.Users, id)
		return nil
	})
}
