package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted on change.
const MinPasswordLength = 8

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPassword         = errors.New("account has no password")
	ErrPasswordTooShort   = errors.New("password_too_short")
	ErrPasswordMismatch   = errors.New("password_mismatch")
	ErrNotAllowed         = errors.New("email is not an administrator")
)

// AllowList holds the lower-cased emails allowed to sign in with Google.
type AllowList map[string]struct{}

// ParseAllowList reads a comma separated ADMIN_EMAILS value.
func ParseAllowList(raw string) AllowList {
	out := AllowList{}
	for _, part := range strings.Split(raw, ",") {
		if e := normalizeEmail(part); e != "" {
			out[e] = struct{}{}
		}
	}
	return out
}

func (a AllowList) Allows(email string) bool {
	_, ok := a[normalizeEmail(email)]
	return ok
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type Service struct {
	db    *gorm.DB
	admin AllowList
	log   *zap.Logger
	now   func() time.Time
}

func NewService(db *gorm.DB, admins AllowList, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, admin: admins, log: log, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureAdmin creates the bootstrap account when it does not exist yet.
// An existing account is left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if n > 0 {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	h := string(hashed)
	u := User{Email: email, Password: &h, AuthProvider: ProviderLocal, Role: RoleAdmin}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.log.Info("admin account created", zap.String("email", email))
	return nil
}

// Authenticate checks an email/password pair and stamps the login time.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() {
		return nil, ErrNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	s.touch(ctx, &u)
	return &u, nil
}

// ChangePassword replaces the password of id. The confirmation has to match.
func (s *Service) ChangePassword(ctx context.Context, id uint, password, confirm string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password", string(hashed))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SignInWithGoogle links or creates the account behind a verified Google
// identity. Emails outside the allow list are refused.
func (s *Service) SignInWithGoogle(ctx context.Context, sub, email, name string) (*User, error) {
	email = normalizeEmail(email)
	if !s.admin.Allows(email) {
		return nil, ErrNotAllowed
	}
	db := s.db.WithContext(ctx)

	var u User
	if sub != "" {
		if err := db.Where("google_sub = ?", sub).First(&u).Error; err == nil {
			s.touch(ctx, &u)
			return &u, nil
		}
	}

	err := db.Where("email = ?", email).First(&u).Error
	switch {
	case err == nil:
		if u.GoogleSub == nil {
			u.GoogleSub = &sub
			if err := db.Model(&u).Update("google_sub", sub).Error; err != nil {
				return nil, err
			}
		}
		s.touch(ctx, &u)
		return &u, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	u = User{Email: email, Name: name, AuthProvider: ProviderGoogle, GoogleSub: &sub, Role: RoleAdmin}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	s.touch(ctx, &u)
	return &u, nil
}

func (s *Service) touch(ctx context.Context, u *User) {
	now := s.now()
	if err := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Update("last_login_at", now).Error; err != nil {
		s.log.Warn("stamp login failed", zap.Uint("user_id", u.ID), zap.Error(err))
		return
	}
	u.LastLoginAt = &now
}
