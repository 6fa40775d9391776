package services

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ordnery-backend/models"
	"ordnery-backend/stores"
	"ordnery-backend/utils"
)

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
	admins map[int64]*models.Admin
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:  map[int64]*models.User{},
		admins: map[int64]*models.Admin{},
	}
}

func (s *fakeUserStore) CreateUser(u *models.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return stores.ErrDuplicate
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) UpdateUser(u *models.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return stores.ErrNotFound
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindUserByID(id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, stores.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (s *fakeUserStore) FindUserByVerificationToken(token string) (*models.User, error) {
	for _, u := range s.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (s *fakeUserStore) FindUserByResetToken(token string) (*models.User, error) {
	for _, u := range s.users {
		if u.ResetToken != "" && u.ResetToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (s *fakeUserStore) Users() ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) CountUsers() (int64, error) {
	return int64(len(s.users)), nil
}

func (s *fakeUserStore) CreateAdmin(a *models.Admin) error {
	for _, existing := range s.admins {
		if existing.Email == a.Email {
			return stores.ErrDuplicate
		}
	}
	s.nextID++
	a.ID = s.nextID
	a.CreatedAt = time.Now()
	cp := *a
	s.admins[a.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindAdminByID(id int64) (*models.Admin, error) {
	a, ok := s.admins[id]
	if !ok {
		return nil, stores.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *fakeUserStore) FindAdminByEmail(email string) (*models.Admin, error) {
	for _, a := range s.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, stores.ErrNotFound
}

type fakeAuthMailer struct {
	verifications []string
	resets        []string
}

func (m *fakeAuthMailer) SendVerificationEmail(to, link string) error {
	m.verifications = append(m.verifications, link)
	return nil
}

func (m *fakeAuthMailer) SendPasswordResetEmail(to, name, link string) error {
	m.resets = append(m.resets, link)
	return nil
}

func newAuthService() (*AuthService, *fakeUserStore, *fakeAuthMailer) {
	store := newFakeUserStore()
	mail := &fakeAuthMailer{}
	svc := &AuthService{
		Users:       store,
		Admins:      store,
		Mailer:      mail,
		JWTSecret:   "test-secret",
		FrontendURL: "https://shop.example",
	}
	return svc, store, mail
}

func TestRegisterVerifySetPasswordLogin(t *testing.T) {
	svc, store, mail := newAuthService()

	resent, err := svc.RegisterUser(" Ali ", " Ali@Example.COM ")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if resent {
		t.Fatal("first registration must not be a resend")
	}
	if len(mail.verifications) != 1 {
		t.Fatalf("verification emails = %d, want 1", len(mail.verifications))
	}

	user, err := store.FindUserByEmail("ali@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.IsVerified || user.VerificationToken == "" {
		t.Fatalf("user must start unverified with a token: %+v", user)
	}

	redirect, err := svc.VerifyEmail(user.VerificationToken)
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !strings.Contains(redirect, "/set-password?token="+user.VerificationToken) {
		t.Fatalf("redirect = %q", redirect)
	}

	// The token must survive verification so set-password can find the user.
	if err := svc.SetPassword(user.VerificationToken, "hunter22"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	user, _ = store.FindUserByEmail("ali@example.com")
	if !user.IsVerified || user.VerificationToken != "" {
		t.Fatalf("user must end verified with token cleared: %+v", user)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")) != nil {
		t.Fatal("stored hash does not match password")
	}

	token, logged, err := svc.LoginUser("ali@example.com", "hunter22")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("logged in as %d, want %d", logged.ID, user.ID)
	}
	id, scope, err := utils.ParseToken(token, "test-secret")
	if err != nil || id != user.ID || scope != "user" {
		t.Fatalf("token claims id=%d scope=%q err=%v", id, scope, err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, store, mail := newAuthService()

	if _, err := svc.RegisterUser("Ali", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	first, _ := store.FindUserByEmail("ali@example.com")

	// Unverified duplicate rotates the token and resends the link.
	resent, err := svc.RegisterUser("Ali", "ali@example.com")
	if err != nil {
		t.Fatalf("RegisterUser again: %v", err)
	}
	if !resent {
		t.Fatal("expected resend for unverified duplicate")
	}
	second, _ := store.FindUserByEmail("ali@example.com")
	if second.VerificationToken == first.VerificationToken {
		t.Fatal("verification token must rotate on resend")
	}
	if len(mail.verifications) != 2 {
		t.Fatalf("verification emails = %d, want 2", len(mail.verifications))
	}

	// A verified duplicate is refused.
	if err := svc.SetPassword(second.VerificationToken, "hunter22"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if _, err := svc.RegisterUser("Ali", "ali@example.com"); err == nil {
		t.Fatal("verified duplicate must be refused")
	} else if _, ok := err.(ErrBadRequest); !ok {
		t.Fatalf("got %T, want ErrBadRequest", err)
	}
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, store, _ := newAuthService()

	if _, err := svc.RegisterUser("Ali", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	user, _ := store.FindUserByEmail("ali@example.com")
	user.VerificationExpires = time.Now().Add(-time.Minute)
	_ = store.UpdateUser(user)

	if _, err := svc.VerifyEmail(user.VerificationToken); err == nil {
		t.Fatal("expired token must be rejected")
	}
	if _, err := svc.VerifyEmail("bogus"); err == nil {
		t.Fatal("unknown token must be rejected")
	}
}

func TestSetPasswordTooShort(t *testing.T) {
	svc, store, _ := newAuthService()

	if _, err := svc.RegisterUser("Ali", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	user, _ := store.FindUserByEmail("ali@example.com")

	if err := svc.SetPassword(user.VerificationToken, "abc"); err == nil {
		t.Fatal("short password must be rejected")
	} else if _, ok := err.(ErrBadRequest); !ok {
		t.Fatalf("got %T, want ErrBadRequest", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, store, _ := newAuthService()

	if _, _, err := svc.LoginUser("nobody@example.com", "pw"); err == nil {
		t.Fatal("unknown email must fail")
	} else if _, ok := err.(ErrBadRequest); !ok {
		t.Fatalf("got %T, want generic ErrBadRequest", err)
	}

	if _, err := svc.RegisterUser("Ali", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, _, err := svc.LoginUser("ali@example.com", "pw"); err == nil {
		t.Fatal("unverified user must not log in")
	} else if _, ok := err.(ErrForbidden); !ok {
		t.Fatalf("got %T, want ErrForbidden", err)
	}

	user, _ := store.FindUserByEmail("ali@example.com")
	if err := svc.SetPassword(user.VerificationToken, "hunter22"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if _, _, err := svc.LoginUser("ali@example.com", "wrong"); err == nil {
		t.Fatal("wrong password must fail")
	} else if _, ok := err.(ErrBadRequest); !ok {
		t.Fatalf("got %T, want generic ErrBadRequest", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, store, mail := newAuthService()

	// Unknown emails succeed silently and send nothing.
	if err := svc.ForgotPassword("nobody@example.com"); err != nil {
		t.Fatalf("ForgotPassword unknown: %v", err)
	}
	if len(mail.resets) != 0 {
		t.Fatal("no reset email expected for unknown account")
	}

	if _, err := svc.RegisterUser("Ali", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	user, _ := store.FindUserByEmail("ali@example.com")
	if err := svc.SetPassword(user.VerificationToken, "hunter22"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	if err := svc.ForgotPassword("Ali@Example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if len(mail.resets) != 1 {
		t.Fatalf("reset emails = %d, want 1", len(mail.resets))
	}

	user, _ = store.FindUserByEmail("ali@example.com")
	if user.ResetToken == "" {
		t.Fatal("reset token must be set")
	}

	if err := svc.ResetPassword(user.ResetToken, "newpassword"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, err := svc.LoginUser("ali@example.com", "newpassword"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.LoginUser("ali@example.com", "hunter22"); err == nil {
		t.Fatal("old password must stop working")
	}

	// The token was cleared; a second reset with it must fail.
	if err := svc.ResetPassword(user.ResetToken, "another-pw"); err == nil {
		t.Fatal("used reset token must be rejected")
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, store, _ := newAuthService()

	if _, err := svc.RegisterUser("Ali", "ali@example.com"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if err := svc.ForgotPassword("ali@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	user, _ := store.FindUserByEmail("ali@example.com")
	user.ResetExpires = time.Now().Add(-time.Minute)
	_ = store.UpdateUser(user)

	if err := svc.ResetPassword(user.ResetToken, "newpassword"); err == nil {
		t.Fatal("expired reset token must be rejected")
	}
}

func TestAdminRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService()

	token, admin, err := svc.RegisterAdmin("Boss", "boss@example.com", "superpass")
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	id, scope, err := utils.ParseToken(token, "test-secret")
	if err != nil || id != admin.ID || scope != "admin" {
		t.Fatalf("token claims id=%d scope=%q err=%v", id, scope, err)
	}

	if _, _, err := svc.RegisterAdmin("Boss", "boss@example.com", "superpass"); err == nil {
		t.Fatal("duplicate admin must be refused")
	} else if _, ok := err.(ErrConflict); !ok {
		t.Fatalf("got %T, want ErrConflict", err)
	}

	if _, _, err := svc.LoginAdmin("boss@example.com", "superpass"); err != nil {
		t.Fatalf("LoginAdmin: %v", err)
	}
	if _, _, err := svc.LoginAdmin("boss@example.com", "wrong"); err == nil {
		t.Fatal("wrong admin password must fail")
	}
	if _, _, err := svc.RegisterAdmin("", "x@example.com", "pw"); err == nil {
		t.Fatal("missing fields must be rejected")
	}
}
