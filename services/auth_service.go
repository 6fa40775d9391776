package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ordnery-backend/models"
	"ordnery-backend/stores"
	"ordnery-backend/utils"
)

const (
	tokenTTL        = time.Hour
	minPasswordLen  = 6
	userTokenScope  = "user"
	adminTokenScope = "admin"
)

// UserStore is the identity persistence contract for customer accounts.
type UserStore interface {
	CreateUser(u *models.User) error
	UpdateUser(u *models.User) error
	FindUserByID(id int64) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByVerificationToken(token string) (*models.User, error)
	FindUserByResetToken(token string) (*models.User, error)
	Users() ([]models.User, error)
	CountUsers() (int64, error)
}

// AdminStore is the identity persistence contract for admin accounts.
type AdminStore interface {
	CreateAdmin(a *models.Admin) error
	FindAdminByID(id int64) (*models.Admin, error)
	FindAdminByEmail(email string) (*models.Admin, error)
}

// AuthMailer sends account emails. Delivery failures are logged and never
// fail the flow that triggered them.
type AuthMailer interface {
	SendVerificationEmail(to, link string) error
	SendPasswordResetEmail(to, name, link string) error
}

// AuthService implements registration, email verification, password flows
// and login for both users and admins.
type AuthService struct {
	Users       UserStore
	Admins      AdminStore
	Mailer      AuthMailer
	JWTSecret   string
	FrontendURL string
}

// RegisterUser creates an unverified account and emails a verification link.
// Registering an existing unverified account rotates its token and resends
// the link; resent reports which case happened.
func (s *AuthService) RegisterUser(name, email string) (resent bool, err error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return false, ErrBadRequest("name and email are required")
	}

	existing, err := s.Users.FindUserByEmail(email)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		return false, err
	}

	if existing != nil {
		if existing.IsVerified {
			return false, ErrBadRequest("user already exists and is verified, please log in")
		}
		existing.VerificationToken = utils.RandomToken()
		existing.VerificationExpires = time.Now().Add(tokenTTL)
		if err := s.Users.UpdateUser(existing); err != nil {
			return false, err
		}
		s.sendVerification(email, existing.VerificationToken)
		return true, nil
	}

	user := &models.User{
		Name:                name,
		Email:               email,
		IsVerified:          false,
		VerificationToken:   utils.RandomToken(),
		VerificationExpires: time.Now().Add(tokenTTL),
	}
	if err := s.Users.CreateUser(user); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			return false, ErrBadRequest("user already exists and is verified, please log in")
		}
		return false, err
	}
	s.sendVerification(email, user.VerificationToken)
	return false, nil
}

// VerifyEmail resolves a verification token to the set-password redirect.
// The token is deliberately kept so SetPassword can find the same account.
func (s *AuthService) VerifyEmail(token string) (redirectURL string, err error) {
	if _, err := s.userByVerificationToken(token); err != nil {
		return "", err
	}
	return s.FrontendURL + "/set-password?token=" + token, nil
}

// SetPassword finishes registration: hashes the password, marks the account
// verified and clears the verification token.
func (s *AuthService) SetPassword(token, newPassword string) error {
	if newPassword == "" {
		return ErrBadRequest("new password is required")
	}
	if len(newPassword) < minPasswordLen {
		return ErrBadRequest("password must be at least 6 characters long")
	}

	user, err := s.userByVerificationToken(token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationExpires = time.Time{}
	return s.Users.UpdateUser(user)
}

// LoginUser checks credentials and returns a signed token. Unknown emails and
// wrong passwords get the same generic answer.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.FindUserByEmail(email)
	if errors.Is(err, stores.ErrNotFound) {
		return "", nil, ErrBadRequest("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}
	if !user.IsVerified {
		return "", nil, ErrForbidden("please verify your email first")
	}
	if user.PasswordHash == "" {
		return "", nil, ErrBadRequest("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrBadRequest("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, userTokenScope, s.JWTSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ForgotPassword issues a reset token and emails the link. It never reveals
// whether the account exists; unknown emails succeed silently.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.FindUserByEmail(email)
	if errors.Is(err, stores.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	user.ResetToken = utils.RandomToken()
	user.ResetExpires = time.Now().Add(tokenTTL)
	if err := s.Users.UpdateUser(user); err != nil {
		return err
	}

	if s.Mailer != nil {
		link := s.FrontendURL + "/reset-password?token=" + user.ResetToken
		if err := s.Mailer.SendPasswordResetEmail(user.Email, user.Name, link); err != nil {
			log.Printf("[MAILER] Failed to send password reset email to %s: %v", user.Email, err)
		}
	}
	return nil
}

// ResetPassword sets a new password from a reset token.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrBadRequest("token and new password are required")
	}
	if len(newPassword) < minPasswordLen {
		return ErrBadRequest("password must be at least 6 characters long")
	}

	user, err := s.Users.FindUserByResetToken(token)
	if errors.Is(err, stores.ErrNotFound) {
		return ErrBadRequest("invalid or expired password reset token")
	}
	if err != nil {
		return err
	}
	if !user.ResetExpires.After(time.Now()) {
		return ErrBadRequest("invalid or expired password reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.IsVerified = true
	user.ResetToken = ""
	user.ResetExpires = time.Time{}
	return s.Users.UpdateUser(user)
}

// RegisterAdmin creates an admin account and logs it straight in.
func (s *AuthService) RegisterAdmin(name, email, password string) (string, *models.Admin, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return "", nil, ErrBadRequest("all fields are required")
	}

	if _, err := s.Admins.FindAdminByEmail(email); err == nil {
		return "", nil, ErrConflict("admin already exists")
	} else if !errors.Is(err, stores.ErrNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	admin := &models.Admin{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.Admins.CreateAdmin(admin); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			return "", nil, ErrConflict("admin already exists")
		}
		return "", nil, err
	}

	token, err := utils.GenerateToken(admin.ID, adminTokenScope, s.JWTSecret)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// LoginAdmin checks admin credentials and returns a signed token.
func (s *AuthService) LoginAdmin(email, password string) (string, *models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrBadRequest("email and password are required")
	}

	admin, err := s.Admins.FindAdminByEmail(email)
	if errors.Is(err, stores.ErrNotFound) {
		return "", nil, ErrBadRequest("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrBadRequest("invalid credentials")
	}

	token, err := utils.GenerateToken(admin.ID, adminTokenScope, s.JWTSecret)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

func (s *AuthService) userByVerificationToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrBadRequest("invalid or expired verification token")
	}
	user, err := s.Users.FindUserByVerificationToken(token)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, ErrBadRequest("invalid or expired verification token")
	}
	if err != nil {
		return nil, err
	}
	if !user.VerificationExpires.After(time.Now()) {
		return nil, ErrBadRequest("invalid or expired verification token")
	}
	return user, nil
}

func (s *AuthService) sendVerification(email, token string) {
	if s.Mailer == nil {
		return
	}
	link := s.FrontendURL + "/verify-email?token=" + token
	if err := s.Mailer.SendVerificationEmail(email, link); err != nil {
		log.Printf("[MAILER] Failed to send verification email to %s: %v", email, err)
	}
}
