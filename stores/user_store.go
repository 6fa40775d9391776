package stores

import (
	"database/sql"
	"errors"
	"time"

	"ordnery-backend/models"
)

// UserStore persists customer and admin accounts.
type UserStore struct {
	DB *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{DB: db}
}

const userColumns = `id, name, email, password_hash, is_verified,
	verification_token, verification_expires, reset_token, reset_expires,
	created_at, updated_at`

func (s *UserStore) CreateUser(u *models.User) error {
	res, err := s.DB.Exec(
		`INSERT INTO users (name, email, password_hash, is_verified,
		                    verification_token, verification_expires, reset_token, reset_expires)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.IsVerified,
		u.VerificationToken, nullTime(u.VerificationExpires),
		u.ResetToken, nullTime(u.ResetExpires),
	)
	if err != nil {
		return mapMySQLError(err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *UserStore) UpdateUser(u *models.User) error {
	res, err := s.DB.Exec(
		`UPDATE users SET name = ?, password_hash = ?, is_verified = ?,
		        verification_token = ?, verification_expires = ?,
		        reset_token = ?, reset_expires = ?
		 WHERE id = ?`,
		u.Name, u.PasswordHash, u.IsVerified,
		u.VerificationToken, nullTime(u.VerificationExpires),
		u.ResetToken, nullTime(u.ResetExpires),
		u.ID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		if _, err := s.FindUserByID(u.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserStore) FindUserByID(id int64) (*models.User, error) {
	return s.findUser(`id = ?`, id)
}

func (s *UserStore) FindUserByEmail(email string) (*models.User, error) {
	return s.findUser(`email = ?`, email)
}

func (s *UserStore) FindUserByVerificationToken(token string) (*models.User, error) {
	return s.findUser(`verification_token = ? AND verification_token != ''`, token)
}

func (s *UserStore) FindUserByResetToken(token string) (*models.User, error) {
	return s.findUser(`reset_token = ? AND reset_token != ''`, token)
}

func (s *UserStore) Users() ([]models.User, error) {
	rows, err := s.DB.Query(
		`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) CountUsers() (int64, error) {
	var n int64
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *UserStore) CreateAdmin(a *models.Admin) error {
	res, err := s.DB.Exec(
		`INSERT INTO admins (name, email, password_hash) VALUES (?, ?, ?)`,
		a.Name, a.Email, a.PasswordHash,
	)
	if err != nil {
		return mapMySQLError(err)
	}
	a.ID, err = res.LastInsertId()
	return err
}

func (s *UserStore) FindAdminByID(id int64) (*models.Admin, error) {
	return s.findAdmin(`id = ?`, id)
}

func (s *UserStore) FindAdminByEmail(email string) (*models.Admin, error) {
	return s.findAdmin(`email = ?`, email)
}

func (s *UserStore) findUser(where string, args ...any) (*models.User, error) {
	row := s.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE `+where, args...)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *UserStore) findAdmin(where string, args ...any) (*models.Admin, error) {
	var a models.Admin
	err := s.DB.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM admins WHERE `+where, args...,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                   models.User
		verifyExp, resetExp sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsVerified,
		&u.VerificationToken, &verifyExp, &u.ResetToken, &resetExp,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if verifyExp.Valid {
		u.VerificationExpires = verifyExp.Time
	}
	if resetExp.Valid {
		u.ResetExpires = resetExp.Time
	}
	return &u, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
