package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/seid21/topia-estate-be/internal/models"
)

const resetTokenTTL = time.Hour

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	CreateUser(fullName, email, password, role string) (models.User, error)
	DeleteUser(id string) error
	AuthenticateUser(email, password string) (models.User, error)
	CreateResetToken(email string) (string, error)
	ResetPassword(token, newPassword string) error
	PurgeExpiredResetTokens() (int64, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, full_name, email, role, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, full_name, email, password_hash, role, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetAllUsers lists every account, hashes omitted.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, full_name, email, role, created_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser creates a new user, hashing their password. Registration only
// accepts the buyer and seller roles.
func (s *UserService) CreateUser(fullName, email, password, role string) (models.User, error) {
	if role != models.RoleBuyer && role != models.RoleSeller {
		role = models.RoleBuyer
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.GetUserByEmail(email); err == nil {
		return models.User{}, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		FullName:  fullName,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, full_name, email, password_hash, role, created_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.FullName, user.Email, string(hashedPassword), user.Role, user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user from the database.
func (s *UserService) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// CreateResetToken stores a one-hour password reset token on the user row and
// returns it. The caller is responsible for delivering it.
func (s *UserService) CreateResetToken(email string) (string, error) {
	user, err := s.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiry := time.Now().UTC().Add(resetTokenTTL)

	if _, err := s.db.Exec("UPDATE users SET reset_token = ?, reset_token_expiry = ? WHERE id = ?", token, expiry, user.ID); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword redeems a reset token, replacing the password and clearing
// the token fields. Unknown or expired tokens fail with ErrResetTokenInvalid.
func (s *UserService) ResetPassword(token, newPassword string) error {
	var id string
	row := s.db.QueryRow("SELECT id FROM users WHERE reset_token = ? AND reset_token_expiry > ?", token, time.Now().UTC())
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return ErrResetTokenInvalid
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, reset_token = NULL, reset_token_expiry = NULL WHERE id = ?", string(hashedPassword), id)
	return err
}

// PurgeExpiredResetTokens clears reset tokens whose expiry has passed and
// returns how many rows were touched.
func (s *UserService) PurgeExpiredResetTokens() (int64, error) {
	res, err := s.db.Exec("UPDATE users SET reset_token = NULL, reset_token_expiry = NULL WHERE reset_token IS NOT NULL AND reset_token_expiry <= ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
