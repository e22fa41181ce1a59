package services

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CreateUserInput carries the registration profile plus the plaintext
// password. The password is hashed before anything is persisted.
type CreateUserInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Phone        string
	Country      string
	BirthDate    string
	University   string
	SpanishLevel string
	StartDate    string
	Motivation   string
	Newsletter   bool
}

// profileWhitelist maps updatable JSON field names to their columns. Any
// key outside this set is silently ignored by UpdateProfile.
var profileWhitelist = map[string]string{
	"firstName":    "first_name",
	"lastName":     "last_name",
	"phone":        "phone",
	"university":   "university",
	"spanishLevel": "spanish_level",
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(input CreateUserInput) (models.User, error)
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	UpdateProfile(id string, updates map[string]string) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
	GetUserStats(id string) (models.UserStats, error)
	ListUsers(limit, offset int) ([]models.UserSummary, error)
	VerifyEmail(id string) error
}

// UserService provides business logic for user accounts and credentials.
type UserService struct {
	db         *sql.DB
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

const userColumns = `id, first_name, last_name, email, password_hash, phone, country,
	birth_date, university, spanish_level, start_date, motivation,
	newsletter, email_verified, is_active, role, created_at, updated_at`

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.Phone, &user.Country, &user.BirthDate,
		&user.University, &user.SpanishLevel, &user.StartDate,
		&user.Motivation, &user.Newsletter, &user.EmailVerified,
		&user.IsActive, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash. The email is normalized to lowercase before the lookup.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", strings.ToLower(email))
	return scanUser(row)
}

// CreateUser registers a new user, hashing their password before the
// insert. The duplicate-email pre-check exists only for a friendly error;
// the UNIQUE constraint on users.email is the authoritative guard, so a
// constraint violation from a racing insert maps to the same error.
func (s *UserService) CreateUser(input CreateUserInput) (models.User, error) {
	email := strings.ToLower(input.Email)

	if _, err := s.GetUserByEmail(email); err == nil {
		return models.User{}, ErrDuplicateEmail
	} else if err != ErrNotFound {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()

	stmt, err := s.db.Prepare(`INSERT INTO users (
		id, first_name, last_name, email, password_hash, phone, country,
		birth_date, university, spanish_level, start_date, motivation, newsletter
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		id, input.FirstName, input.LastName, email, string(hashedPassword),
		input.Phone, input.Country, input.BirthDate, input.University,
		input.SpanishLevel, input.StartDate, input.Motivation, input.Newsletter,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}

	return s.GetUserByID(id)
}

// isUniqueViolation reports whether err is the sqlite UNIQUE constraint
// failure raised by a racing duplicate insert.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// AuthenticateUser verifies a user's credentials. Unknown email and wrong
// password return the same error; an inactive account with correct
// credentials is rejected separately so the handler can return 403.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if err == ErrNotFound {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return models.User{}, ErrAccountInactive
	}

	return user, nil
}

// UpdateProfile applies whitelisted profile fields to a user. Fields not
// on the whitelist (role, email, isActive, ...) are silently ignored.
func (s *UserService) UpdateProfile(id string, updates map[string]string) (models.User, error) {
	builder := sq.Update("users").Set("updated_at", sq.Expr("CURRENT_TIMESTAMP"))

	applied := 0
	for field, column := range profileWhitelist {
		if value, ok := updates[field]; ok {
			builder = builder.Set(column, value)
			applied++
		}
	}
	if applied == 0 {
		return s.GetUserByID(id)
	}

	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.User{}, err
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return models.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.User{}, ErrNotFound
	}

	return s.GetUserByID(id)
}

// UpdatePassword verifies the current password, then hashes and stores
// the new one.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	var storedHash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&storedHash); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(hashedPassword), id)
	return err
}

// GetUserStats aggregates the dashboard activity counts for a user.
func (s *UserService) GetUserStats(id string) (models.UserStats, error) {
	var stats models.UserStats

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM attendance WHERE user_id = ?", &stats.AttendanceCount},
		{"SELECT COUNT(*) FROM forum_posts WHERE user_id = ?", &stats.ForumPostsCount},
		{"SELECT COUNT(*) FROM ai_conversations WHERE user_id = ?", &stats.AIConversationsCount},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query, id).Scan(c.dest); err != nil {
			return models.UserStats{}, err
		}
	}
	return stats, nil
}

// ListUsers returns a page of user summaries for administrators.
func (s *UserService) ListUsers(limit, offset int) ([]models.UserSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, first_name, last_name, email, spanish_level, created_at
		 FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.SpanishLevel, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// VerifyEmail marks a user's email address as verified.
func (s *UserService) VerifyEmail(id string) error {
	res, err := s.db.Exec("UPDATE users SET email_verified = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
