package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	"blogCMS/internal/models"
)

const userColumns = `user_id, github_id, username, email, avatar_url, is_admin, created_at, last_login`

type userRepository struct {
	db Queryer
}

func NewUserRepository(db Queryer) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, github_id, username, email, avatar_url, is_admin, created_at, last_login)
		VALUES (:user_id, :github_id, :username, :email, :avatar_url, :is_admin, :created_at, :last_login)
	`

	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return translateError(err, "Пользователь GitHub уже зарегистрирован", "Ошибка при создании пользователя")
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID)
}

func (r *userRepository) GetByGitHubID(ctx context.Context, githubID string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE github_id = ?`, githubID)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(query), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Пользователь не найден")
		}
		return nil, models.NewStorageError("Ошибка при получении пользователя", err)
	}

	return &user, nil
}

// UpdateProfile refreshes the data synced from GitHub. Admin rights are never touched.
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			username = :username,
			email = :email,
			avatar_url = :avatar_url,
			last_login = :last_login
		WHERE user_id = :user_id
	`

	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return models.NewStorageError("Ошибка при обновлении пользователя", err)
	}

	return checkAffected(result, "Пользователь не найден")
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, models.NewStorageError("Ошибка при получении пользователей", err)
	}

	return users, nil
}
