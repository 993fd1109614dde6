package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ repository.UserRepository = (*UserRepository)(nil)

const userColumns = `id, name, email, password_hash, image_path, place_ids, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ImagePath,
		&u.PlaceIDs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := queryRunner(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, image_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id, place_ids, created_at, updated_at
	`, u.Name, u.Email, u.PasswordHash, u.ImagePath)

	if err := row.Scan(&u.ID, &u.PlaceIDs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(queryRunner(ctx, r.pool).QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(queryRunner(ctx, r.pool).QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := queryRunner(ctx, r.pool).Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddPlace appends a place id to the user's derived place index. Only the
// place service calls this, inside the same transaction as the place insert.
func (r *UserRepository) AddPlace(ctx context.Context, userID, placeID string) error {
	res, err := queryRunner(ctx, r.pool).Exec(ctx, `
		UPDATE users
		SET place_ids = array_append(place_ids, $2), updated_at = now()
		WHERE id = $1
	`, userID, placeID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemovePlace drops a place id from the user's derived place index.
func (r *UserRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	res, err := queryRunner(ctx, r.pool).Exec(ctx, `
		UPDATE users
		SET place_ids = array_remove(place_ids, $2), updated_at = now()
		WHERE id = $1
	`, userID, placeID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
