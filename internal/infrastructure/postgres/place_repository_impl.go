package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/internal/domain/repository"
)

type PlaceRepository struct {
	pool *pgxpool.Pool
}

func NewPlaceRepository(pool *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{pool: pool}
}

var _ repository.PlaceRepository = (*PlaceRepository)(nil)

const placeColumns = `id, title, description, address, lat, lng, image_path, creator_id, created_at, updated_at`

func scanPlace(row pgx.Row) (*entity.Place, error) {
	p := &entity.Place{}
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address,
		&p.Location.Lat, &p.Location.Lng, &p.ImagePath, &p.CreatorID,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PlaceRepository) Create(ctx context.Context, p *entity.Place) error {
	row := queryRunner(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO places (title, description, address, lat, lng, image_path, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Description, p.Address, p.Location.Lat, p.Location.Lng, p.ImagePath, p.CreatorID)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	return scanPlace(queryRunner(ctx, r.pool).QueryRow(ctx, `
		SELECT `+placeColumns+`
		FROM places
		WHERE id = $1
	`, id))
}

// ListByCreator returns the creator's places in the order of the user's
// place index, so listings match insertion order.
func (r *PlaceRepository) ListByCreator(ctx context.Context, userID string) ([]*entity.Place, error) {
	rows, err := queryRunner(ctx, r.pool).Query(ctx, `
		SELECT `+placeColumns+`
		FROM places
		WHERE creator_id = $1
		ORDER BY array_position((SELECT place_ids FROM users WHERE id = $1), id)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := make([]*entity.Place, 0)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// Update writes title and description only; address, location, image and
// creator are immutable after creation.
func (r *PlaceRepository) Update(ctx context.Context, p *entity.Place) error {
	res, err := queryRunner(ctx, r.pool).Exec(ctx, `
		UPDATE places
		SET title = $1, description = $2, updated_at = now()
		WHERE id = $3
	`, p.Title, p.Description, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	res, err := queryRunner(ctx, r.pool).Exec(ctx, `
		DELETE FROM places
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
