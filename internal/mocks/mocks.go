// Package mocks provides hand-rolled testify mocks for the domain
// interfaces used by the application services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/pkg/geocode"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*entity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*entity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if us, ok := args.Get(0).([]*entity.User); ok {
		return us, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) AddPlace(ctx context.Context, userID, placeID string) error {
	args := m.Called(ctx, userID, placeID)
	return args.Error(0)
}

func (m *UserRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	args := m.Called(ctx, userID, placeID)
	return args.Error(0)
}

type PlaceRepository struct {
	mock.Mock
}

func (m *PlaceRepository) Create(ctx context.Context, p *entity.Place) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PlaceRepository) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*entity.Place); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlaceRepository) ListByCreator(ctx context.Context, userID string) ([]*entity.Place, error) {
	args := m.Called(ctx, userID)
	if ps, ok := args.Get(0).([]*entity.Place); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlaceRepository) Update(ctx context.Context, p *entity.Place) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PlaceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TxManager runs the scoped function inline and records whether the
// "transaction" committed or rolled back.
type TxManager struct {
	mock.Mock
	Committed  int
	RolledBack int
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.RolledBack++
		return err
	}
	m.Committed++
	return nil
}

type Geocoder struct {
	mock.Mock
}

func (m *Geocoder) Resolve(ctx context.Context, address string) (geocode.Location, error) {
	args := m.Called(ctx, address)
	if loc, ok := args.Get(0).(geocode.Location); ok {
		return loc, args.Error(1)
	}
	return geocode.Location{}, args.Error(1)
}

type FileStore struct {
	mock.Mock
}

func (m *FileStore) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

type EmailPublisher struct {
	mock.Mock
}

func (m *EmailPublisher) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}
