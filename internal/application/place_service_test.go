package application

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/internal/domain/repository"
	"github.com/yourplaces/backend/internal/mocks"
	"github.com/yourplaces/backend/pkg/apperr"
	"github.com/yourplaces/backend/pkg/geocode"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type placeFixture struct {
	places   *mocks.PlaceRepository
	users    *mocks.UserRepository
	tx       *mocks.TxManager
	geocoder *mocks.Geocoder
	files    *mocks.FileStore
	svc      *PlaceService
}

func newPlaceFixture() *placeFixture {
	f := &placeFixture{
		places:   &mocks.PlaceRepository{},
		users:    &mocks.UserRepository{},
		tx:       &mocks.TxManager{},
		geocoder: &mocks.Geocoder{},
		files:    &mocks.FileStore{},
	}
	f.svc = NewPlaceService(f.places, f.users, f.tx, f.geocoder, f.files, quietLogger(), nil, "")
	return f
}

func TestCreatePlaceSuccess(t *testing.T) {
	f := newPlaceFixture()
	ctx := context.Background()

	f.geocoder.On("Resolve", mock.Anything, "1 Main St").
		Return(geocode.Location{Lat: 40.7, Lng: -74.0}, nil)
	f.users.On("GetByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1"}, nil)
	f.places.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Place).ID = "place-1"
		}).Return(nil)
	f.users.On("AddPlace", mock.Anything, "user-1", "place-1").Return(nil)

	p, err := f.svc.Create(ctx, CreatePlaceInput{
		Title:       "Cafe",
		Description: "Nice coffee shop",
		Address:     "1 Main St",
		ImagePath:   "uploads/images/a.png",
		CreatorID:   "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "place-1", p.ID)
	assert.Equal(t, "user-1", p.CreatorID)
	assert.InDelta(t, 40.7, p.Location.Lat, 1e-9)
	assert.Equal(t, 1, f.tx.Committed)
	f.users.AssertCalled(t, "AddPlace", mock.Anything, "user-1", "place-1")
}

func TestCreatePlaceGeocodingFailureAbortsBeforeWrites(t *testing.T) {
	f := newPlaceFixture()

	f.geocoder.On("Resolve", mock.Anything, "nowhere").
		Return(geocode.Location{}, &geocode.Error{Status: http.StatusUnprocessableEntity, Message: "could not find location for the specified address"})

	_, err := f.svc.Create(context.Background(), CreatePlaceInput{Address: "nowhere", CreatorID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperr.From(err).Status)

	f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.places.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Zero(t, f.tx.Committed)
	assert.Zero(t, f.tx.RolledBack)
}

func TestCreatePlaceUnknownCreator(t *testing.T) {
	f := newPlaceFixture()

	f.geocoder.On("Resolve", mock.Anything, mock.Anything).
		Return(geocode.Location{Lat: 1, Lng: 2}, nil)
	f.users.On("GetByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Create(context.Background(), CreatePlaceInput{Address: "1 Main St", CreatorID: "ghost"})
	assert.Equal(t, http.StatusNotFound, apperr.From(err).Status)
	f.places.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePlaceUserWriteFailureRollsBack(t *testing.T) {
	f := newPlaceFixture()

	f.geocoder.On("Resolve", mock.Anything, mock.Anything).
		Return(geocode.Location{Lat: 1, Lng: 2}, nil)
	f.users.On("GetByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1"}, nil)
	f.places.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Place).ID = "place-1"
		}).Return(nil)
	// the place insert succeeded inside the transaction; the index append
	// fails, so the whole unit must roll back
	f.users.On("AddPlace", mock.Anything, "user-1", "place-1").
		Return(errors.New("connection reset"))

	_, err := f.svc.Create(context.Background(), CreatePlaceInput{Address: "1 Main St", CreatorID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperr.From(err).Status)
	assert.Equal(t, "creating place failed, please try again", apperr.From(err).Message)
	assert.Equal(t, 1, f.tx.RolledBack)
	assert.Zero(t, f.tx.Committed)
}

func TestCreatePlaceTwiceProducesDistinctIDs(t *testing.T) {
	f := newPlaceFixture()

	f.geocoder.On("Resolve", mock.Anything, mock.Anything).
		Return(geocode.Location{Lat: 1, Lng: 2}, nil)
	f.users.On("GetByID", mock.Anything, "user-1").
		Return(&entity.User{ID: "user-1"}, nil)
	f.places.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Place).ID = uuid.NewString()
		}).Return(nil)
	f.users.On("AddPlace", mock.Anything, "user-1", mock.Anything).Return(nil)

	in := CreatePlaceInput{Title: "Cafe", Description: "Nice coffee shop", Address: "1 Main St", CreatorID: "user-1"}
	p1, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	p2, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID, p2.ID)
	assert.Equal(t, 2, f.tx.Committed)
}

func TestUpdatePlaceOwnershipViolation(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("GetByID", mock.Anything, "place-1").
		Return(&entity.Place{ID: "place-1", CreatorID: "user-b"}, nil)

	_, err := f.svc.Update(context.Background(), "user-a", "place-1", "new title", "new description")
	assert.Equal(t, http.StatusUnauthorized, apperr.From(err).Status)
	f.places.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdatePlaceSuccess(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("GetByID", mock.Anything, "place-1").
		Return(&entity.Place{ID: "place-1", CreatorID: "user-a", Title: "old"}, nil)
	f.places.On("Update", mock.Anything, mock.Anything).Return(nil)

	p, err := f.svc.Update(context.Background(), "user-a", "place-1", "new title", "long enough")
	require.NoError(t, err)
	assert.Equal(t, "new title", p.Title)
	assert.Equal(t, "long enough", p.Description)
	// no transaction involved for a single-row update
	assert.Zero(t, f.tx.Committed)
}

func TestDeletePlaceSuccessReleasesImageAfterCommit(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("GetByID", mock.Anything, "place-1").
		Return(&entity.Place{ID: "place-1", CreatorID: "user-a", ImagePath: "uploads/images/a.png"}, nil)
	f.places.On("Delete", mock.Anything, "place-1").Return(nil)
	f.users.On("RemovePlace", mock.Anything, "user-a", "place-1").Return(nil)
	f.files.On("Remove", "uploads/images/a.png").Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), "user-a", "place-1"))
	assert.Equal(t, 1, f.tx.Committed)
	f.files.AssertCalled(t, "Remove", "uploads/images/a.png")
}

func TestDeletePlaceImageCleanupFailureNotSurfaced(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("GetByID", mock.Anything, "place-1").
		Return(&entity.Place{ID: "place-1", CreatorID: "user-a", ImagePath: "uploads/images/a.png"}, nil)
	f.places.On("Delete", mock.Anything, "place-1").Return(nil)
	f.users.On("RemovePlace", mock.Anything, "user-a", "place-1").Return(nil)
	f.files.On("Remove", "uploads/images/a.png").Return(errors.New("permission denied"))

	// cleanup failure is logged only; the delete already committed
	assert.NoError(t, f.svc.Delete(context.Background(), "user-a", "place-1"))
}

func TestDeletePlaceOwnershipViolation(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("GetByID", mock.Anything, "place-1").
		Return(&entity.Place{ID: "place-1", CreatorID: "user-b"}, nil)

	err := f.svc.Delete(context.Background(), "user-a", "place-1")
	assert.Equal(t, http.StatusUnauthorized, apperr.From(err).Status)
	f.places.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.files.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestDeletePlaceRollbackKeepsImage(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("GetByID", mock.Anything, "place-1").
		Return(&entity.Place{ID: "place-1", CreatorID: "user-a", ImagePath: "uploads/images/a.png"}, nil)
	f.places.On("Delete", mock.Anything, "place-1").Return(nil)
	f.users.On("RemovePlace", mock.Anything, "user-a", "place-1").
		Return(errors.New("connection reset"))

	err := f.svc.Delete(context.Background(), "user-a", "place-1")
	require.Error(t, err)
	assert.Equal(t, 1, f.tx.RolledBack)
	f.files.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestGetPlaceNotFound(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("GetByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, err := f.svc.GetPlace(context.Background(), "ghost")
	assert.Equal(t, http.StatusNotFound, apperr.From(err).Status)
}

func TestListByUserEmptyIsNotFound(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("ListByCreator", mock.Anything, "user-1").
		Return([]*entity.Place{}, nil)

	_, err := f.svc.ListByUser(context.Background(), "user-1")
	assert.Equal(t, http.StatusNotFound, apperr.From(err).Status)
}

func TestListByUserReturnsPlaces(t *testing.T) {
	f := newPlaceFixture()

	f.places.On("ListByCreator", mock.Anything, "user-1").
		Return([]*entity.Place{{ID: "place-1", CreatorID: "user-1"}}, nil)

	places, err := f.svc.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "user-1", places[0].CreatorID)
}
