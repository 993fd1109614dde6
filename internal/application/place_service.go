package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/internal/domain/repository"
	"github.com/yourplaces/backend/pkg/apperr"
	"github.com/yourplaces/backend/pkg/geocode"
)

// Geocoder resolves a street address to a coordinate. Satisfied by
// geocode.Client.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (geocode.Location, error)
}

// FileStore releases stored image files. Satisfied by upload.Store.
type FileStore interface {
	Remove(path string) error
}

// PlaceService owns every place mutation. Create and Delete also maintain
// the owning user's place index; both writes happen in one transaction so
// Place.CreatorID and User.PlaceIDs never disagree.
type PlaceService struct {
	Places   repository.PlaceRepository
	Users    repository.UserRepository
	Tx       repository.TxManager
	Geocoder Geocoder
	Files    FileStore
	Logger   *logrus.Logger

	ES      *elasticsearch.Client
	ESIndex string
}

func NewPlaceService(
	places repository.PlaceRepository,
	users repository.UserRepository,
	tx repository.TxManager,
	geocoder Geocoder,
	files FileStore,
	logger *logrus.Logger,
	es *elasticsearch.Client,
	esIndex string,
) *PlaceService {
	return &PlaceService{
		Places:   places,
		Users:    users,
		Tx:       tx,
		Geocoder: geocoder,
		Files:    files,
		Logger:   logger,
		ES:       es,
		ESIndex:  esIndex,
	}
}

type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	ImagePath   string
	CreatorID   string
}

func (s *PlaceService) GetPlace(ctx context.Context, id string) (*entity.Place, error) {
	p, err := s.Places.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("could not find a place for the provided place id")
		}
		return nil, apperr.Internal("something went wrong, could not find a place", err)
	}
	return p, nil
}

// ListByUser returns the user's places. A user with zero places yields 404,
// indistinguishable from a missing user — kept from the upstream contract.
func (s *PlaceService) ListByUser(ctx context.Context, userID string) ([]*entity.Place, error) {
	places, err := s.Places.ListByCreator(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("something went wrong, could not find places", err)
	}
	if len(places) == 0 {
		return nil, apperr.NotFound("could not find places for the provided user id")
	}
	return places, nil
}

// Create geocodes the address, then inserts the place and appends its id to
// the creator's place index inside one transaction. Geocoding or creator
// lookup failures abort before any write.
func (s *PlaceService) Create(ctx context.Context, in CreatePlaceInput) (*entity.Place, error) {
	loc, err := s.Geocoder.Resolve(ctx, in.Address)
	if err != nil {
		var ge *geocode.Error
		if errors.As(err, &ge) {
			return nil, apperr.New(ge.Status, ge.Message, err)
		}
		return nil, apperr.Internal("could not resolve address", err)
	}

	if _, err := s.Users.GetByID(ctx, in.CreatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("could not find user for the provided id")
		}
		return nil, apperr.Internal("creating place failed, please try again", err)
	}

	p := &entity.Place{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    entity.Location{Lat: loc.Lat, Lng: loc.Lng},
		ImagePath:   in.ImagePath,
		CreatorID:   in.CreatorID,
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Places.Create(ctx, p); err != nil {
			return err
		}
		return s.Users.AddPlace(ctx, in.CreatorID, p.ID)
	})
	if err != nil {
		return nil, apperr.Transaction("creating place failed, please try again", err)
	}

	s.indexPlace(ctx, p)
	return p, nil
}

// Update changes title and description only. Single-row write, no
// transaction; the ownership check is the only gate.
func (s *PlaceService) Update(ctx context.Context, callerID, placeID, title, description string) (*entity.Place, error) {
	p, err := s.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if p.CreatorID != callerID {
		return nil, apperr.NotAuthorized("you are not allowed to edit this place")
	}

	p.Title = title
	p.Description = description
	if err := s.Places.Update(ctx, p); err != nil {
		return nil, apperr.Internal("updating place failed, please try again", err)
	}

	s.indexPlace(ctx, p)
	return p, nil
}

// Delete removes the place and detaches it from its owner in one
// transaction. The image file is released only after a successful commit;
// cleanup failure is logged, never surfaced.
func (s *PlaceService) Delete(ctx context.Context, callerID, placeID string) error {
	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("could not find place for this id")
		}
		return apperr.Internal("something went wrong, deleting place failed", err)
	}
	if p.CreatorID != callerID {
		return apperr.NotAuthorized("you are not allowed to delete this place")
	}

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Places.Delete(ctx, placeID); err != nil {
			return err
		}
		return s.Users.RemovePlace(ctx, p.CreatorID, placeID)
	})
	if err != nil {
		return apperr.Transaction("deleting place failed, please try again", err)
	}

	if err := s.Files.Remove(p.ImagePath); err != nil {
		s.Logger.WithError(err).WithField("path", p.ImagePath).Warn("failed to remove place image")
	}
	s.deindexPlace(ctx, placeID)
	return nil
}

// Search queries the place index on title, description and address.
// Returns empty results when no index is configured.
func (s *PlaceService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "address"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, apperr.Internal("searching places failed", err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperr.Internal("searching places failed", err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *PlaceService) indexPlace(ctx context.Context, p *entity.Place) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"address":     p.Address,
		"creator_id":  p.CreatorID,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("place_id", p.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("place_id", p.ID).Warn("es index response error")
	}
}

func (s *PlaceService) deindexPlace(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("place_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}
