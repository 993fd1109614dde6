package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/internal/domain/repository"
	"github.com/yourplaces/backend/pkg/apperr"
	"github.com/yourplaces/backend/pkg/helpers"
	"github.com/yourplaces/backend/pkg/mailer"
)

// EmailPublisher enqueues email jobs for the worker. Satisfied by
// helpers.RabbitPublisher; nil disables mailing.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserService covers signup, login and user listing.
type UserService struct {
	Users  repository.UserRepository
	JWT    *helpers.JWTManager
	Pub    EmailPublisher
	Logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, jwt *helpers.JWTManager, pub EmailPublisher, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, JWT: jwt, Pub: pub, Logger: logger}
}

// Session is the result of a successful signup or login.
type Session struct {
	UserID  string
	Email   string
	Token   string
	Expires time.Time
}

type SignupInput struct {
	Name      string
	Email     string
	Password  string
	ImagePath string
}

// GetUsers lists every user. Password hashes stay server-side; the handler
// controls serialization.
func (s *UserService) GetUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Users.GetAll(ctx)
	if err != nil {
		return nil, apperr.Internal("fetching users failed", err)
	}
	return users, nil
}

// Signup creates a user and immediately issues a token for it.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, *Session, error) {
	existing, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperr.Internal("signing up failed, please try again later", err)
	}
	if existing != nil {
		return nil, nil, apperr.New(http.StatusUnprocessableEntity, "user already exists, please login instead", nil)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, nil, apperr.Internal("could not create user, please try again", err)
	}

	u := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		ImagePath:    in.ImagePath,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, apperr.New(http.StatusUnprocessableEntity, "user already exists, please login instead", err)
		}
		return nil, nil, apperr.Internal("signing up failed, please try again later", err)
	}

	sess, err := s.issueSession(u)
	if err != nil {
		return nil, nil, err
	}

	if s.Pub != nil {
		if err := s.Pub.PublishJSON(ctx, mailer.WelcomeJob(u.Name, u.Email)); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
		}
	}

	return u, sess, nil
}

// Login validates credentials and issues a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, *Session, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperr.Authentication("invalid credentials, could not log you in", nil)
		}
		return nil, nil, apperr.Internal("logging in failed, please try again later", err)
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return nil, nil, apperr.Authentication("invalid credentials, could not log you in", nil)
	}

	sess, err := s.issueSession(u)
	if err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func (s *UserService) issueSession(u *entity.User) (*Session, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		return nil, apperr.Internal("could not issue token, please try again later", err)
	}
	return &Session{UserID: u.ID, Email: u.Email, Token: token, Expires: exp}, nil
}
