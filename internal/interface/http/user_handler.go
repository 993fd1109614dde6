package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourplaces/backend/internal/application"
	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/internal/interface/middleware"
	"github.com/yourplaces/backend/pkg/apperr"
	"github.com/yourplaces/backend/pkg/upload"
	"github.com/yourplaces/backend/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Uploads *upload.Store
	Logger  *logrus.Logger
}

func NewUserHandler(svc *application.UserService, uploads *upload.Store, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Uploads: uploads, Logger: logger}
}

type signupForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

func toUserResponse(u *entity.User) userResponse {
	places := u.PlaceIDs
	if places == nil {
		places = []string{}
	}
	return userResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.ImagePath,
		Places: places,
	}
}

type sessionResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.GetUsers(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// Signup POST /api/users/signup — multipart with an avatar image file.
func (h *UserHandler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		abort(c, apperr.Validation("invalid inputs passed, please check your data", err).
			WithDetails(validation.ToDetails(err)))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		abort(c, apperr.Validation("an image is required", err))
		return
	}
	imagePath, err := h.Uploads.Save(file)
	if err != nil {
		abort(c, apperr.Validation("could not store the provided image", err))
		return
	}
	c.Set(middleware.CtxUploadedFileKey, imagePath)

	_, sess, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:      form.Name,
		Email:     form.Email,
		Password:  form.Password,
		ImagePath: imagePath,
	})
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{UserID: sess.UserID, Email: sess.Email, Token: sess.Token})
}

// Login POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation("invalid inputs passed, please check your data", err).
			WithDetails(validation.ToDetails(err)))
		return
	}

	_, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{UserID: sess.UserID, Email: sess.Email, Token: sess.Token})
}
