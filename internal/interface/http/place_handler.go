package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourplaces/backend/internal/application"
	"github.com/yourplaces/backend/internal/domain/entity"
	"github.com/yourplaces/backend/internal/interface/middleware"
	"github.com/yourplaces/backend/pkg/apperr"
	"github.com/yourplaces/backend/pkg/upload"
	"github.com/yourplaces/backend/pkg/validation"
)

type PlaceHandler struct {
	Svc     *application.PlaceService
	Uploads *upload.Store
	Logger  *logrus.Logger
}

func NewPlaceHandler(svc *application.PlaceService, uploads *upload.Store, logger *logrus.Logger) *PlaceHandler {
	return &PlaceHandler{Svc: svc, Uploads: uploads, Logger: logger}
}

type createPlaceForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required,min=5"`
	Address     string `form:"address" binding:"required"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,min=5"`
}

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type placeResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Location    locationResponse `json:"location"`
	Image       string           `json:"image"`
	Creator     string           `json:"creator"`
}

func toPlaceResponse(p *entity.Place) placeResponse {
	return placeResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    locationResponse{Lat: p.Location.Lat, Lng: p.Location.Lng},
		Image:       p.ImagePath,
		Creator:     p.CreatorID,
	}
}

// GetByID GET /api/places/:placeId
func (h *PlaceHandler) GetByID(c *gin.Context) {
	p, err := h.Svc.GetPlace(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": toPlaceResponse(p)})
}

// ListByUser GET /api/places/user/:userId
func (h *PlaceHandler) ListByUser(c *gin.Context) {
	places, err := h.Svc.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		abort(c, err)
		return
	}
	out := make([]placeResponse, 0, len(places))
	for _, p := range places {
		out = append(out, toPlaceResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"places": out})
}

// Search GET /api/places/search?q=&size=
func (h *PlaceHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": hits})
}

// Create POST /api/places — multipart with an image file. The creator is
// the verified token identity, never a form field.
func (h *PlaceHandler) Create(c *gin.Context) {
	var form createPlaceForm
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

	p, err := h.Svc.Create(c.Request.Context(), application.CreatePlaceInput{
		Title:       form.Title,
		Description: form.Description,
		Address:     form.Address,
		ImagePath:   imagePath,
		CreatorID:   c.GetString(middleware.CtxUserIDKey),
	})
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"place": toPlaceResponse(p)})
}

// Update PATCH /api/places/:placeId
func (h *PlaceHandler) Update(c *gin.Context) {
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation("invalid inputs passed, please check your data", err).
			WithDetails(validation.ToDetails(err)))
		return
	}

	p, err := h.Svc.Update(c.Request.Context(),
		c.GetString(middleware.CtxUserIDKey), c.Param("placeId"),
		req.Title, req.Description)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": toPlaceResponse(p)})
}

// Delete DELETE /api/places/:placeId
func (h *PlaceHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(),
		c.GetString(middleware.CtxUserIDKey), c.Param("placeId"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted place"})
}

// abort hands the error to the centralized translator.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
