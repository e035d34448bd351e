package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialink/internal/domain"
	"socialink/internal/repository"
	"socialink/internal/service"
)

// UserHandler mantiene dependencias para los endpoints de usuarios y de la
// lista de perfiles guardados.
type UserHandler struct {
	logger   *zap.Logger
	users    repository.UserRepository
	profiles repository.ProfileRepository
	saved    *service.SavedProfilesService
}

func NewUserHandler(logger *zap.Logger, users repository.UserRepository, profiles repository.ProfileRepository, saved *service.SavedProfilesService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		users:    users,
		profiles: profiles,
		saved:    saved,
	}
}

// ListUsers maneja GET /users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListWithProfiles maneja GET /users/profiles. Solo exige que la cookie de
// acceso esté presente; no valida el token.
func (h *UserHandler) ListWithProfiles(c *gin.Context) {
	if accessToken, _ := c.Cookie(accessCookieName); accessToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	users, err := h.users.ListWithProfiles(c.Request.Context())
	if err != nil {
		h.logger.Error("list users with profiles failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser maneja POST /users: alta de perfil sin identidad de auth.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Major       string `json:"major"`
		Bio         string `json:"bio"`
		GradYear    *int   `json:"grad_year"`
		DateOfBirth string `json:"date_of_birth"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth"})
		return
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Major:     req.Major,
		Bio:       req.Bio,
		GradYear:  req.GradYear,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	profile := domain.UserProfile{
		UserID:      user.ID,
		Bio:         req.Bio,
		DateOfBirth: dob,
	}
	if err := h.profiles.Create(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "profile": profile})
}

// GetUser maneja GET /users/:id y GET /user/getotheruser/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser maneja PUT /users/:id: actualiza users y user_profiles y
// devuelve el usuario completo ya fusionado.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
		Major       string `json:"major"`
		ImgURL      string `json:"img_url"`
		Bio         string `json:"bio"`
		GradYear    *int   `json:"grad_year"`
		DateOfBirth string `json:"date_of_birth"`
		Instagram   string `json:"instagram"`
		Snapchat    string `json:"snapchat"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth"})
		return
	}

	if _, err := h.users.Update(c.Request.Context(), domain.User{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Major:     req.Major,
		ImgURL:    req.ImgURL,
		Bio:       req.Bio,
		GradYear:  req.GradYear,
		Instagram: req.Instagram,
		Snapchat:  req.Snapchat,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.profiles.Update(c.Request.Context(), domain.UserProfile{
		UserID:      id,
		Bio:         req.Bio,
		DateOfBirth: dob,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	full, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, full)
}

// UpdateSavedProfiles maneja POST /user/updatesavedposts/:id.
func (h *UserHandler) UpdateSavedProfiles(c *gin.Context) {
	var req struct {
		PostID string `json:"postId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid saved profiles request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	saved, err := h.saved.AddSaved(c.Request.Context(), c.Param("id"), req.PostID)
	if err != nil {
		h.savedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_profiles": saved})
}

// RemoveSavedProfiles maneja POST /user/removesavedposts/:id.
func (h *UserHandler) RemoveSavedProfiles(c *gin.Context) {
	var req struct {
		PostID string `json:"postId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid saved profiles request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	saved, err := h.saved.RemoveSaved(c.Request.Context(), c.Param("id"), req.PostID)
	if err != nil {
		h.savedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_profiles": saved})
}

// GetSavedProfiles maneja GET /user/savedprofiles/:id.
func (h *UserHandler) GetSavedProfiles(c *gin.Context) {
	saved, err := h.saved.GetSaved(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.savedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_profiles": saved})
}

// SavedProfilesPages maneja POST /users/savedprofilespages: fetch en lote
// de los perfiles referenciados.
func (h *UserHandler) SavedProfilesPages(c *gin.Context) {
	var req struct {
		PostIDs []string `json:"postIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid saved profiles pages request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	users, err := h.saved.GetManyByIDs(c.Request.Context(), req.PostIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// savedError colapsa not-found en 500: los clientes solo distinguen éxito.
func (h *UserHandler) savedError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user not found"})
		return
	}
	h.logger.Error("saved profiles operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
