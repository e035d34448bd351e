package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialink/internal/service"
)

// AvatarHandler mantiene dependencias para la subida y el servido de
// avatares.
type AvatarHandler struct {
	logger  *zap.Logger
	avatars *service.AvatarService
}

func NewAvatarHandler(logger *zap.Logger, avatars *service.AvatarService) *AvatarHandler {
	return &AvatarHandler{logger: logger, avatars: avatars}
}

// Upload maneja POST /users/:id/uploadavatar (multipart, campo "image").
func (h *AvatarHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user, avatarURL, err := h.avatars.Upload(
		c.Request.Context(),
		c.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		h.logger.Error("avatar upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "File uploaded successfully",
		"avatar_url": avatarURL,
		"user":       user,
	})
}

// ListAvatars maneja GET /users/:id/avatar: lista los archivos guardados
// del usuario, más reciente primero.
func (h *AvatarHandler) ListAvatars(c *gin.Context) {
	objects, err := h.avatars.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, objects)
}

// ServeFile maneja GET /files/*path: sirve los bytes del objeto para que
// las URLs públicas de avatar resuelvan.
func (h *AvatarHandler) ServeFile(c *gin.Context) {
	objectPath := strings.TrimPrefix(c.Param("path"), "/")

	obj, err := h.avatars.Open(c.Request.Context(), objectPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No avatar found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
