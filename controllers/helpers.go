package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/storage"
	"github.com/bluewave/tablepos/utils"
)

var ErrNoPermission = errors.New("you don't have permission for this action")

// respondServiceError maps a service error to the right HTTP status:
// validation failures to 400, missing records to 404, the rest to 500.
func respondServiceError(c *gin.Context, err error) {
	if _, ok := utils.IsValidationError(err); ok {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if errors.Is(err, utils.ErrNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}

// currentUser resolves the authenticated user set by the auth middleware.
func currentUser(c *gin.Context, users *services.UserService) (*models.User, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return nil, false
	}
	userID, ok := userIDValue.(uint)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return nil, false
	}

	user, err := users.Get(userID)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return nil, false
	}
	return user, true
}

// uploadImage stores an uploaded image under prefix and returns its key,
// e.g. "products/20250901120000_a3F9.png".
func uploadImage(c *gin.Context, images storage.ImageStore, prefix string, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	key := fmt.Sprintf("%s/%s_%s%s",
		prefix, time.Now().Format("20060102150405"), utils.GenerateRandomCode(4), ext)

	contentType := fileHeader.Header.Get("Content-Type")
	return images.Store(c.Request.Context(), key, file, contentType)
}
