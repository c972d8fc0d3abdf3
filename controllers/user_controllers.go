package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/utils"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Create -> registrasi user baru oleh user yang sudah login
func (uc *UserController) Create(c *gin.Context) {
	requestUser, ok := currentUser(c, uc.users)
	if !ok {
		return
	}

	var req struct {
		Username       string `json:"username" binding:"required"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required"`
		RepeatPassword string `json:"repeat_password" binding:"required"`
		IsStaff        bool   `json:"is_staff"`
		IsSuperuser    bool   `json:"is_superuser"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.IsSuperuser && !requestUser.IsSuperuser {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	user, err := uc.users.Create(requestUser, services.UserFields{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
		IsStaff:        req.IsStaff,
		IsSuperuser:    req.IsSuperuser,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{"user_id": user.ID})
}

// Login -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.users.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %s logged in", user.Username)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":   token,
		"user_id": user.ID,
	})
}

// Update -> edit user; hanya superuser yang boleh mengubah superuser lain
func (uc *UserController) Update(c *gin.Context) {
	requestUser, ok := currentUser(c, uc.users)
	if !ok {
		return
	}

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Username  *string `json:"username"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		IsActive  *bool   `json:"is_active"`
		IsStaff   *bool   `json:"is_staff"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.users.Update(requestUser, uint(userID), services.UserPatch{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsActive:  req.IsActive,
		IsStaff:   req.IsStaff,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

// List -> daftar user; superuser tersembunyi bagi non-superuser
func (uc *UserController) List(c *gin.Context) {
	requestUser, ok := currentUser(c, uc.users)
	if !ok {
		return
	}

	users, err := uc.users.List(requestUser, c.DefaultQuery("filter_by", "all"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// Get -> detail satu user
func (uc *UserController) Get(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.users.Get(uint(userID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User detail", user)
}
