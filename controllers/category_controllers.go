package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/storage"
	"github.com/bluewave/tablepos/utils"
)

type CategoryController struct {
	categories *services.CategoryService
	users      *services.UserService
	images     storage.ImageStore
}

func NewCategoryController(categories *services.CategoryService, users *services.UserService, images storage.ImageStore) *CategoryController {
	return &CategoryController{categories: categories, users: users, images: images}
}

// Create -> kategori baru, menerima multipart dengan field image opsional
func (cc *CategoryController) Create(c *gin.Context) {
	user, ok := currentUser(c, cc.users)
	if !ok {
		return
	}

	name := c.PostForm("name")

	imageKey := ""
	if fileHeader, err := c.FormFile("image"); err == nil {
		key, err := uploadImage(c, cc.images, "categories", fileHeader)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		imageKey = key
	}

	category, err := cc.categories.Create(user, services.CategoryFields{
		Name:  name,
		Image: imageKey,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// Update -> edit kategori; mengganti image akan menghapus file lama
func (cc *CategoryController) Update(c *gin.Context) {
	user, ok := currentUser(c, cc.users)
	if !ok {
		return
	}

	categoryID, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	patch := services.CategoryPatch{}
	if name, exists := c.GetPostForm("name"); exists {
		patch.Name = &name
	}
	if raw, exists := c.GetPostForm("is_active"); exists {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		patch.IsActive = &isActive
	}
	if fileHeader, err := c.FormFile("image"); err == nil {
		key, err := uploadImage(c, cc.images, "categories", fileHeader)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		patch.Image = &key
	}

	category, err := cc.categories.Update(user, uint(categoryID), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// List -> seluruh kategori, difilter all/actives/inactives
func (cc *CategoryController) List(c *gin.Context) {
	categories, err := cc.categories.List(c.DefaultQuery("filter_by", "all"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// Get -> detail satu kategori
func (cc *CategoryController) Get(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := cc.categories.Get(uint(categoryID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// Delete -> hapus kategori tanpa produk
func (cc *CategoryController) Delete(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.categories.Delete(uint(categoryID)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"id": categoryID})
}
