package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/storage"
	"github.com/bluewave/tablepos/utils"
)

type ProductController struct {
	products *services.ProductService
	users    *services.UserService
	images   storage.ImageStore
}

func NewProductController(products *services.ProductService, users *services.UserService, images storage.ImageStore) *ProductController {
	return &ProductController{products: products, users: users, images: images}
}

// Create -> produk baru di bawah sebuah kategori
func (pc *ProductController) Create(c *gin.Context) {
	user, ok := currentUser(c, pc.users)
	if !ok {
		return
	}

	price, err := strconv.Atoi(c.DefaultPostForm("price", "0"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	categoryID, err := strconv.Atoi(c.DefaultPostForm("category_id", "0"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	imageKey := ""
	if fileHeader, err := c.FormFile("image"); err == nil {
		key, err := uploadImage(c, pc.images, "products", fileHeader)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		imageKey = key
	}

	product, err := pc.products.Create(user, services.ProductFields{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		CategoryID:  uint(categoryID),
		Image:       imageKey,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// Update -> edit produk; mengganti image akan menghapus file lama
func (pc *ProductController) Update(c *gin.Context) {
	user, ok := currentUser(c, pc.users)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	patch := services.ProductPatch{}
	if name, exists := c.GetPostForm("name"); exists {
		patch.Name = &name
	}
	if description, exists := c.GetPostForm("description"); exists {
		patch.Description = &description
	}
	if raw, exists := c.GetPostForm("price"); exists {
		price, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		patch.Price = &price
	}
	if raw, exists := c.GetPostForm("category_id"); exists {
		id, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		categoryID := uint(id)
		patch.CategoryID = &categoryID
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
		key, err := uploadImage(c, pc.images, "products", fileHeader)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		patch.Image = &key
	}

	product, err := pc.products.Update(user, uint(productID), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// List -> seluruh produk beserta kategorinya
func (pc *ProductController) List(c *gin.Context) {
	products, err := pc.products.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// ListByCategory -> produk sebuah kategori, difilter all/actives/inactives
func (pc *ProductController) ListByCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	rows, err := pc.products.ListByCategory(uint(categoryID), c.DefaultQuery("filter_by", "all"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Products by category", rows)
}

// Get -> detail satu produk
func (pc *ProductController) Get(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product, err := pc.products.Get(uint(productID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

// Delete -> hapus produk tanpa order
func (pc *ProductController) Delete(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.products.Delete(uint(productID)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"id": productID})
}
