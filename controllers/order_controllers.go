package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/utils"
)

type OrderController struct {
	orders *services.OrderService
	users  *services.UserService
}

func NewOrderController(orders *services.OrderService, users *services.UserService) *OrderController {
	return &OrderController{orders: orders, users: users}
}

// Register -> buat satu order PENDING untuk sebuah meja
func (oc *OrderController) Register(c *gin.Context) {
	user, ok := currentUser(c, oc.users)
	if !ok {
		return
	}

	var req struct {
		TableID   uint `json:"table_id" binding:"required"`
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	order, err := oc.orders.Register(user, req.TableID, services.OrderItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order registered", order)
}

// RegisterBulk -> daftar beberapa order sekaligus, all-or-nothing
func (oc *OrderController) RegisterBulk(c *gin.Context) {
	user, ok := currentUser(c, oc.users)
	if !ok {
		return
	}

	var req struct {
		TableID uint `json:"table_id" binding:"required"`
		Items   []struct {
			ProductID uint `json:"product_id" binding:"required"`
			Quantity  int  `json:"quantity"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items := make([]services.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, services.OrderItem{ProductID: item.ProductID, Quantity: quantity})
	}

	orders, err := oc.orders.RegisterBulk(user, req.TableID, items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Orders registered", orders)
}

// Get -> detail satu order
func (oc *OrderController) Get(c *gin.Context) {
	order, err := oc.orders.Get(c.Param("order_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// Update -> ubah status/quantity order
func (oc *OrderController) Update(c *gin.Context) {
	user, ok := currentUser(c, oc.users)
	if !ok {
		return
	}

	var req struct {
		Status   *string `json:"status"`
		Quantity *int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.Update(user, c.Param("order_code"), services.OrderPatch{
		Status:   req.Status,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// CloseBulk -> tutup semua order meja yang sudah dibatalkan
func (oc *OrderController) CloseBulk(c *gin.Context) {
	user, ok := currentUser(c, oc.users)
	if !ok {
		return
	}

	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.orders.CloseBulk(user, uint(tableID)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders closed", gin.H{"table_id": tableID})
}

// State -> agregat order terbuka sebuah meja
func (oc *OrderController) State(c *gin.Context) {
	state, err := oc.orders.State(c.Param("table_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order state", state)
}

// Count -> jumlah order terbuka sebuah meja
func (oc *OrderController) Count(c *gin.Context) {
	count, err := oc.orders.Count(c.Param("table_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order count", gin.H{"count": count})
}

// ListProducts -> daftar order terbuka beserta detail produk
func (oc *OrderController) ListProducts(c *gin.Context) {
	rows, err := oc.orders.ListProducts(c.Param("table_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order products", rows)
}

// Search -> cari order berdasarkan meja/status/closed
func (oc *OrderController) Search(c *gin.Context) {
	var tableID *uint
	if raw := c.Query("table_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		value := uint(id)
		tableID = &value
	}

	var closed *bool
	if raw := c.Query("closed"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		closed = &value
	}

	orders, err := oc.orders.Search(tableID, c.Query("status"), closed)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}
