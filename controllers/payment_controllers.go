package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/utils"
)

type PaymentController struct {
	payments *services.PaymentService
	users    *services.UserService
}

func NewPaymentController(payments *services.PaymentService, users *services.UserService) *PaymentController {
	return &PaymentController{payments: payments, users: users}
}

// Register -> buat pembayaran PENDING untuk sebuah meja
func (pc *PaymentController) Register(c *gin.Context) {
	user, ok := currentUser(c, pc.users)
	if !ok {
		return
	}

	var req struct {
		TableID uint   `json:"table_id" binding:"required"`
		Type    string `json:"type" binding:"required"` // CASH atau CARD
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.payments.Register(user, req.TableID, req.Type)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment registered", payment)
}

// Close -> tandai pembayaran PAID dan tutup order meja
func (pc *PaymentController) Close(c *gin.Context) {
	user, ok := currentUser(c, pc.users)
	if !ok {
		return
	}

	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.payments.Close(user, uint(tableID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment closed", payment)
}

// Pending -> pembayaran pending sebuah meja, jika ada
func (pc *PaymentController) Pending(c *gin.Context) {
	payment, err := pc.payments.Pending(c.Param("table_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if payment == nil {
		utils.RespondJSON(c, http.StatusOK, "No pending payment", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending payment", payment)
}

// ListOrders -> order tertutup di bawah sebuah pembayaran
func (pc *PaymentController) ListOrders(c *gin.Context) {
	rows, err := pc.payments.ListOrders(c.Param("payment_code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment orders", rows)
}

// Search -> riwayat pembayaran PAID
func (pc *PaymentController) Search(c *gin.Context) {
	payments, err := pc.payments.Search(
		c.DefaultQuery("type", "ALL"),
		c.Query("code"),
		c.Query("since"),
		c.Query("until"),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment history", payments)
}
