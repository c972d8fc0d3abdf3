package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/utils"
)

type TableController struct {
	tables *services.TableService
	users  *services.UserService
}

func NewTableController(tables *services.TableService, users *services.UserService) *TableController {
	return &TableController{tables: tables, users: users}
}

// Create -> menambahkan meja baru
func (tc *TableController) Create(c *gin.Context) {
	user, ok := currentUser(c, tc.users)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.tables.Create(user, req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// Update -> edit kode/status aktif meja
func (tc *TableController) Update(c *gin.Context) {
	user, ok := currentUser(c, tc.users)
	if !ok {
		return
	}

	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Code     *string `json:"code"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.tables.Update(user, uint(tableID), services.TablePatch{
		Code:     req.Code,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// List -> seluruh meja, difilter all/actives/inactives
func (tc *TableController) List(c *gin.Context) {
	tables, err := tc.tables.List(c.DefaultQuery("filter_by", "all"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// Get -> detail satu meja
func (tc *TableController) Get(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.tables.Get(uint(tableID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// Statuses -> okupansi seluruh meja aktif
func (tc *TableController) Statuses(c *gin.Context) {
	statuses, err := tc.tables.Statuses()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table statuses", statuses)
}

// Login -> token untuk UI pemesanan di meja
func (tc *TableController) Login(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	token, err := tc.tables.Login(req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table login successful", gin.H{
		"access": token,
		"code":   req.Code,
	})
}
