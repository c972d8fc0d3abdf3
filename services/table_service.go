package services

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

// TableService menangani registrasi meja dan query okupansi.
type TableService struct {
	db *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{db: db}
}

// TablePatch carries the updatable fields of a table.
type TablePatch struct {
	Code     *string
	IsActive *bool
}

func validateTableCode(code string) error {
	if code == "" {
		return utils.NewValidationError("code", "Code can't be empty.")
	}
	if _, err := strconv.Atoi(code); err != nil {
		return utils.NewValidationError("code", "Value must be numeric.")
	}
	if len(code) != models.TableCodeLength {
		return utils.NewValidationError("code",
			fmt.Sprintf("Value must be %d characters.", models.TableCodeLength))
	}
	return nil
}

// Create registers a table with a unique 4-digit numeric code.
func (s *TableService) Create(user *models.User, code string) (*models.Table, error) {
	if err := validateTableCode(code); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Table{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("code", "Table with this code already exists.")
	}

	table := &models.Table{
		Code:        code,
		IsActive:    true,
		CreatedByID: &user.ID,
		UpdatedByID: &user.ID,
	}
	if err := s.db.Create(table).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Table %s created", table.Code)
	return table, nil
}

// Update edits a table. Blocked while the table is processing orders, so
// in-flight transactions never see the definition change underneath them.
func (s *TableService) Update(user *models.User, tableID uint, patch TablePatch) (*models.Table, error) {
	table, err := s.Get(tableID)
	if err != nil {
		return nil, err
	}

	var open int64
	if err := s.db.Model(&models.Order{}).
		Where("table_id = ? AND is_closed = ?", table.ID, false).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, utils.NewValidationError("table",
			"This table can't be edited because it is currently processing orders.")
	}

	changed := map[string]interface{}{}
	if patch.Code != nil && *patch.Code != table.Code {
		if err := validateTableCode(*patch.Code); err != nil {
			return nil, err
		}
		var count int64
		if err := s.db.Model(&models.Table{}).
			Where("code = ? AND id <> ?", *patch.Code, table.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewValidationError("code", "Table with this code already exists.")
		}
		table.Code = *patch.Code
		changed["code"] = table.Code
	}
	if patch.IsActive != nil && *patch.IsActive != table.IsActive {
		table.IsActive = *patch.IsActive
		changed["is_active"] = table.IsActive
	}

	if len(changed) == 0 {
		return table, nil
	}

	table.UpdatedByID = &user.ID
	changed["updated_by_id"] = user.ID
	if err := s.db.Model(table).Updates(changed).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// Get returns a table by id.
func (s *TableService) Get(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

// GetByCode returns a table by code.
func (s *TableService) GetByCode(code string) (*models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

// List returns tables filtered by activation: "all", "actives" or
// "inactives".
func (s *TableService) List(filterBy string) ([]models.Table, error) {
	query := s.db.Model(&models.Table{})
	switch filterBy {
	case "actives":
		query = query.Where("is_active = ?", true)
	case "inactives":
		query = query.Where("is_active = ?", false)
	}

	var tables []models.Table
	if err := query.Order("id").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// TableStatus describes the occupancy of one table.
type TableStatus struct {
	ID                 uint   `json:"id"`
	Code               string `json:"code"`
	OrdersNumber       int64  `json:"orders_number"`
	AllOrdersDelivered bool   `json:"all_orders_delivered"`
	AllOrdersCanceled  bool   `json:"all_orders_canceled"`
	PendingPayment     bool   `json:"pending_payment"`
}

// Statuses returns the occupancy of every active table: pending order
// count, whether all open orders are delivered or canceled, and whether a
// pending payment exists.
func (s *TableService) Statuses() ([]TableStatus, error) {
	var tables []models.Table
	if err := s.db.Where("is_active = ?", true).Order("code").Find(&tables).Error; err != nil {
		return nil, err
	}

	statuses := make([]TableStatus, 0, len(tables))
	for _, table := range tables {
		var pending, open, openNotCanceled, delivered int64
		if err := s.db.Model(&models.Order{}).
			Where("table_id = ? AND is_closed = ? AND status = ?",
				table.ID, false, models.OrderStatusPending).
			Count(&pending).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.Order{}).
			Where("table_id = ? AND is_closed = ?", table.ID, false).
			Count(&open).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.Order{}).
			Where("table_id = ? AND is_closed = ? AND status <> ?",
				table.ID, false, models.OrderStatusCanceled).
			Count(&openNotCanceled).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.Order{}).
			Where("table_id = ? AND is_closed = ? AND status = ?",
				table.ID, false, models.OrderStatusDelivered).
			Count(&delivered).Error; err != nil {
			return nil, err
		}

		statuses = append(statuses, TableStatus{
			ID:                 table.ID,
			Code:               table.Code,
			OrdersNumber:       pending,
			AllOrdersDelivered: pending == 0 && delivered > 0,
			AllOrdersCanceled:  open > 0 && openNotCanceled == 0,
			PendingPayment:     pendingPaymentExists(s.db, table.ID),
		})
	}
	return statuses, nil
}

// Login issues a table-scoped token for the client ordering UI.
func (s *TableService) Login(code string) (string, error) {
	table, err := s.GetByCode(code)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.NewValidationError("table", "Table not found.")
		}
		return "", err
	}

	token, err := utils.GenerateTableToken(table.ID, table.Code)
	if err != nil {
		return "", err
	}
	return token, nil
}
