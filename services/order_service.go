package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

// OrderService menangani siklus order pada sebuah meja.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderItem is one (product, quantity) entry of a registration request.
type OrderItem struct {
	ProductID uint
	Quantity  int
}

// OrderPatch carries the fields of an order update. Nil means "field
// absent"; only present fields that actually differ are persisted.
type OrderPatch struct {
	Status   *string
	Quantity *int
}

func validOrderStatus(status string) bool {
	_, ok := models.OrderStatusLabels[status]
	return ok
}

// validateContext checks the consistency rules shared by single and bulk
// order registration. Runs inside the caller's transaction.
func validateOrderContext(tx *gorm.DB, user *models.User, table *models.Table, item OrderItem) (*models.Product, error) {
	if !user.IsActive {
		return nil, utils.NewValidationError("user", "Must be active.")
	}

	var product models.Product
	if err := tx.First(&product, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, utils.NewValidationError("product", "Must be active.")
	}
	if !table.IsActive {
		return nil, utils.NewValidationError("table", "Must be active.")
	}

	var open int64
	if err := tx.Model(&models.Order{}).
		Where("table_id = ? AND product_id = ? AND is_closed = ?", table.ID, product.ID, false).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, utils.NewValidationError("table",
			fmt.Sprintf("Product '%d' already exists in an order for this table.", product.ID))
	}

	if pendingPaymentExists(tx, table.ID) {
		return nil, utils.NewValidationError("table", "Forbidden action! You cannot create new order.")
	}

	if item.Quantity <= 0 {
		return nil, utils.NewValidationError("quantity", "Must be greater than zero.")
	}
	if item.Quantity > models.MaxQuantity {
		return nil, utils.NewValidationError("quantity",
			fmt.Sprintf("Must be between %d and %d.", models.MinQuantity, models.MaxQuantity))
	}

	return &product, nil
}

// Register creates a single PENDING order for a table.
func (s *OrderService) Register(user *models.User, tableID uint, item OrderItem) (*models.Order, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := validateOrderContext(tx, user, &table, item); err != nil {
			return err
		}

		order = &models.Order{
			Code:        utils.GenerateRandomCode(models.OrderCodeLength),
			TableID:     table.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Status:      models.OrderStatusPending,
			IsClosed:    false,
			CreatedByID: &user.ID,
			UpdatedByID: &user.ID,
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s registered for table %s", order.Code, table.Code)
	return order, nil
}

// RegisterBulk validates every item, then inserts them all inside one
// transaction. Any failing item aborts the whole batch before any insert.
func (s *OrderService) RegisterBulk(user *models.User, tableID uint, items []OrderItem) ([]models.Order, error) {
	if len(items) == 0 {
		return nil, utils.NewValidationError("items", "At least one item is required.")
	}

	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	var orders []models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if _, err := validateOrderContext(tx, user, &table, item); err != nil {
				return err
			}

			orders = append(orders, models.Order{
				Code:        utils.GenerateRandomCode(models.OrderCodeLength),
				TableID:     table.ID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				Status:      models.OrderStatusPending,
				IsClosed:    false,
				CreatedByID: &user.ID,
				UpdatedByID: &user.ID,
			})
		}
		return tx.Create(&orders).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("%d orders registered for table %s", len(orders), table.Code)
	return orders, nil
}

// Get returns an order by code.
func (s *OrderService) Get(code string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Update applies a patch to an order, persisting only the changed fields.
// CANCELED orders accept no change at all. For a DELIVERED order a quantity
// decrease fails and an increase reverts the status to PENDING, since part
// of the product is no longer delivered.
func (s *OrderService) Update(user *models.User, code string, patch OrderPatch) (*models.Order, error) {
	order, err := s.Get(code)
	if err != nil {
		return nil, err
	}

	prevStatus := order.Status
	prevQty := order.Quantity

	changed := map[string]interface{}{}
	if patch.Status != nil && *patch.Status != prevStatus {
		if !validOrderStatus(*patch.Status) {
			return nil, utils.NewValidationError("status", "Invalid status.")
		}
		order.Status = *patch.Status
		changed["status"] = order.Status
	}
	if patch.Quantity != nil && *patch.Quantity != prevQty {
		order.Quantity = *patch.Quantity
		changed["quantity"] = order.Quantity
	}

	if pendingPaymentExists(s.db, order.TableID) {
		return nil, utils.NewValidationError("order",
			"This order can't be updated because it has a pending payment registered.")
	}

	if _, ok := changed["status"]; ok && prevStatus == models.OrderStatusCanceled {
		return nil, utils.NewValidationError("status", "Cannot update status of a canceled order.")
	}

	if _, ok := changed["quantity"]; ok {
		if order.IsCanceled() {
			return nil, utils.NewValidationError("quantity", "Cannot update quantity of a canceled order.")
		}
		if order.Quantity < models.MinQuantity || order.Quantity > models.MaxQuantity {
			return nil, utils.NewValidationError("quantity",
				fmt.Sprintf("Must be between %d and %d.", models.MinQuantity, models.MaxQuantity))
		}
		if order.IsDelivered() && order.Quantity < prevQty {
			return nil, utils.NewValidationError("quantity",
				"Quantity must be greater than previous for a delivered order.")
		}
		if order.IsDelivered() && order.Quantity > prevQty {
			// Part of the quantity is now undelivered.
			order.Status = models.OrderStatusPending
			changed["status"] = order.Status
		}
	}

	if len(changed) == 0 {
		return order, nil
	}

	order.UpdatedByID = &user.ID
	changed["updated_by_id"] = user.ID
	if err := s.db.Model(order).Updates(changed).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CloseBulk marks every order of a table as closed. Allowed only when all
// its non-closed orders are CANCELED; used to clear a fully voided table.
func (s *OrderService) CloseBulk(user *models.User, tableID uint) error {
	var notCanceled int64
	if err := s.db.Model(&models.Order{}).
		Where("table_id = ? AND is_closed = ? AND status <> ?",
			tableID, false, models.OrderStatusCanceled).
		Count(&notCanceled).Error; err != nil {
		return err
	}
	if notCanceled > 0 {
		return utils.NewValidationError("table", "All orders must be canceled to perform this operation.")
	}

	return s.db.Model(&models.Order{}).
		Where("table_id = ? AND is_closed = ?", tableID, false).
		Updates(map[string]interface{}{
			"is_closed":     true,
			"updated_by_id": user.ID,
			"updated_at":    time.Now(),
		}).Error
}

// OrderState aggregates the open, non-canceled orders of a table.
type OrderState struct {
	TotalPrice     int   `json:"total_price"`
	CountPending   int64 `json:"count_pending"`
	CountDelivered int64 `json:"count_delivered"`
}

// State returns the aggregate state of a table's open orders.
func (s *OrderService) State(tableCode string) (*OrderState, error) {
	var state OrderState
	err := s.db.Model(&models.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Joins("JOIN tables ON tables.id = orders.table_id").
		Where("tables.code = ? AND orders.is_closed = ? AND orders.status <> ?",
			tableCode, false, models.OrderStatusCanceled).
		Select("COALESCE(SUM(products.price * orders.quantity), 0) AS total_price, "+
			"COALESCE(SUM(CASE WHEN orders.status = ? THEN 1 ELSE 0 END), 0) AS count_pending, "+
			"COALESCE(SUM(CASE WHEN orders.status = ? THEN 1 ELSE 0 END), 0) AS count_delivered",
			models.OrderStatusPending, models.OrderStatusDelivered).
		Scan(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Count returns the number of open orders for a table.
func (s *OrderService) Count(tableCode string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Order{}).
		Joins("JOIN tables ON tables.id = orders.table_id").
		Where("tables.code = ? AND orders.is_closed = ?", tableCode, false).
		Count(&count).Error
	return count, err
}

// OrderProductRow is an open-order line joined with its product, used by
// the table's order listing.
type OrderProductRow struct {
	Code            string    `json:"code"`
	Quantity        int       `json:"quantity"`
	Status          string    `json:"status"`
	StatusLabel     string    `json:"status_label"`
	ProductName     string    `json:"product_name"`
	ProductImage    string    `json:"product_image"`
	ProductPrice    int       `json:"product_price"`
	ProductCategory string    `json:"product_category"`
	MinQty          int       `json:"min_qty"`
	MaxQty          int       `json:"max_qty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListProducts returns the open orders of a table with their product and
// category details, most recently created first within each status.
func (s *OrderService) ListProducts(tableCode string) ([]OrderProductRow, error) {
	var rows []OrderProductRow
	err := s.db.Model(&models.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN tables ON tables.id = orders.table_id").
		Where("tables.code = ? AND orders.is_closed = ?", tableCode, false).
		Select("orders.code, orders.quantity, orders.status, orders.created_at, " +
			"products.name AS product_name, products.image AS product_image, " +
			"products.price AS product_price, categories.name AS product_category").
		Order("orders.status desc, orders.created_at desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].StatusLabel = models.OrderStatusLabels[rows[i].Status]
		rows[i].MinQty = models.MinQuantity
		rows[i].MaxQty = models.MaxQuantity
	}
	return rows, nil
}

// Search returns orders filtered by table, status, and closed flag.
func (s *OrderService) Search(tableID *uint, status string, closed *bool) ([]models.Order, error) {
	query := s.db.Preload("Table").Preload("Product").Preload("Product.Category")

	if tableID != nil {
		query = query.Where("table_id = ?", *tableID)
	}
	if status != "" {
		if !validOrderStatus(status) {
			return nil, utils.NewValidationError("status", "Invalid status.")
		}
		query = query.Where("status = ?", status)
	}
	if closed != nil {
		query = query.Where("is_closed = ?", *closed)
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
