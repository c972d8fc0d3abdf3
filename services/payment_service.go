package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

// PaymentService menangani siklus pembayaran meja.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// pendingPaymentExists reports whether a table already has a PENDING
// payment. At most one may exist per table at any time.
func pendingPaymentExists(db *gorm.DB, tableID uint) bool {
	var count int64
	db.Model(&models.Payment{}).
		Where("table_id = ? AND status = ?", tableID, models.PaymentStatusPending).
		Count(&count)
	return count > 0
}

func validPaymentType(paymentType string) bool {
	return paymentType == models.PaymentTypeCash || paymentType == models.PaymentTypeCard
}

func (s *PaymentService) validateContext(user *models.User, table *models.Table) error {
	if !user.IsActive {
		return utils.NewValidationError("user", "Must be active.")
	}
	if !table.IsActive {
		return utils.NewValidationError("table", "Must be active.")
	}
	if pendingPaymentExists(s.db, table.ID) {
		return utils.NewValidationError("table", "Forbidden action! Already exists a pending payment.")
	}

	var orderCount int64
	if err := s.db.Model(&models.Order{}).
		Where("table_id = ?", table.ID).
		Count(&orderCount).Error; err != nil {
		return err
	}
	if orderCount == 0 {
		return utils.NewValidationError("table", "No orders to process.")
	}

	var pendingOrders int64
	if err := s.db.Model(&models.Order{}).
		Where("table_id = ? AND status = ?", table.ID, models.OrderStatusPending).
		Count(&pendingOrders).Error; err != nil {
		return err
	}
	if pendingOrders > 0 {
		return utils.NewValidationError("table", "All orders/products must be `delivered` for a payment transaction.")
	}
	return nil
}

// Register creates a PENDING payment for a table, totalling the delivered
// non-closed orders. Fails while any order is still PENDING.
func (s *PaymentService) Register(user *models.User, tableID uint, paymentType string) (*models.Payment, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	if !validPaymentType(paymentType) {
		return nil, utils.NewValidationError("type", "Invalid payment type.")
	}
	if err := s.validateContext(user, &table); err != nil {
		return nil, err
	}

	var payment *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total int
		row := tx.Model(&models.Order{}).
			Joins("JOIN products ON products.id = orders.product_id").
			Where("orders.table_id = ? AND orders.is_closed = ? AND orders.status = ?",
				table.ID, false, models.OrderStatusDelivered).
			Select("COALESCE(SUM(products.price * orders.quantity), 0)").
			Row()
		if err := row.Scan(&total); err != nil {
			return err
		}
		if total < models.MinTotal {
			return utils.NewValidationError("total",
				"Total must be at least $"+utils.CentsToDollar(models.MinTotal)+".")
		}

		payment = &models.Payment{
			Code:        utils.GenerateRandomCode(models.PaymentCodeLength),
			TableID:     table.ID,
			Total:       total,
			Type:        paymentType,
			Status:      models.PaymentStatusPending,
			CreatedByID: &user.ID,
			UpdatedByID: &user.ID,
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Payment %s registered for table %s (total=%s)",
		payment.Code, table.Code, utils.CentsToDollar(payment.Total))
	return payment, nil
}

// Close moves the table's PENDING payment to PAID and closes every
// non-closed order, stamping it with the payment code. Atomic.
func (s *PaymentService) Close(user *models.User, tableID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ? AND status = ?", tableID, models.PaymentStatusPending).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}

		payment.Status = models.PaymentStatusPaid
		payment.UpdatedByID = &user.ID
		if err := tx.Model(&payment).
			Select("status", "updated_by_id").
			Updates(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Order{}).
			Where("table_id = ? AND is_closed = ?", tableID, false).
			Updates(map[string]interface{}{
				"is_closed":     true,
				"payment_code":  payment.Code,
				"updated_by_id": user.ID,
				"updated_at":    time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Payment %s paid, table %d closed out", payment.Code, tableID)
	return &payment, nil
}

// Pending returns the table's pending payment, or nil when there is none.
func (s *PaymentService) Pending(tableCode string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.
		Joins("JOIN tables ON tables.id = payments.table_id").
		Where("tables.code = ? AND payments.status = ?", tableCode, models.PaymentStatusPending).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// PaymentOrderRow is a closed-order line under a payment, joined with its
// product and category.
type PaymentOrderRow struct {
	Code            string `json:"code"`
	Quantity        int    `json:"quantity"`
	ProductName     string `json:"product_name"`
	ProductImage    string `json:"product_image"`
	ProductPrice    int    `json:"product_price"`
	ProductCategory string `json:"product_category"`
}

// ListOrders returns the closed orders settled by a payment.
func (s *PaymentService) ListOrders(paymentCode string) ([]PaymentOrderRow, error) {
	var payment models.Payment
	if err := s.db.First(&payment, "code = ?", paymentCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	var rows []PaymentOrderRow
	err := s.db.Model(&models.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("orders.payment_code = ? AND orders.is_closed = ?", payment.Code, true).
		Select("orders.code, orders.quantity, products.name AS product_name, " +
			"products.image AS product_image, products.price AS product_price, " +
			"categories.name AS product_category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Search returns PAID payments filtered by type, table code, and creation
// date range. Both date bounds must be given together, in chronological
// order, and not in the future.
func (s *PaymentService) Search(paymentType, tableCode, since, until string) ([]models.Payment, error) {
	query := s.db.Preload("Table").
		Where("payments.status = ?", models.PaymentStatusPaid)

	if tableCode != "" {
		var table models.Table
		if err := s.db.First(&table, "code = ?", tableCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrNotFound
			}
			return nil, err
		}
		query = query.Where("payments.table_id = ?", table.ID)
	}

	if paymentType != "" && paymentType != "ALL" {
		if !validPaymentType(paymentType) {
			return nil, utils.NewValidationError("type", "Invalid payment type.")
		}
		query = query.Where("payments.type = ?", paymentType)
	}

	if (since == "") != (until == "") {
		return nil, utils.NewValidationError("date", "Both `since` and `until` are required.")
	}
	if since != "" {
		from, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return nil, utils.NewValidationError("since", "Invalid date, expected YYYY-MM-DD.")
		}
		to, err := time.ParseInLocation("2006-01-02", until, time.Local)
		if err != nil {
			return nil, utils.NewValidationError("until", "Invalid date, expected YYYY-MM-DD.")
		}
		if to.Before(from) {
			return nil, utils.NewValidationError("date", "`until` must be after `since`.")
		}
		if to.After(time.Now()) {
			return nil, utils.NewValidationError("date", "Date range can't be in the future.")
		}
		query = query.Where("payments.created_at >= ? AND payments.created_at < ?",
			from, to.AddDate(0, 0, 1))
	}

	var payments []models.Payment
	if err := query.Order("payments.created_at desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
