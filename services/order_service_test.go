package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

func TestRegisterOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)

	order, err := svc.Register(user, table.ID, OrderItem{ProductID: product.ID, Quantity: 2})
	assert.NoError(t, err)
	assert.Len(t, order.Code, models.OrderCodeLength)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsClosed)
	assert.Equal(t, 2, order.Quantity)
}

func TestRegisterOrderInactiveParticipants(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	activeUser := seedUser(t, db, true)
	inactiveUser := seedUser(t, db, false)
	activeTable := seedTable(t, db, "0001", true)
	inactiveTable := seedTable(t, db, "0002", false)
	activeProduct := seedCatalog(t, db, "Espresso", 500, true)
	inactiveProduct := seedCatalog(t, db, "Latte", 600, false)

	// The flag must survive the round trip past the column default.
	var storedUser models.User
	assert.NoError(t, db.First(&storedUser, inactiveUser.ID).Error)
	assert.False(t, storedUser.IsActive)
	var storedTable models.Table
	assert.NoError(t, db.First(&storedTable, inactiveTable.ID).Error)
	assert.False(t, storedTable.IsActive)
	var storedProduct models.Product
	assert.NoError(t, db.First(&storedProduct, inactiveProduct.ID).Error)
	assert.False(t, storedProduct.IsActive)

	_, err := svc.Register(inactiveUser, activeTable.ID, OrderItem{ProductID: activeProduct.ID, Quantity: 1})
	vErr, ok := utils.IsValidationError(err)
	if assert.True(t, ok) {
		assert.Equal(t, "user", vErr.Field)
	}

	_, err = svc.Register(activeUser, activeTable.ID, OrderItem{ProductID: inactiveProduct.ID, Quantity: 1})
	vErr, ok = utils.IsValidationError(err)
	if assert.True(t, ok) {
		assert.Equal(t, "product", vErr.Field)
	}

	_, err = svc.Register(activeUser, inactiveTable.ID, OrderItem{ProductID: activeProduct.ID, Quantity: 1})
	vErr, ok = utils.IsValidationError(err)
	if assert.True(t, ok) {
		assert.Equal(t, "table", vErr.Field)
	}
}

func TestRegisterOrderDuplicateProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)

	_, err := svc.Register(user, table.ID, OrderItem{ProductID: product.ID, Quantity: 1})
	assert.NoError(t, err)

	// Same product on the same table while the first order is open.
	_, err = svc.Register(user, table.ID, OrderItem{ProductID: product.ID, Quantity: 1})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "table", vErr.Field)
}

func TestRegisterOrderWithPendingPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)

	payment := &models.Payment{
		Code:    utils.GenerateRandomCode(models.PaymentCodeLength),
		TableID: table.ID,
		Total:   1000,
		Type:    models.PaymentTypeCash,
		Status:  models.PaymentStatusPending,
	}
	assert.NoError(t, db.Create(payment).Error)

	_, err := svc.Register(user, table.ID, OrderItem{ProductID: product.ID, Quantity: 1})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "table", vErr.Field)
}

func TestRegisterOrderQuantityBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)

	_, err := svc.Register(user, table.ID, OrderItem{ProductID: product.ID, Quantity: 0})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "quantity", vErr.Field)

	_, err = svc.Register(user, table.ID, OrderItem{ProductID: product.ID, Quantity: models.MaxQuantity + 1})
	vErr, ok = utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "quantity", vErr.Field)
}

func TestRegisterBulkIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)

	items := make([]OrderItem, 0, 5)
	for i := 0; i < 5; i++ {
		product := seedCatalog(t, db, "Product "+string(rune('A'+i)), 500, true)
		quantity := 1
		if i == 2 {
			quantity = models.MaxQuantity + 1 // violates the bound
		}
		items = append(items, OrderItem{ProductID: product.ID, Quantity: quantity})
	}

	_, err := svc.RegisterBulk(user, table.ID, items)
	assert.Error(t, err)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count, "no order of the batch may be persisted")
}

func TestRegisterBulk(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	first := seedCatalog(t, db, "Espresso", 500, true)
	second := seedCatalog(t, db, "Latte", 600, true)

	orders, err := svc.RegisterBulk(user, table.ID, []OrderItem{
		{ProductID: first.ID, Quantity: 1},
		{ProductID: second.ID, Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Len(t, orders, 2)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRegisterBulkEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)

	_, err := svc.RegisterBulk(user, table.ID, nil)
	vErr, ok := utils.IsValidationError(err)
	if assert.True(t, ok) {
		assert.Equal(t, "items", vErr.Field)
	}

	_, err = svc.RegisterBulk(user, table.ID, []OrderItem{})
	_, ok = utils.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateCanceledOrderIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)
	order := seedOrder(t, db, table, product, 2, models.OrderStatusCanceled)

	delivered := models.OrderStatusDelivered
	_, err := svc.Update(user, order.Code, OrderPatch{Status: &delivered})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "status", vErr.Field)

	quantity := 3
	_, err = svc.Update(user, order.Code, OrderPatch{Quantity: &quantity})
	vErr, ok = utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "quantity", vErr.Field)
}

func TestUpdateDeliveredOrderQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)
	order := seedOrder(t, db, table, product, 2, models.OrderStatusDelivered)

	// Decreasing the quantity of a delivered order must fail.
	quantity := 1
	_, err := svc.Update(user, order.Code, OrderPatch{Quantity: &quantity})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "quantity", vErr.Field)

	// Increasing it succeeds and reverts the status to PENDING.
	quantity = 3
	updated, err := svc.Update(user, order.Code, OrderPatch{Quantity: &quantity})
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	var stored models.Order
	assert.NoError(t, db.First(&stored, "code = ?", order.Code).Error)
	assert.Equal(t, 3, stored.Quantity)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestUpdateOrderWithPendingPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)
	order := seedOrder(t, db, table, product, 2, models.OrderStatusDelivered)

	payment := &models.Payment{
		Code:    utils.GenerateRandomCode(models.PaymentCodeLength),
		TableID: table.ID,
		Total:   1000,
		Type:    models.PaymentTypeCash,
		Status:  models.PaymentStatusPending,
	}
	assert.NoError(t, db.Create(payment).Error)

	pending := models.OrderStatusPending
	_, err := svc.Update(user, order.Code, OrderPatch{Status: &pending})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "order", vErr.Field)
}

func TestUpdateOrderStatusFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)
	order := seedOrder(t, db, table, product, 2, models.OrderStatusPending)

	delivered := models.OrderStatusDelivered
	updated, err := svc.Update(user, order.Code, OrderPatch{Status: &delivered})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	bogus := "SHIPPED"
	_, err = svc.Update(user, order.Code, OrderPatch{Status: &bogus})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "status", vErr.Field)
}

func TestCloseBulk(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	first := seedCatalog(t, db, "Espresso", 500, true)
	second := seedCatalog(t, db, "Latte", 600, true)

	canceled := seedOrder(t, db, table, first, 1, models.OrderStatusCanceled)
	delivered := seedOrder(t, db, table, second, 1, models.OrderStatusDelivered)

	// A non-canceled open order blocks the bulk close.
	err := svc.CloseBulk(user, table.ID)
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "table", vErr.Field)

	var stored models.Order
	assert.NoError(t, db.First(&stored, "code = ?", canceled.Code).Error)
	assert.False(t, stored.IsClosed, "failed close must not change state")

	// Cancel the remaining order, then the close succeeds.
	assert.NoError(t, db.Model(&models.Order{}).
		Where("code = ?", delivered.Code).
		Update("status", models.OrderStatusCanceled).Error)

	assert.NoError(t, svc.CloseBulk(user, table.ID))

	var open int64
	db.Model(&models.Order{}).Where("table_id = ? AND is_closed = ?", table.ID, false).Count(&open)
	assert.Equal(t, int64(0), open)
}

func TestOrderState(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, "0001", true)
	first := seedCatalog(t, db, "Espresso", 500, true)
	second := seedCatalog(t, db, "Latte", 600, true)
	third := seedCatalog(t, db, "Mocha", 700, true)

	seedOrder(t, db, table, first, 2, models.OrderStatusDelivered) // 1000
	seedOrder(t, db, table, second, 1, models.OrderStatusPending)  // 600
	seedOrder(t, db, table, third, 3, models.OrderStatusCanceled)  // excluded

	state, err := svc.State(table.Code)
	assert.NoError(t, err)
	assert.Equal(t, 1600, state.TotalPrice)
	assert.Equal(t, int64(1), state.CountPending)
	assert.Equal(t, int64(1), state.CountDelivered)
}

func TestListProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)
	seedOrder(t, db, table, product, 2, models.OrderStatusPending)

	rows, err := svc.ListProducts(table.Code)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Espresso", rows[0].ProductName)
	assert.Equal(t, 500, rows[0].ProductPrice)
	assert.Equal(t, "Pending", rows[0].StatusLabel)
	assert.Equal(t, models.MinQuantity, rows[0].MinQty)
	assert.Equal(t, models.MaxQuantity, rows[0].MaxQty)
}

func TestSearchOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	table := seedTable(t, db, "0001", true)
	other := seedTable(t, db, "0002", true)
	first := seedCatalog(t, db, "Espresso", 500, true)
	second := seedCatalog(t, db, "Latte", 600, true)

	seedOrder(t, db, table, first, 1, models.OrderStatusPending)
	seedOrder(t, db, other, second, 1, models.OrderStatusDelivered)

	orders, err := svc.Search(&table.ID, "", nil)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = svc.Search(nil, models.OrderStatusDelivered, nil)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = svc.Search(nil, "bogus", nil)
	_, ok := utils.IsValidationError(err)
	assert.True(t, ok)
}
