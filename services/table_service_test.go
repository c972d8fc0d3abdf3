package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/utils"
)

func TestCreateTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)
	user := seedUser(t, db, true)

	table, err := svc.Create(user, "0042")
	assert.NoError(t, err)
	assert.Equal(t, "0042", table.Code)
	assert.True(t, table.IsActive)

	// Duplicate code.
	_, err = svc.Create(user, "0042")
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "code", vErr.Field)
}

func TestCreateTableInvalidCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)
	user := seedUser(t, db, true)

	for _, code := range []string{"", "12AB", "123", "12345"} {
		_, err := svc.Create(user, code)
		vErr, ok := utils.IsValidationError(err)
		assert.True(t, ok, "code %q must be rejected", code)
		assert.Equal(t, "code", vErr.Field)
	}
}

func TestUpdateTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)

	code := "0002"
	inactive := false
	updated, err := svc.Update(user, table.ID, TablePatch{Code: &code, IsActive: &inactive})
	assert.NoError(t, err)
	assert.Equal(t, "0002", updated.Code)
	assert.False(t, updated.IsActive)

	var stored models.Table
	assert.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, "0002", stored.Code)
	assert.False(t, stored.IsActive)
}

func TestUpdateTableWithOpenOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)
	user := seedUser(t, db, true)
	table := seedTable(t, db, "0001", true)
	product := seedCatalog(t, db, "Espresso", 500, true)
	seedOrder(t, db, table, product, 1, models.OrderStatusPending)

	code := "0002"
	_, err := svc.Update(user, table.ID, TablePatch{Code: &code})
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "table", vErr.Field)
}

func TestListTables(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)
	seedTable(t, db, "0001", true)
	seedTable(t, db, "0002", false)

	tables, err := svc.List("all")
	assert.NoError(t, err)
	assert.Len(t, tables, 2)

	tables, err = svc.List("actives")
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Equal(t, "0001", tables[0].Code)

	tables, err = svc.List("inactives")
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Equal(t, "0002", tables[0].Code)
}

func TestTableStatuses(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)
	user := seedUser(t, db, true)

	busy := seedTable(t, db, "0001", true)
	served := seedTable(t, db, "0002", true)
	voided := seedTable(t, db, "0003", true)
	empty := seedTable(t, db, "0004", true)
	seedTable(t, db, "0005", false) // inactive, excluded

	first := seedCatalog(t, db, "Espresso", 500, true)
	second := seedCatalog(t, db, "Latte", 600, true)
	third := seedCatalog(t, db, "Mocha", 700, true)

	seedOrder(t, db, busy, first, 1, models.OrderStatusPending)
	seedOrder(t, db, served, second, 2, models.OrderStatusDelivered)
	seedOrder(t, db, voided, third, 1, models.OrderStatusCanceled)

	payments := NewPaymentService(db)
	_, err := payments.Register(user, served.ID, models.PaymentTypeCash)
	assert.NoError(t, err)

	statuses, err := svc.Statuses()
	assert.NoError(t, err)
	assert.Len(t, statuses, 4)

	byCode := map[string]TableStatus{}
	for _, status := range statuses {
		byCode[status.Code] = status
	}

	assert.Equal(t, int64(1), byCode[busy.Code].OrdersNumber)
	assert.False(t, byCode[busy.Code].AllOrdersDelivered)
	assert.False(t, byCode[busy.Code].PendingPayment)

	assert.Equal(t, int64(0), byCode[served.Code].OrdersNumber)
	assert.True(t, byCode[served.Code].AllOrdersDelivered)
	assert.True(t, byCode[served.Code].PendingPayment)

	assert.True(t, byCode[voided.Code].AllOrdersCanceled)
	assert.False(t, byCode[voided.Code].AllOrdersDelivered)

	assert.Equal(t, int64(0), byCode[empty.Code].OrdersNumber)
	assert.False(t, byCode[empty.Code].AllOrdersDelivered)
	assert.False(t, byCode[empty.Code].AllOrdersCanceled)
}

func TestTableLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTableService(db)
	table := seedTable(t, db, "0001", true)

	token, err := svc.Login(table.Code)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := utils.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, table.Code, claims.TableCode)

	_, err = svc.Login("9999")
	vErr, ok := utils.IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "table", vErr.Field)
}
