package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estate/backend/internal/domain/purchase"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPurchaseRepository creates a GormPurchaseRepository with a mocked SQL connection
func newMockPurchaseRepository(t *testing.T) (*GormPurchaseRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPurchaseRepository(gormDB), mock, mockDB
}

func createTestPurchase(t *testing.T) (*purchase.Purchase, *purchase.Payment) {
	t.Helper()
	p, down, err := purchase.NewPurchase(
		uuid.New(),
		uuid.New(),
		valueobject.NewMoneyZMWFromFloat(100000),
		valueobject.NewMoneyZMWFromFloat(20000),
		purchase.PaymentMethodBankTransfer,
	)
	require.NoError(t, err)
	return p, down
}

func TestNewGormPurchaseRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormPurchaseRepository_FindByID(t *testing.T) {
	t.Run("finds existing purchase", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()
		propertyID := uuid.New()
		buyerID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "version", "property_id", "buyer_id",
			"total_amount", "down_payment", "remaining_amount", "currency",
			"status", "purchase_date",
		}).AddRow(
			purchaseID, 1, propertyID, buyerID,
			decimal.NewFromInt(100000), decimal.NewFromInt(20000), decimal.NewFromInt(80000), "ZMW",
			"pending", time.Now(),
		)

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(purchaseID, 1).
			WillReturnRows(rows)

		p, err := repo.FindByID(context.Background(), purchaseID)

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, purchaseID, p.ID)
		assert.Equal(t, propertyID, p.PropertyID)
		assert.Equal(t, purchase.PurchaseStatusPending, p.Status)
		assert.Equal(t, "80000", p.RemainingAmount.Amount().String())
		assert.Equal(t, valueobject.ZMW, p.RemainingAmount.Currency())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing purchase", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		purchaseID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(purchaseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		p, err := repo.FindByID(context.Background(), purchaseID)

		assert.Error(t, err)
		assert.Nil(t, p)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_Create(t *testing.T) {
	t.Run("inserts purchase and down payment in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, down := createTestPurchase(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "purchases"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "payments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(context.Background(), p, down)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the payment insert fails", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, down := createTestPurchase(t)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "purchases"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "payments"`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Create(context.Background(), p, down)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_SaveWithPayment(t *testing.T) {
	t.Run("updates the balance and inserts the payment together", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, _ := createTestPurchase(t)
		payment, err := p.ApplyPayment(
			valueobject.NewMoneyZMWFromFloat(30000),
			purchase.PaymentMethodCash,
			"Installment 1",
		)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "purchases" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "payments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.SaveWithPayment(context.Background(), p, payment)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when another writer already advanced the version", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		p, _ := createTestPurchase(t)
		payment, err := p.ApplyPayment(
			valueobject.NewMoneyZMWFromFloat(30000),
			purchase.PaymentMethodCash,
			"Installment 1",
		)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "purchases" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.SaveWithPayment(context.Background(), p, payment)

		assert.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseRepository_ExistsByProperty(t *testing.T) {
	t.Run("returns true when a purchase references the property", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		propertyID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchases" WHERE property_id = \$1`).
			WithArgs(propertyID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByProperty(context.Background(), propertyID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when no purchase references the property", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseRepository(t)
		defer mockDB.Close()

		propertyID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchases" WHERE property_id = \$1`).
			WithArgs(propertyID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByProperty(context.Background(), propertyID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_FindByPurchase(t *testing.T) {
	t.Run("returns the ledger oldest first", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		dialector := postgres.New(postgres.Config{
			Conn:       mockDB,
			DriverName: "postgres",
		})
		gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
		require.NoError(t, err)

		repo := NewGormPaymentRepository(gormDB)
		purchaseID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "purchase_id", "amount", "currency", "method", "status", "payment_date", "reference"}).
			AddRow(uuid.New(), purchaseID, decimal.NewFromInt(20000), "ZMW", "bank_transfer", "completed", time.Now().Add(-time.Hour), "Down payment").
			AddRow(uuid.New(), purchaseID, decimal.NewFromInt(30000), "ZMW", "cash", "completed", time.Now(), "Installment 1")

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE purchase_id = \$1 ORDER BY payment_date ASC, created_at ASC`).
			WithArgs(purchaseID).
			WillReturnRows(rows)

		payments, err := repo.FindByPurchase(context.Background(), purchaseID)

		assert.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "Down payment", payments[0].Reference)
		assert.Equal(t, purchase.PaymentMethodCash, payments[1].Method)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
