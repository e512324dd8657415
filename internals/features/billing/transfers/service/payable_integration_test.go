package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditModel "aduanet_backend/internals/features/audit/model"
	auditSvc "aduanet_backend/internals/features/audit/service"
	"aduanet_backend/internals/features/billing/ledger"
	model "aduanet_backend/internals/features/billing/transfers/model"
	"aduanet_backend/internals/locks"
)

// Integration tests run only against a throwaway Postgres pointed to by
// TEST_DATABASE_URL.
func payableTestService(t *testing.T) (*PayableService, *gorm.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(
		&model.TransferPayment{}, &model.BatchPayment{}, &model.Transfer{}, &auditModel.AuditLog{}))
	require.NoError(t, db.AutoMigrate(
		&model.Transfer{}, &model.TransferPayment{}, &model.BatchPayment{}, &auditModel.AuditLog{}))

	return &PayableService{
		DB:       db,
		Guard:    locks.NewKeyedMutex(2 * time.Second),
		Audit:    auditSvc.NewRecorder(),
		Notifier: auditSvc.LogNotifier{},
	}, db
}

func newObligation(t *testing.T, s *PayableService, provider uuid.UUID, amount string, txnDate time.Time) *model.Transfer {
	t.Helper()
	m, err := s.CreateObligation(context.Background(), uuid.New(), ObligationInput{
		ProviderID:      &provider,
		Type:            model.TransferTypeOverhead,
		Description:     "customs storage fee",
		Amount:          d(amount),
		TransactionDate: &txnDate,
	})
	require.NoError(t, err)
	return m
}

func TestPayablePaymentLifecycle(t *testing.T) {
	s, db := payableTestService(t)
	ctx := context.Background()
	actor := uuid.New()
	provider := uuid.New()

	m := newObligation(t, s, provider, "100.00", time.Now())
	assert.Equal(t, ledger.TransferStatusPending, m.TransferStatus)
	assert.True(t, m.TransferBalance.Equal(d("100.00")))

	// partial payment
	m, err := s.RecordPayment(ctx, actor, m.TransferID, PaymentInput{Amount: d("40.00"), Method: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, ledger.TransferStatusPartial, m.TransferStatus)
	assert.True(t, m.TransferPaidAmount.Equal(d("40.00")))
	assert.True(t, m.TransferBalance.Equal(d("60.00")))
	require.NotNil(t, m.TransferPaymentMethod)
	assert.Equal(t, "transfer", *m.TransferPaymentMethod)

	// overpay rejected before any write
	_, err = s.RecordPayment(ctx, actor, m.TransferID, PaymentInput{Amount: d("60.01"), Method: "transfer"})
	require.Error(t, err)

	// settle
	m, err = s.RecordPayment(ctx, actor, m.TransferID, PaymentInput{Amount: d("60.00"), Method: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, ledger.TransferStatusPaid, m.TransferStatus)
	assert.True(t, m.TransferBalance.IsZero())
	assert.NotNil(t, m.TransferPaymentDate)

	// deleting a payment resums from the remaining rows
	var settling model.TransferPayment
	require.NoError(t, db.First(&settling,
		"transfer_payment_transfer_id = ? AND transfer_payment_amount = ?", m.TransferID, d("60.00")).Error)

	m, err = s.DeletePayment(ctx, actor, settling.TransferPaymentID)
	require.NoError(t, err)
	assert.True(t, m.TransferPaidAmount.Equal(d("40.00")))
	assert.Equal(t, ledger.TransferStatusPartial, m.TransferStatus)
	assert.Nil(t, m.TransferPaymentDate)
}

func TestPayableCreditNoteNetsLikePayment(t *testing.T) {
	s, _ := payableTestService(t)
	ctx := context.Background()
	actor := uuid.New()

	m := newObligation(t, s, uuid.New(), "80.00", time.Now())
	m, err := s.RecordCreditNote(ctx, actor, m.TransferID, PaymentInput{Amount: d("80.00")})
	require.NoError(t, err)
	assert.Equal(t, ledger.TransferStatusPaid, m.TransferStatus)
	// a credit is not a cash movement, the method stamp stays empty
	assert.Nil(t, m.TransferPaymentMethod)
}

func TestPayableApprovalSurvivesPaymentReversal(t *testing.T) {
	s, db := payableTestService(t)
	ctx := context.Background()
	actor := uuid.New()

	m := newObligation(t, s, uuid.New(), "50.00", time.Now())
	m, err := s.Approve(ctx, actor, m.TransferID)
	require.NoError(t, err)
	assert.Equal(t, ledger.TransferStatusApproved, m.TransferStatus)

	_, err = s.Approve(ctx, actor, m.TransferID)
	require.Error(t, err, "double approval rejected")

	m, err = s.RecordPayment(ctx, actor, m.TransferID, PaymentInput{Amount: d("50.00"), Method: "check"})
	require.NoError(t, err)
	assert.Equal(t, ledger.TransferStatusPaid, m.TransferStatus)

	var p model.TransferPayment
	require.NoError(t, db.First(&p, "transfer_payment_transfer_id = ?", m.TransferID).Error)
	m, err = s.DeletePayment(ctx, actor, p.TransferPaymentID)
	require.NoError(t, err)
	assert.Equal(t, ledger.TransferStatusApproved, m.TransferStatus)
}

func TestPayableBatchDistribution(t *testing.T) {
	s, db := payableTestService(t)
	ctx := context.Background()
	actor := uuid.New()
	provider := uuid.New()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := newObligation(t, s, provider, "100.00", base)
	t2 := newObligation(t, s, provider, "50.00", base.AddDate(0, 0, 1))
	t3 := newObligation(t, s, provider, "200.00", base.AddDate(0, 0, 2))

	res, err := s.CreateBatchPayment(ctx, actor, BatchInput{
		TransferIDs: []uuid.UUID{t3.TransferID, t1.TransferID, t2.TransferID},
		TotalAmount: d("120.00"),
		Method:      "transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ObligationsPaid)
	assert.True(t, res.RemainingAmount.IsZero())

	// oldest first regardless of request order
	reload := func(id uuid.UUID) model.Transfer {
		var m model.Transfer
		require.NoError(t, db.First(&m, "transfer_id = ?", id).Error)
		return m
	}
	assert.Equal(t, ledger.TransferStatusPaid, reload(t1.TransferID).TransferStatus)
	r2 := reload(t2.TransferID)
	assert.Equal(t, ledger.TransferStatusPartial, r2.TransferStatus)
	assert.True(t, r2.TransferBalance.Equal(d("30.00")))
	r3 := reload(t3.TransferID)
	assert.Equal(t, ledger.TransferStatusPending, r3.TransferStatus)
	assert.True(t, r3.TransferBalance.Equal(d("200.00")))

	// deleting the batch reverses every allocation
	require.NoError(t, s.DeleteBatchPayment(ctx, actor, res.Batch.BatchPaymentID))
	assert.True(t, reload(t1.TransferID).TransferBalance.Equal(d("100.00")))
	assert.True(t, reload(t2.TransferID).TransferBalance.Equal(d("50.00")))
}

func TestPayableBatchValidation(t *testing.T) {
	s, _ := payableTestService(t)
	ctx := context.Background()
	actor := uuid.New()
	providerA := uuid.New()
	providerB := uuid.New()

	a := newObligation(t, s, providerA, "100.00", time.Now())
	b := newObligation(t, s, providerB, "100.00", time.Now())

	_, err := s.CreateBatchPayment(ctx, actor, BatchInput{
		TransferIDs: []uuid.UUID{a.TransferID, b.TransferID},
		TotalAmount: d("50.00"),
	})
	require.Error(t, err, "mixed providers rejected")

	_, err = s.CreateBatchPayment(ctx, actor, BatchInput{
		TransferIDs: []uuid.UUID{a.TransferID},
		TotalAmount: d("100.01"),
	})
	require.Error(t, err, "overallocation rejected")

	_, err = s.CreateBatchPayment(ctx, actor, BatchInput{
		TransferIDs: []uuid.UUID{a.TransferID, uuid.New()},
		TotalAmount: d("10.00"),
	})
	require.Error(t, err, "unknown transfer rejected")
}

func TestPayableConcurrentPaymentsSerialize(t *testing.T) {
	s, db := payableTestService(t)
	ctx := context.Background()
	actor := uuid.New()

	m := newObligation(t, s, uuid.New(), "100.00", time.Now())

	// ten concurrent 10.00 payments must land at exactly 100.00 paid
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := s.RecordPayment(ctx, actor, m.TransferID, PaymentInput{Amount: d("10.00"), Method: "transfer"})
			errs <- err
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-errs)
	}

	var got model.Transfer
	require.NoError(t, db.First(&got, "transfer_id = ?", m.TransferID).Error)
	assert.True(t, got.TransferPaidAmount.Equal(d("100.00")), "paid = %s", got.TransferPaidAmount)
	assert.True(t, got.TransferBalance.IsZero())
	assert.Equal(t, ledger.TransferStatusPaid, got.TransferStatus)
}

func TestPayableConcurrentOverpaymentRejected(t *testing.T) {
	s, db := payableTestService(t)
	ctx := context.Background()
	actor := uuid.New()

	m := newObligation(t, s, uuid.New(), "100.00", time.Now())

	// two simultaneous 60.00 payments: each fits the balance alone,
	// together they overshoot, so exactly one may land
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := s.RecordPayment(ctx, actor, m.TransferID, PaymentInput{Amount: d("60.00"), Method: "transfer"})
			errs <- err
		}()
	}

	var ok, rejected int
	for i := 0; i < 2; i++ {
		err := <-errs
		if err == nil {
			ok++
			continue
		}
		var fe *fiber.Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		rejected++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)

	var got model.Transfer
	require.NoError(t, db.First(&got, "transfer_id = ?", m.TransferID).Error)
	assert.True(t, got.TransferPaidAmount.Equal(d("60.00")), "paid = %s", got.TransferPaidAmount)
	assert.True(t, got.TransferBalance.Equal(d("40.00")))
	assert.Equal(t, ledger.TransferStatusPartial, got.TransferStatus)
}
