package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditModel "aduanet_backend/internals/features/audit/model"
	auditSvc "aduanet_backend/internals/features/audit/service"
	"aduanet_backend/internals/features/billing/ledger"
	model "aduanet_backend/internals/features/billing/invoices/model"
	lineModel "aduanet_backend/internals/features/billing/lines/model"
	transferModel "aduanet_backend/internals/features/billing/transfers/model"
	catalogModel "aduanet_backend/internals/features/catalog/model"
	orderModel "aduanet_backend/internals/features/orders/model"
	"aduanet_backend/internals/locks"
)

type receivableFixture struct {
	svc    *ReceivableService
	db     *gorm.DB
	client catalogModel.Client
	order  orderModel.Order
}

func receivableTestFixture(t *testing.T, retentionSubject bool) *receivableFixture {
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
		&model.InvoicePayment{}, &model.CreditNote{}, &model.Invoice{},
		&lineModel.ChargeLine{}, &transferModel.TransferPayment{}, &transferModel.Transfer{},
		&orderModel.Order{}, &catalogModel.Client{}, &auditModel.AuditLog{}))
	require.NoError(t, db.AutoMigrate(
		&catalogModel.Client{}, &orderModel.Order{}, &lineModel.ChargeLine{},
		&transferModel.Transfer{}, &transferModel.TransferPayment{},
		&model.Invoice{}, &model.InvoicePayment{}, &model.CreditNote{},
		&auditModel.AuditLog{}))

	f := &receivableFixture{
		svc: &ReceivableService{
			DB:       db,
			Guard:    locks.NewKeyedMutex(2 * time.Second),
			Audit:    auditSvc.NewRecorder(),
			Notifier: auditSvc.LogNotifier{},
		},
		db: db,
	}

	f.client = catalogModel.Client{ClientName: "Importadora Pacifico", ClientIsRetentionSubject: retentionSubject}
	require.NoError(t, db.Create(&f.client).Error)
	f.order = orderModel.Order{OrderNumber: "001-2026", OrderClientID: f.client.ClientID, OrderStatus: orderModel.OrderStatusOpen}
	require.NoError(t, db.Create(&f.order).Error)
	return f
}

// chargeLine seeds a pre-priced service line on the fixture order.
func (f *receivableFixture) chargeLine(t *testing.T, subtotal, tax string) lineModel.ChargeLine {
	t.Helper()
	l := lineModel.ChargeLine{
		ChargeLineOrderID:      f.order.OrderID,
		ChargeLineDescription:  "customs clearance",
		ChargeLineQuantity:     1,
		ChargeLineUnitPrice:    d(subtotal),
		ChargeLineTaxTreatment: "taxed",
		ChargeLineSubtotal:     d(subtotal),
		ChargeLineTax:          d(tax),
		ChargeLineTotal:        d(subtotal).Add(d(tax)),
	}
	require.NoError(t, f.db.Create(&l).Error)
	return l
}

func (f *receivableFixture) expense(t *testing.T, cost, markupPct, treatment string) transferModel.Transfer {
	t.Helper()
	m := transferModel.Transfer{
		TransferOrderID:      &f.order.OrderID,
		TransferType:         transferModel.TransferTypeOrderExpense,
		TransferDescription:  "port handling",
		TransferAmount:       d(cost),
		TransferMarkupPct:    d(markupPct),
		TransferTaxTreatment: treatment,
	}
	require.NoError(t, f.db.Create(&m).Error)
	return m
}

func TestInvoiceCreateComputesTotals(t *testing.T) {
	f := receivableTestFixture(t, true)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "100.00", "13.00")
	exp := f.expense(t, "200.00", "10", "not_subject")

	inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:     f.order.OrderID,
		Type:        model.InvoiceTypeTaxCredit,
		ChargeIDs:   []uuid.UUID{line.ChargeLineID},
		TransferIDs: []uuid.UUID{exp.TransferID},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^PRE-\d{5}-\d{4}$`, inv.InvoiceNumber)
	assert.True(t, inv.InvoiceSubtotalServices.Equal(d("100.00")))
	assert.True(t, inv.InvoiceTaxServices.Equal(d("13.00")))
	// billback: 200 + 10% markup, not subject to tax
	assert.True(t, inv.InvoiceSubtotalThirdParty.Equal(d("220.00")))
	// retention: (100 + 220) × 0.01
	assert.True(t, inv.InvoiceRetention.Equal(d("3.20")), "retention = %s", inv.InvoiceRetention)
	assert.True(t, inv.InvoiceTotalAmount.Equal(d("333.00")))
	assert.True(t, inv.InvoiceBalance.Equal(d("329.80")))
	assert.Equal(t, ledger.InvoiceStatusPending, inv.InvoiceStatus)

	// the line now belongs to this invoice
	var got lineModel.ChargeLine
	require.NoError(t, f.db.First(&got, "charge_line_id = ?", line.ChargeLineID).Error)
	require.NotNil(t, got.ChargeLineInvoiceID)
	assert.Equal(t, inv.InvoiceID, *got.ChargeLineInvoiceID)
}

func TestInvoiceAttachIsIdempotentClaim(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "50.00", "6.50")

	first, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)

	second, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{OrderID: f.order.OrderID})
	require.NoError(t, err)

	// claiming an owned line is a silent skip, never an error
	second, err = f.svc.AttachItems(ctx, actor, second.InvoiceID, []uuid.UUID{line.ChargeLineID}, nil)
	require.NoError(t, err)
	assert.True(t, second.InvoiceTotalAmount.IsZero())

	var got lineModel.ChargeLine
	require.NoError(t, f.db.First(&got, "charge_line_id = ?", line.ChargeLineID).Error)
	assert.Equal(t, first.InvoiceID, *got.ChargeLineInvoiceID)
}

func TestInvoicePaymentLifecycle(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "100.00", "13.00")
	inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)

	inv, err = f.svc.RecordPayment(ctx, actor, inv.InvoiceID, ReceiptInput{Amount: d("50.00"), Method: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusPartial, inv.InvoiceStatus)
	assert.True(t, inv.InvoiceBalance.Equal(d("63.00")))

	_, err = f.svc.RecordPayment(ctx, actor, inv.InvoiceID, ReceiptInput{Amount: d("63.01"), Method: "transfer"})
	require.Error(t, err, "overpayment rejected")

	inv, err = f.svc.AddCreditNote(ctx, actor, inv.InvoiceID, CreditNoteInput{Amount: d("63.00")})
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusPaid, inv.InvoiceStatus)
	assert.True(t, inv.InvoiceBalance.IsZero())

	// reversing the credit reopens the balance
	var cn model.CreditNote
	require.NoError(t, f.db.First(&cn, "credit_note_invoice_id = ?", inv.InvoiceID).Error)
	inv, err = f.svc.DeleteCreditNote(ctx, actor, cn.CreditNoteID)
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusPartial, inv.InvoiceStatus)
	assert.True(t, inv.InvoiceBalance.Equal(d("63.00")))
}

func TestInvoiceDteFreeze(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "100.00", "13.00")
	inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)

	inv, err = f.svc.MarkDteIssued(ctx, actor, inv.InvoiceID, "DTE-01-00000001", map[string]any{"ambiente": "01"})
	require.NoError(t, err)
	assert.True(t, inv.InvoiceIsDteIssued)

	_, err = f.svc.MarkDteIssued(ctx, actor, inv.InvoiceID, "DTE-01-00000002", nil)
	require.Error(t, err, "double issuance rejected")

	// items are frozen
	_, err = f.svc.AttachItems(ctx, actor, inv.InvoiceID, []uuid.UUID{uuid.New()}, nil)
	require.Error(t, err)
	_, err = f.svc.RemoveItem(ctx, actor, inv.InvoiceID, ItemTypeCharge, line.ChargeLineID)
	require.Error(t, err)
	_, err = f.svc.EditAttachedLine(ctx, actor, inv.InvoiceID, line.ChargeLineID, LineEdit{UnitPrice: decPtr("999")})
	require.Error(t, err)

	// payments and credit notes still move the balance
	inv, err = f.svc.RecordPayment(ctx, actor, inv.InvoiceID, ReceiptInput{Amount: d("13.00"), Method: "cash"})
	require.NoError(t, err)
	inv, err = f.svc.AddCreditNote(ctx, actor, inv.InvoiceID, CreditNoteInput{Amount: d("100.00")})
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusPaid, inv.InvoiceStatus)
}

func TestEmptyPreInvoiceSelfDeletes(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "40.00", "5.20")
	inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)

	deleted, err := f.svc.RemoveItem(ctx, actor, inv.InvoiceID, ItemTypeCharge, line.ChargeLineID)
	require.NoError(t, err)
	assert.True(t, deleted, "emptied pre-invoice deletes itself")

	var count int64
	require.NoError(t, f.db.Model(&model.Invoice{}).Where("invoice_id = ?", inv.InvoiceID).Count(&count).Error)
	assert.Zero(t, count)

	// the line is back on the order, available again
	var got lineModel.ChargeLine
	require.NoError(t, f.db.First(&got, "charge_line_id = ?", line.ChargeLineID).Error)
	assert.Nil(t, got.ChargeLineInvoiceID)
}

func TestInvoiceCancelIsSticky(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "100.00", "13.00")
	inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)

	inv, err = f.svc.Cancel(ctx, actor, inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusCancelled, inv.InvoiceStatus)

	_, err = f.svc.RecordPayment(ctx, actor, inv.InvoiceID, ReceiptInput{Amount: d("1.00"), Method: "cash"})
	require.Error(t, err, "cancelled invoices take no money")

	// recompute never exits cancelled
	inv, err = f.svc.EditAttachedLine(ctx, actor, inv.InvoiceID, line.ChargeLineID, LineEdit{UnitPrice: decPtr("50")})
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusCancelled, inv.InvoiceStatus)
}

func TestListBillableItems(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "100.00", "13.00")
	f.expense(t, "200.00", "10", "taxed")

	items, err := f.svc.ListBillableItems(ctx, f.order.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ItemTypeCharge, items[0].ItemType)
	assert.Equal(t, ItemTypeExpense, items[1].ItemType)
	// billed back at 220 base + 13% tax
	assert.True(t, items[1].Total.Equal(d("248.60")), "total = %s", items[1].Total)
	assert.True(t, items[0].Editable)

	// attaching removes from the pool
	_, err = f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)

	items, err = f.svc.ListBillableItems(ctx, f.order.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ItemTypeExpense, items[0].ItemType)
}

func TestInvoiceConcurrentOverpaymentRejected(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "100.00", "13.00")
	inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)
	require.True(t, inv.InvoiceBalance.Equal(d("113.00")))

	// each 60.00 fits the balance alone, together they overshoot
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.svc.RecordPayment(ctx, actor, inv.InvoiceID, ReceiptInput{Amount: d("60.00"), Method: "transfer"})
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

	var got model.Invoice
	require.NoError(t, f.db.First(&got, "invoice_id = ?", inv.InvoiceID).Error)
	assert.True(t, got.InvoicePaidAmount.Equal(d("60.00")), "paid = %s", got.InvoicePaidAmount)
	assert.True(t, got.InvoiceBalance.Equal(d("53.00")))
	assert.Equal(t, ledger.InvoiceStatusPartial, got.InvoiceStatus)
}

func TestPreInvoiceNumbersUniqueAcrossOrders(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	// a second order so the per-order locks never collide and only the
	// year sequence lock stands between the allocations
	other := orderModel.Order{OrderNumber: "002-2026", OrderClientID: f.client.ClientID, OrderStatus: orderModel.OrderStatusOpen}
	require.NoError(t, f.db.Create(&other).Error)

	orders := []uuid.UUID{f.order.OrderID, other.OrderID, f.order.OrderID, other.OrderID}
	type allocation struct {
		number string
		err    error
	}
	results := make(chan allocation, len(orders))
	for _, id := range orders {
		go func(orderID uuid.UUID) {
			inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{OrderID: orderID})
			if err != nil {
				results <- allocation{err: err}
				return
			}
			results <- allocation{number: inv.InvoiceNumber}
		}(id)
	}

	seen := map[string]bool{}
	for range orders {
		r := <-results
		require.NoError(t, r.err)
		require.False(t, seen[r.number], "number %s allocated twice", r.number)
		seen[r.number] = true
	}
	assert.Len(t, seen, len(orders))
}

func TestDueDateEditRederivesStatus(t *testing.T) {
	f := receivableTestFixture(t, false)
	ctx := context.Background()
	actor := uuid.New()

	line := f.chargeLine(t, "100.00", "13.00")
	inv, err := f.svc.CreateInvoice(ctx, actor, InvoiceInput{
		OrderID:   f.order.OrderID,
		ChargeIDs: []uuid.UUID{line.ChargeLineID},
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.InvoiceStatusPending, inv.InvoiceStatus)

	// moving the due date into the past must surface overdue without
	// waiting for the next money mutation
	yesterday := time.Now().AddDate(0, 0, -1)
	inv.InvoiceDueDate = &yesterday
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		return f.svc.Recompute(tx, inv)
	}))
	assert.Equal(t, ledger.InvoiceStatusOverdue, inv.InvoiceStatus)

	var got model.Invoice
	require.NoError(t, f.db.First(&got, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, ledger.InvoiceStatusOverdue, got.InvoiceStatus)
}

func decPtr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}
