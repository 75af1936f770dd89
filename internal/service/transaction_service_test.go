package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"goclean-be-svc/internal/models"
)

// completedTransaction drives a pickup to COMPLETED and returns its transaction
func (f *fixture) completedTransaction(t *testing.T, owner, tps Actor, category *models.WasteCategory) *models.Transaction {
	t.Helper()
	p := f.createPickup(t, owner, "Tebet", category)
	_, err := f.pickups.AcceptPickup(tps, p.ID)
	require.NoError(t, err)
	_, err = f.pickups.StartPickup(tps, p.ID)
	require.NoError(t, err)
	picked, err := f.pickups.MarkPickedUp(tps, p.ID)
	require.NoError(t, err)

	res, err := f.pickups.CompletePickup(tps, p.ID, &CompletePickupRequest{
		Items: []CompletePickupItemRequest{{ItemID: picked.Items[0].ID, ActualWeightKg: 1}},
	})
	require.NoError(t, err)
	return res.Transaction
}

func TestParsePaymentDescription(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []uint
		wantErr bool
	}{
		{name: "single", input: "12 (DocumentID: abc)", want: []uint{12}},
		{name: "multiple", input: "6,2 (DocumentID: abc)", want: []uint{6, 2}},
		{name: "duplicates collapse", input: "6,6,2", want: []uint{6, 2}},
		{name: "empty", input: "  ", wantErr: true},
		{name: "garbage", input: "abc (DocumentID: x)", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePaymentDescription(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "6,2 (DocumentID: doc-6)", paymentDescription([]uint{6, 2}, "doc-6"))
}

func TestTransactionService_PaymentLinkAndWebhook(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	other := f.user(t, "other@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	plastic := f.category(t, "PLASTIC", 3000, true)

	trx1 := f.completedTransaction(t, owner, tps, plastic)
	trx2 := f.completedTransaction(t, owner, tps, plastic)
	unpaid := f.completedTransaction(t, owner, tps, plastic)
	ctx := context.Background()

	var gotAmount int64
	var gotDescription string
	f.gateway.CreatePaymentLinkFunc = func(_ context.Context, amount int64, description string, customer MayarCustomer) (*PaymentLink, error) {
		gotAmount = amount
		gotDescription = description
		assert.Equal(t, "warga@test.id", customer.Email)
		return &PaymentLink{URL: "https://goclean.myr.id/pay/1", Reference: "mayar-1"}, nil
	}

	t.Run("only the owner can pay", func(t *testing.T) {
		_, err := f.transactions.CreatePaymentLink(ctx, other, []uint{trx1.ID})
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = f.transactions.CreatePaymentLink(ctx, tps, []uint{trx1.ID})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		_, err := f.transactions.CreatePaymentLink(ctx, owner, []uint{trx1.ID, 999})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	link, err := f.transactions.CreatePaymentLink(ctx, owner, []uint{trx1.ID, trx2.ID})
	require.NoError(t, err)
	assert.Equal(t, trx1.TotalAmount+trx2.TotalAmount, link.Amount)
	assert.Equal(t, gotAmount, link.Amount)
	assert.Equal(t, "https://goclean.myr.id/pay/1", link.PaymentURL)
	assert.Equal(t, gotDescription, link.Description)

	pending, err := f.transactions.Get(owner, trx1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, pending.PaymentStatus)
	require.NotNil(t, pending.PaymentURL)

	t.Run("pending transactions cannot get a second link", func(t *testing.T) {
		_, err := f.transactions.CreatePaymentLink(ctx, owner, []uint{trx1.ID})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	webhook := &MayarWebhookRequest{Event: "payment.received"}
	webhook.Data.Status = "SUCCESS"
	webhook.Data.TransactionID = "mayar-trx-9"
	webhook.Data.ProductDescription = link.Description
	webhook.Data.Amount = link.Amount

	t.Run("non-payment events are ignored", func(t *testing.T) {
		ignored := &MayarWebhookRequest{Event: "payment.reminder"}
		ignored.Data.ProductDescription = link.Description
		res, err := f.transactions.ConfirmPaymentWebhook(ignored)
		require.NoError(t, err)
		assert.True(t, res.Ignored)

		still, err := f.transactions.Get(owner, trx1.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, still.PaymentStatus)
	})

	t.Run("amount must match what is due", func(t *testing.T) {
		short := *webhook
		short.Data.Amount = link.Amount - 1
		_, err := f.transactions.ConfirmPaymentWebhook(&short)
		assert.ErrorIs(t, err, ErrInvalidInput)

		still, err := f.transactions.Get(owner, trx1.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, still.PaymentStatus)
	})

	t.Run("rows without a payment link are rejected", func(t *testing.T) {
		forged := *webhook
		forged.Data.ProductDescription = paymentDescription([]uint{unpaid.ID}, unpaid.DocumentID)
		forged.Data.Amount = unpaid.TotalAmount
		_, err := f.transactions.ConfirmPaymentWebhook(&forged)
		assert.ErrorIs(t, err, ErrInvalidInput)

		still, err := f.transactions.Get(owner, unpaid.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentUnpaid, still.PaymentStatus)

		mixed := *webhook
		mixed.Data.ProductDescription = paymentDescription([]uint{trx1.ID, trx2.ID, unpaid.ID}, trx1.DocumentID)
		mixed.Data.Amount = link.Amount + unpaid.TotalAmount
		_, err = f.transactions.ConfirmPaymentWebhook(&mixed)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	res, err := f.transactions.ConfirmPaymentWebhook(webhook)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{trx1.ID, trx2.ID}, res.Updated)

	paid, err := f.transactions.Get(tps, trx2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.PaymentReference)
	assert.Equal(t, "mayar-trx-9", *paid.PaymentReference)

	paymentNotifications := func(userID uint) int {
		n := 0
		for _, notif := range f.notificationsOf(t, userID) {
			if notif.Type == models.NotifPaymentReceived {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 2, paymentNotifications(owner.UserID))
	assert.Equal(t, 2, paymentNotifications(tps.UserID))

	t.Run("replayed webhook changes nothing", func(t *testing.T) {
		res, err := f.transactions.ConfirmPaymentWebhook(webhook)
		require.NoError(t, err)
		assert.Empty(t, res.Updated)
		assert.Equal(t, 2, paymentNotifications(owner.UserID))
	})

	t.Run("malformed description", func(t *testing.T) {
		bad := &MayarWebhookRequest{Event: "payment.received"}
		bad.Data.ProductDescription = "hello world"
		_, err := f.transactions.ConfirmPaymentWebhook(bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestTransactionService_GatewayFailureKeepsUnpaid(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	trx := f.completedTransaction(t, owner, tps, f.category(t, "PLASTIC", 3000, true))

	f.gateway.CreatePaymentLinkFunc = func(context.Context, int64, string, MayarCustomer) (*PaymentLink, error) {
		return nil, errors.New("gateway down")
	}

	_, err := f.transactions.CreatePaymentLink(context.Background(), owner, []uint{trx.ID})
	require.Error(t, err)

	got, err := f.transactions.Get(owner, trx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentUnpaid, got.PaymentStatus)
}

func TestTransactionService_ConfirmCashPayment(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	otherTPS := f.tps(t, "b@tps.id", "Tebet", true)
	trx := f.completedTransaction(t, owner, tps, f.category(t, "PLASTIC", 3000, true))

	_, err := f.transactions.ConfirmCashPayment(owner, trx.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.transactions.ConfirmCashPayment(otherTPS, trx.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	paid, err := f.transactions.ConfirmCashPayment(tps, trx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, models.PaymentCash, *paid.PaymentMethod)

	_, err = f.transactions.ConfirmCashPayment(tps, trx.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransactionService_ListAndExport(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "warga@test.id", "Tebet")
	other := f.user(t, "other@test.id", "Tebet")
	tps := f.tps(t, "a@tps.id", "Tebet", true)
	admin := f.admin(t)
	plastic := f.category(t, "PLASTIC", 3000, true)
	f.completedTransaction(t, owner, tps, plastic)
	f.completedTransaction(t, other, tps, plastic)

	_, total, err := f.transactions.List(owner, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = f.transactions.List(tps, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = f.transactions.List(admin, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	content, filename, err := f.transactions.Export(TransactionExportFilter{Kecamatan: "Tebet"})
	require.NoError(t, err)
	assert.Contains(t, filename, "transactions_export_")

	book, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "No", rows[0][0])
	assert.Equal(t, "Paid At", rows[0][11])
	assert.Equal(t, "TPS a@tps.id", rows[1][3])
}
