package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/topup-webhook-bridge/pkg/api"
	"github.com/chris/topup-webhook-bridge/pkg/charge"
	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	gatewaymocks "github.com/chris/topup-webhook-bridge/pkg/gateway/mocks"
	"github.com/chris/topup-webhook-bridge/pkg/handlers/payments/mocks"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/reconcile"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	storagemocks "github.com/chris/topup-webhook-bridge/pkg/storage/mocks"
	"github.com/chris/topup-webhook-bridge/pkg/websockets"
	wsmocks "github.com/chris/topup-webhook-bridge/pkg/websockets/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler    *PaymentsHandler
	charger    *mocks.Charger
	parser     *gatewaymocks.Client
	reconciler *mocks.Reconciler
	store      *storagemocks.Storage
	publisher  *wsmocks.Publisher
}

func newFixture() *fixture {
	f := &fixture{
		charger:    new(mocks.Charger),
		parser:     new(gatewaymocks.Client),
		reconciler: new(mocks.Reconciler),
		store:      new(storagemocks.Storage),
		publisher:  new(wsmocks.Publisher),
	}
	f.handler = NewPaymentsHandler(f.charger, f.parser, f.reconciler, f.store, f.publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func TestCreateCharge(t *testing.T) {
	body := `{"order_id":"A1","amount":50000,"user_id":"U1","user_name":"Budi"}`

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.charger.On("Charge", mock.Anything, mock.MatchedBy(func(req charge.Request) bool {
			return req.OrderID == "A1" && req.UserID == "U1" && req.UserName == "Budi" && req.Amount.Equal(models.MoneyFromInt(50000))
		})).Return(&gateway.ChargeResult{Token: "snap-token", RedirectURL: "https://pay/snap-token"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/charge", strings.NewReader(body))
		rr := httptest.NewRecorder()

		f.handler.CreateCharge(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.ChargeResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "snap-token", resp.Token)
		assert.Equal(t, "https://pay/snap-token", resp.RedirectUrl)
		f.charger.AssertExpectations(t)
	})

	t.Run("Invalid Request", func(t *testing.T) {
		f := newFixture()
		f.charger.On("Charge", mock.Anything, mock.Anything).
			Return(nil, &charge.InvalidRequestError{Field: "amount", Reason: "must be positive"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/charge", strings.NewReader(body))
		rr := httptest.NewRecorder()

		f.handler.CreateCharge(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp api.Error
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "invalid amount: must be positive", resp.Error)
	})

	t.Run("Bad Request - Invalid JSON", func(t *testing.T) {
		f := newFixture()
		req := httptest.NewRequest(http.MethodPost, "/api/charge", strings.NewReader("not-json"))
		rr := httptest.NewRecorder()

		f.handler.CreateCharge(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		f.charger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate Order", func(t *testing.T) {
		f := newFixture()
		f.charger.On("Charge", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("order A1: %w", storage.ErrDuplicateOrder)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/charge", strings.NewReader(body))
		rr := httptest.NewRecorder()

		f.handler.CreateCharge(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "order already exists")
	})

	t.Run("Gateway Failure", func(t *testing.T) {
		f := newFixture()
		f.charger.On("Charge", mock.Anything, mock.Anything).
			Return(nil, &gateway.Error{Op: "create charge", StatusCode: 401}).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/charge", strings.NewReader(body))
		rr := httptest.NewRecorder()

		f.handler.CreateCharge(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHandleNotification(t *testing.T) {
	payload := []byte(`{"order_id":"A1","transaction_status":"settlement"}`)
	notification := &gateway.Notification{
		Status: gateway.Status{
			OrderID:           "A1",
			TransactionStatus: "settlement",
			GrossAmount:       models.MoneyFromInt(50000),
		},
		Confirmed: true,
	}
	tx := &models.Transaction{OrderId: "A1", UserId: "U1", Amount: models.MoneyFromInt(50000), Status: models.SUCCESS}

	t.Run("Credited Publishes Balance", func(t *testing.T) {
		f := newFixture()
		f.parser.On("ParseNotification", mock.Anything, payload).Return(notification, nil).Once()
		f.reconciler.On("HandleNotification", mock.Anything, notification).
			Return(&reconcile.Result{Outcome: reconcile.OutcomeCredited, From: models.PENDING, To: models.SUCCESS, Transaction: tx}, nil).Once()
		f.store.On("GetBalance", mock.Anything, "U1").
			Return(&models.Balance{UserId: "U1", Balance: models.MoneyFromInt(75000)}, nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(msg websockets.Message) bool {
			p, ok := msg.Payload.(websockets.BalanceUpdatePayload)
			return ok && msg.Type == websockets.MessageTypeBalanceUpdate &&
				p.OrderID == "A1" && p.Change.Equal(models.MoneyFromInt(50000)) && p.NewBalance.Equal(models.MoneyFromInt(75000))
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/notification", bytes.NewReader(payload))
		rr := httptest.NewRecorder()

		f.handler.HandleNotification(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
		f.parser.AssertExpectations(t)
		f.reconciler.AssertExpectations(t)
		f.store.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("Redelivery Does Not Publish", func(t *testing.T) {
		f := newFixture()
		f.parser.On("ParseNotification", mock.Anything, payload).Return(notification, nil).Once()
		f.reconciler.On("HandleNotification", mock.Anything, notification).
			Return(&reconcile.Result{Outcome: reconcile.OutcomeAlreadyFinalized, From: models.SUCCESS, To: models.SUCCESS, Transaction: tx}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/notification", bytes.NewReader(payload))
		rr := httptest.NewRecorder()

		f.handler.HandleNotification(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("Publish Failure Still OK", func(t *testing.T) {
		f := newFixture()
		f.parser.On("ParseNotification", mock.Anything, payload).Return(notification, nil).Once()
		f.reconciler.On("HandleNotification", mock.Anything, notification).
			Return(&reconcile.Result{Outcome: reconcile.OutcomeCredited, Transaction: tx}, nil).Once()
		f.store.On("GetBalance", mock.Anything, "U1").Return(nil, assert.AnError).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/notification", bytes.NewReader(payload))
		rr := httptest.NewRecorder()

		f.handler.HandleNotification(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	errorCases := []struct {
		name     string
		parseErr error
		recErr   error
		expected int
	}{
		{name: "Malformed Payload", parseErr: fmt.Errorf("decode: %w", gateway.ErrMalformedPayload), expected: http.StatusBadRequest},
		{name: "Bad Signature", parseErr: gateway.ErrVerification, expected: http.StatusInternalServerError},
		{name: "Unknown At Gateway", parseErr: fmt.Errorf("status A1: %w", gateway.ErrTransactionNotFound), expected: http.StatusNotFound},
		{name: "Unknown Order", recErr: fmt.Errorf("order A1: %w", reconcile.ErrUnknownOrder), expected: http.StatusNotFound},
		{name: "Amount Mismatch", recErr: reconcile.ErrAmountMismatch, expected: http.StatusInternalServerError},
		{name: "Store Failure", recErr: assert.AnError, expected: http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			if tc.parseErr != nil {
				f.parser.On("ParseNotification", mock.Anything, payload).Return(nil, tc.parseErr).Once()
			} else {
				f.parser.On("ParseNotification", mock.Anything, payload).Return(notification, nil).Once()
				f.reconciler.On("HandleNotification", mock.Anything, notification).Return(nil, tc.recErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/notification", bytes.NewReader(payload))
			rr := httptest.NewRecorder()

			f.handler.HandleNotification(rr, req)

			assert.Equal(t, tc.expected, rr.Code)
			if tc.parseErr != nil {
				f.reconciler.AssertNotCalled(t, "HandleNotification", mock.Anything, mock.Anything)
			}
		})
	}
}
