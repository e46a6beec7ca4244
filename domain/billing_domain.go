package domain

import (
	"errors"
)

var (
	MessageSuccessCreateTransaction = "transaction created successfully"
	MessageSuccessProcessWebhook    = "webhook processed successfully"

	MessageFailedCreateTransaction = "failed to create transaction"
	MessageFailedProcessWebhook    = "failed to process webhook"

	ErrPaymentFailed       = errors.New("payment processing failed")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Pro subscription price, in IDR.
const ProSubscriptionAmount int64 = 49000

type (
	SubscribeRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SubscribeResponse struct {
		OrderID     string `json:"order_id"`
		SnapToken   string `json:"snap_token"`
		RedirectURL string `json:"redirect_url"`
	}

	MidtransNotificationRequest struct {
		OrderID           string `json:"order_id" validate:"required"`
		TransactionStatus string `json:"transaction_status"`
		PaymentType       string `json:"payment_type"`
		FraudStatus       string `json:"fraud_status"`
	}
)
