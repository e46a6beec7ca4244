package billing

import (
	"MenuLens/domain"
	"MenuLens/entities"
	"MenuLens/internal/utils"
	"MenuLens/pkg/user"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

type (
	BillingService interface {
		CreateSubscription(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error)
		ProcessNotification(ctx context.Context, req domain.MidtransNotificationRequest) error
	}

	billingService struct {
		billingRepository BillingRepository
		userRepository    user.UserRepository
		snapClient        snap.Client
		coreClient        coreapi.Client
	}
)

func NewBillingService(billingRepository BillingRepository, userRepository user.UserRepository) BillingService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(utils.GetConfig("SERVER_KEY"), env)

	var coreClient coreapi.Client
	coreClient.New(utils.GetConfig("SERVER_KEY"), env)

	return &billingService{
		billingRepository: billingRepository,
		userRepository:    userRepository,
		snapClient:        snapClient,
		coreClient:        coreClient,
	}
}

func (s *billingService) CreateSubscription(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscribeResponse{}, domain.ErrParseUUID
	}

	orderID := fmt.Sprintf("menulens-pro-%s-%d", userID[:8], time.Now().Unix())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: domain.ProSubscriptionAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.SubscribeResponse{}, domain.ErrPaymentFailed
	}

	transaction := &entities.Transaction{
		ID:          uuid.New(),
		UserID:      userUUID,
		OrderID:     orderID,
		GrossAmount: domain.ProSubscriptionAmount,
		Status:      "pending",
		SnapToken:   snapResp.Token,
	}
	if err := s.billingRepository.CreateTransaction(ctx, transaction); err != nil {
		return domain.SubscribeResponse{}, err
	}

	return domain.SubscribeResponse{
		OrderID:     orderID,
		SnapToken:   snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

// ProcessNotification handles the Midtrans webhook. The reported status is
// never trusted directly; it is re-checked against the Midtrans API before
// any state changes.
func (s *billingService) ProcessNotification(ctx context.Context, req domain.MidtransNotificationRequest) error {
	transaction, err := s.billingRepository.GetTransactionByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionNotFound
		}
		return err
	}

	statusResp, checkErr := s.coreClient.CheckTransaction(req.OrderID)
	if checkErr != nil || statusResp == nil {
		return domain.ErrPaymentFailed
	}

	status := statusResp.TransactionStatus
	if status == "capture" && statusResp.FraudStatus == "accept" {
		status = "settlement"
	}

	if err := s.billingRepository.UpdateTransactionStatus(ctx, req.OrderID, status, statusResp.PaymentType); err != nil {
		return err
	}

	if status == "settlement" {
		return s.userRepository.MarkPro(ctx, transaction.UserID.String())
	}
	return nil
}
