// Package billing 封装 Stripe 结账、客户门户与 webhook 对账
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"gorm.io/gorm"

	"github.com/breezie/breezie/internal/config"
	appmodel "github.com/breezie/breezie/internal/model"
	"github.com/breezie/breezie/internal/repository"
	"github.com/breezie/breezie/internal/service/types"
	"github.com/breezie/breezie/pkg/log"
)

const defaultReturnURL = "http://localhost:3000/app/account"

// stripeAPI 抽象 Stripe 客户端，便于测试注入
type stripeAPI interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	NewPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
	NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error)
}

// apiClient 基于官方 client.API 的默认实现
type apiClient struct {
	sc *client.API
}

func newAPIClient(secretKey string) *apiClient {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &apiClient{sc: sc}
}

func (c *apiClient) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return c.sc.CheckoutSessions.New(params)
}

func (c *apiClient) NewPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	return c.sc.BillingPortalSessions.New(params)
}

func (c *apiClient) NewCustomer(params *stripe.CustomerParams) (*stripe.Customer, error) {
	return c.sc.Customers.New(params)
}

// Service 订阅计费服务
type Service struct {
	cfg  config.StripeConfig
	api  stripeAPI
	subs repository.SubscriptionRepository
}

// NewService 创建计费服务，未配置密钥时 Stripe 调用返回 ErrNotConfigured
func NewService(cfg config.StripeConfig, subs repository.SubscriptionRepository) *Service {
	var api stripeAPI
	if cfg.SecretKey != "" {
		api = newAPIClient(cfg.SecretKey)
	}
	return &Service{cfg: cfg, api: api, subs: subs}
}

func (s *Service) returnURL() string {
	if s.cfg.BillingReturnURL != "" {
		return s.cfg.BillingReturnURL
	}
	return defaultReturnURL
}

// GetSubscription 查询当前订阅状态，未订阅返回 free 占位
func (s *Service) GetSubscription(ctx context.Context, userID string) (*appmodel.Subscription, error) {
	if userID == "" {
		return nil, types.ErrUnauthorized
	}
	sub, err := s.subs.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &appmodel.Subscription{UserID: userID, Plan: "free", Status: "none"}, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// CreateCheckout 创建订阅模式的结账会话，返回托管页 URL
// user_id 写入 session 与 subscription 元数据，供 webhook 对账
func (s *Service) CreateCheckout(ctx context.Context, userID, email string) (string, error) {
	if userID == "" {
		return "", types.ErrUnauthorized
	}
	if s.api == nil || s.cfg.PriceID == "" {
		return "", fmt.Errorf("%w: missing stripe.secretKey or stripe.priceId", types.ErrNotConfigured)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(s.cfg.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(s.returnURL() + "?checkout=success"),
		CancelURL:  stripe.String(s.returnURL() + "?checkout=cancelled"),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": userID},
		},
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata("user_id", userID)

	session, err := s.api.NewCheckoutSession(params)
	if err != nil {
		return "", fmt.Errorf("%w: create checkout session: %v", types.ErrUpstream, err)
	}
	return session.URL, nil
}

// CreatePortal 创建客户门户会话，首次访问时先建 Stripe 客户并落库
func (s *Service) CreatePortal(ctx context.Context, userID, email string) (string, error) {
	if userID == "" {
		return "", types.ErrUnauthorized
	}
	if s.api == nil {
		return "", fmt.Errorf("%w: missing stripe.secretKey", types.ErrNotConfigured)
	}

	customerID, err := s.ensureCustomer(userID, email)
	if err != nil {
		return "", err
	}

	session, err := s.api.NewPortalSession(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(s.returnURL()),
	})
	if err != nil {
		return "", fmt.Errorf("%w: create portal session: %v", types.ErrUpstream, err)
	}
	return session.URL, nil
}

// ensureCustomer 复用已记录的 Stripe 客户，缺失时创建并 upsert
func (s *Service) ensureCustomer(userID, email string) (string, error) {
	sub, err := s.subs.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub != nil && sub.StripeCustomerID != "" {
		return sub.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{}
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.AddMetadata("user_id", userID)

	customer, err := s.api.NewCustomer(params)
	if err != nil {
		return "", fmt.Errorf("%w: create customer: %v", types.ErrUpstream, err)
	}

	row := &appmodel.Subscription{UserID: userID, StripeCustomerID: customer.ID}
	if sub != nil {
		row = sub
		row.StripeCustomerID = customer.ID
	}
	if err := s.subs.Upsert(row); err != nil {
		return "", fmt.Errorf("failed to save customer id: %w", err)
	}
	return customer.ID, nil
}

// HandleWebhook 校验签名并按事件类型更新订阅状态
// 签名不合法返回 ErrInvalidInput 且不写库；无关事件确认后忽略
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if s.cfg.WebhookSecret == "" {
		return fmt.Errorf("%w: missing stripe.webhookSecret", types.ErrNotConfigured)
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("%w: webhook signature verification failed: %v", types.ErrInvalidInput, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(event.Data.Raw)
	case "customer.subscription.updated", "customer.subscription.deleted":
		return s.handleSubscriptionChanged(event.Data.Raw)
	default:
		log.Infow("ignoring stripe event", "type", event.Type)
		return nil
	}
}

func (s *Service) handleCheckoutCompleted(raw json.RawMessage) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("%w: decode checkout session: %v", types.ErrInvalidInput, err)
	}

	userID := session.Metadata["user_id"]
	if userID == "" {
		log.Warnf("checkout session %s has no user_id metadata, skipping", session.ID)
		return nil
	}

	row := &appmodel.Subscription{
		UserID: userID,
		Plan:   "pro",
		Status: "active",
	}
	if session.Customer != nil {
		row.StripeCustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		row.StripeSubscriptionID = session.Subscription.ID
	}

	if err := s.subs.Upsert(row); err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}
	log.Infow("subscription activated", "user_id", userID, "subscription_id", row.StripeSubscriptionID)
	return nil
}

func (s *Service) handleSubscriptionChanged(raw json.RawMessage) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return fmt.Errorf("%w: decode subscription: %v", types.ErrInvalidInput, err)
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		log.Warnf("subscription %s has no user_id metadata, skipping", sub.ID)
		return nil
	}

	row := &appmodel.Subscription{
		UserID:               userID,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
	}
	if sub.Customer != nil {
		row.StripeCustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		row.Plan = sub.Items.Data[0].Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		row.CurrentPeriodEnd = &end
	}

	if err := s.subs.Upsert(row); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	log.Infow("subscription updated", "user_id", userID, "status", row.Status)
	return nil
}
