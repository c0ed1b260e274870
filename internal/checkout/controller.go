package checkout

import (
	"context"
	"errors"
	"time"

	"vps-checkout/internal/model"
	"vps-checkout/internal/payment"
	"vps-checkout/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Backend is the slice of the backend API this controller depends on.
// *gateway.Client satisfies it.
type Backend interface {
	GetCart(ctx context.Context, token string) ([]model.CartItem, error)
	ClearCart(ctx context.Context, token string) error
	RemoveCartItem(ctx context.Context, token, itemID string) error
	GetCartPromotion(ctx context.Context, token string) (*model.ValidatedPromotion, error)
	GetAvailablePromotions(ctx context.Context, token string) ([]model.Promotion, error)
	ValidatePromotion(ctx context.Context, token, code string, cartTotal int64) (*model.ValidatedPromotion, error)
	ProceedCheckout(ctx context.Context, token, promotionCode string) (*model.Order, error)
}

// Service defines the checkout workflow operations.
type Service interface {
	// Start opens a checkout session from the user's cart. Fails with
	// CART_EMPTY when the cart is empty or cannot be loaded: checkout never
	// begins with zero items.
	Start(ctx context.Context, token string) (*SessionView, error)

	// Get returns the session with its current price breakdown.
	Get(ctx context.Context, id uuid.UUID) (*SessionView, error)

	// SubmitInfo validates contact fields and advances info → payment.
	SubmitInfo(ctx context.Context, id uuid.UUID, phone, address string) (*SessionView, error)

	// RemoveItem deletes one cart item and refreshes the session's item
	// snapshot. Removing the last item fails with CART_EMPTY.
	RemoveItem(ctx context.Context, token string, id uuid.UUID, itemID string) (*SessionView, error)

	// ListPromotions returns the promotions currently open to the user.
	ListPromotions(ctx context.Context, token string) ([]model.Promotion, error)

	// ApplyPromotion validates a promo code against the session subtotal and
	// attaches the result to the session.
	ApplyPromotion(ctx context.Context, token string, id uuid.UUID, code string) (*SessionView, error)

	// Pay advances payment → processing, finalises the order and initiates
	// the provider payment. On any initiation failure the session reverts to
	// payment and no redirect target is returned.
	Pay(ctx context.Context, token string, id uuid.UUID, provider string) (*PaymentRedirect, error)
}

// SessionView is a session together with its recomputed price breakdown.
type SessionView struct {
	Session   *model.CheckoutSession `json:"session"`
	Breakdown model.PriceBreakdown   `json:"breakdown"`
}

// PaymentRedirect is the gateway handoff for a successfully initiated payment.
// The caller performs a full-page redirect to RedirectURL.
type PaymentRedirect struct {
	RedirectURL   string `json:"redirect_url"`
	Deeplink      string `json:"deeplink,omitempty"`
	QRCodeURL     string `json:"qr_code_url,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	PaymentID     string `json:"payment_id,omitempty"`
	OrderNumber   string `json:"order_number"`
}

// controller implements Service.
type controller struct {
	backend   Backend
	sessions  repository.SessionRepository
	initiator *payment.Initiator
	logger    zerolog.Logger
}

// NewController creates a new checkout controller.
func NewController(
	backend Backend,
	sessions repository.SessionRepository,
	initiator *payment.Initiator,
	logger zerolog.Logger,
) Service {
	return &controller{
		backend:   backend,
		sessions:  sessions,
		initiator: initiator,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Start opens a checkout session from the user's cart.
func (c *controller) Start(ctx context.Context, token string) (*SessionView, error) {
	items, err := c.backend.GetCart(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrAborted) || errors.Is(err, model.ErrNoAccessToken) {
			return nil, err
		}
		c.logger.Warn().Err(err).Msg("cart fetch failed at checkout entry")
		return nil, model.ErrCartEmpty.WithDetail(err.Error())
	}

	if len(items) == 0 {
		c.logger.Debug().Msg("checkout entry with empty cart")
		return nil, model.ErrCartEmpty
	}

	// The cart promotion is optional context: failing to load it must not
	// block checkout entry.
	promo, err := c.backend.GetCartPromotion(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrAborted) {
			return nil, err
		}
		c.logger.Warn().Err(err).Msg("cart promotion fetch failed, continuing without promotion")
		promo = nil
	}

	now := time.Now()
	session := &model.CheckoutSession{
		ID:        uuid.New(),
		Step:      model.StepInfo,
		Items:     items,
		Promotion: promo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("session_id", session.ID.String()).
		Int("item_count", len(items)).
		Msg("checkout session started")

	return c.view(session), nil
}

// Get returns the session with its current price breakdown.
func (c *controller) Get(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	session, err := c.getSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.view(session), nil
}

// SubmitInfo validates contact fields and advances info → payment.
func (c *controller) SubmitInfo(ctx context.Context, id uuid.UUID, phone, address string) (*SessionView, error) {
	if err := ValidateContact(phone, address); err != nil {
		return nil, err
	}

	session, err := c.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	// Contact info is editable from info and payment only. processing is
	// hands-off: an initiation may be in flight, and pulling the session
	// back here would reopen the duplicate-submission window.
	if session.Step != model.StepInfo && session.Step != model.StepPayment {
		return nil, model.ErrIllegalTransition
	}

	session.Phone = phone
	session.Address = address
	session.Step = model.StepPayment

	if err := c.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("session_id", session.ID.String()).
		Msg("contact info accepted, session in payment step")

	return c.view(session), nil
}

// RemoveItem deletes one cart item and refreshes the session snapshot.
func (c *controller) RemoveItem(ctx context.Context, token string, id uuid.UUID, itemID string) (*SessionView, error) {
	session, err := c.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step == model.StepProcessing {
		return nil, model.ErrIllegalTransition
	}

	if err := c.backend.RemoveCartItem(ctx, token, itemID); err != nil {
		return nil, err
	}

	items, err := c.backend.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.ErrCartEmpty.WithDetail("last item removed, checkout cannot continue")
	}

	session.Items = items
	if err := c.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("session_id", session.ID.String()).
		Str("item_id", itemID).
		Int("item_count", len(items)).
		Msg("cart item removed from checkout session")

	return c.view(session), nil
}

// ListPromotions returns the promotions currently open to the user.
func (c *controller) ListPromotions(ctx context.Context, token string) ([]model.Promotion, error) {
	return c.backend.GetAvailablePromotions(ctx, token)
}

// ApplyPromotion validates a promo code against the session subtotal.
func (c *controller) ApplyPromotion(ctx context.Context, token string, id uuid.UUID, code string) (*SessionView, error) {
	session, err := c.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	subtotal := Subtotal(session.Items)
	validated, err := c.backend.ValidatePromotion(ctx, token, code, subtotal)
	if err != nil {
		return nil, err
	}

	// The discount can never exceed what is being discounted.
	if validated.DiscountAmount > subtotal {
		validated.DiscountAmount = subtotal
	}

	session.Promotion = validated
	if err := c.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("session_id", session.ID.String()).
		Str("code", code).
		Int64("discount", validated.DiscountAmount).
		Msg("promotion applied")

	return c.view(session), nil
}

// Pay drives payment → processing → gateway handoff.
func (c *controller) Pay(ctx context.Context, token string, id uuid.UUID, providerName string) (*PaymentRedirect, error) {
	provider, err := payment.ParseProvider(providerName)
	if err != nil {
		return nil, err
	}

	session, err := c.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	// The conditional transition doubles as the duplicate-submission guard:
	// a second concurrent Pay finds the session already in processing.
	moved, err := c.sessions.TransitionStep(ctx, id, model.StepPayment, model.StepProcessing)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, model.ErrIllegalTransition
	}

	promotionCode := ""
	if session.Promotion != nil {
		promotionCode = session.Promotion.Promotion.Code
	}

	order, err := c.backend.ProceedCheckout(ctx, token, promotionCode)
	if err != nil {
		c.revertToPayment(ctx, id)
		return nil, err
	}

	session.Step = model.StepProcessing
	session.Method = provider.String()
	session.OrderNumber = order.OrderNumber
	if err := c.sessions.Save(ctx, session); err != nil {
		c.revertToPayment(ctx, id)
		return nil, err
	}

	amount := order.Price
	if amount == 0 {
		amount = Breakdown(session).Total
	}

	resp, err := c.initiator.Initiate(ctx, token, payment.InitiationRequest{
		Provider:    provider,
		OrderNumber: order.OrderNumber,
		Amount:      amount,
		Phone:       session.Phone,
		Address:     session.Address,
	})
	if err != nil {
		c.revertToPayment(ctx, id)
		return nil, err
	}

	// The order has absorbed the cart; clearing it is best effort and must
	// not fail an already-initiated payment.
	if err := c.backend.ClearCart(context.WithoutCancel(ctx), token); err != nil {
		c.logger.Warn().
			Err(err).
			Str("session_id", session.ID.String()).
			Msg("failed to clear cart after checkout handoff")
	}

	c.logger.Info().
		Str("session_id", session.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("provider", provider.String()).
		Int64("amount", amount).
		Msg("payment initiated, handing off to gateway")

	return &PaymentRedirect{
		RedirectURL:   resp.PaymentURL,
		Deeplink:      resp.Deeplink,
		QRCodeURL:     resp.QRCodeURL,
		TransactionID: resp.TransactionID,
		PaymentID:     resp.PaymentID,
		OrderNumber:   order.OrderNumber,
	}, nil
}

// revertToPayment moves a session stuck in processing back to payment. The
// user must never be stranded in processing after a failed initiation, so the
// revert runs detached from the (possibly cancelled) request context.
func (c *controller) revertToPayment(ctx context.Context, id uuid.UUID) {
	detached := context.WithoutCancel(ctx)
	moved, err := c.sessions.TransitionStep(detached, id, model.StepProcessing, model.StepPayment)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("session_id", id.String()).
			Msg("failed to revert session to payment step")
		return
	}
	if moved {
		c.logger.Debug().
			Str("session_id", id.String()).
			Msg("session reverted to payment step")
	}
}

func (c *controller) getSession(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error) {
	session, err := c.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (c *controller) view(session *model.CheckoutSession) *SessionView {
	return &SessionView{
		Session:   session,
		Breakdown: Breakdown(session),
	}
}
