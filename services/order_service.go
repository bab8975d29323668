package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Artur470/postgreql/cache"
	"github.com/Artur470/postgreql/events"
	"github.com/Artur470/postgreql/mailer"
	"github.com/Artur470/postgreql/models"
)

// OrderService converts an open cart into an immutable order. Order creation
// and cart clearing commit in one transaction; the operator notification and
// the kafka event go out only after commit and are never allowed to undo it.
type OrderService struct {
	db       *gorm.DB
	notifier mailer.Notifier
	producer *events.Producer
	cache    *cache.Cache
}

func NewOrderService(db *gorm.DB, notifier mailer.Notifier, producer *events.Producer, c *cache.Cache) *OrderService {
	return &OrderService{db: db, notifier: notifier, producer: producer, cache: c}
}

type CheckoutInput struct {
	Address         string
	PaymentMethodID *uint
}

// Checkout creates the order, closes the cart and clears its items, then
// dispatches the operator notification. Stock is not restored: the sale
// consumed it.
func (s *OrderService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*models.Order, error) {
	if strings.TrimSpace(in.Address) == "" {
		return nil, validation("Address is required")
	}

	var (
		order  models.Order
		user   models.User
		method *models.PaymentMethod
		items  []models.CartItem
	)
	err := withRetry(func() error {
		order, user = models.Order{}, models.User{} // a retried attempt must not reuse stale state
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var cart models.Cart
			err := lockForUpdate(tx).
				Preload("Items.Product").
				Where("user_id = ? AND ordered = ?", userID, false).
				First(&cart).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Cart not found")
			}
			if err != nil {
				return err
			}
			if len(cart.Items) == 0 {
				return notFound("Cart is empty")
			}

			method = nil
			if in.PaymentMethodID != nil {
				method = &models.PaymentMethod{}
				if err := tx.First(method, "id = ?", *in.PaymentMethodID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return validation("Unknown payment method")
					}
					return err
				}
			}

			// Contact details for the notification; the order itself only
			// needs the user id.
			if err := tx.First(&user, "id = ?", userID).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				user = models.User{ID: userID}
			}

			order = models.Order{
				UserID:          userID,
				CartID:          cart.ID,
				PaymentMethodID: in.PaymentMethodID,
				TotalPrice:      cart.TotalPrice,
				Address:         in.Address,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			// Keep the line items for the summary before they are deleted.
			items = cart.Items

			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Model(&cart).Updates(map[string]interface{}{
				"ordered":     true,
				"total_price": decimal.Zero,
			}).Error
		})
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCart(ctx, userID)

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(&order, &user, method, items); err != nil {
			logger.Warn().Err(err).Uint("order_id", order.ID).Msg("order notification failed")
		}
	}
	if err := s.producer.PublishOrderCreated(ctx, &order); err != nil {
		logger.Warn().Err(err).Uint("order_id", order.ID).Msg("order event publish failed")
	}

	return &order, nil
}

// ListPaymentMethods returns the payment method catalog for checkout forms.
func (s *OrderService) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := s.db.WithContext(ctx).Order("id").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}
