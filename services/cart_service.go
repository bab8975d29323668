package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Artur470/postgreql/cache"
	"github.com/Artur470/postgreql/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// CartService mutates the per-user open cart. Every quantity change moves
// product stock by the exact opposite delta inside one transaction, so
// stock + sum(active item quantities) stays constant for each product.
type CartService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCartService(db *gorm.DB, c *cache.Cache) *CartService {
	return &CartService{db: db, cache: c}
}

// GetCart returns the user's open cart with items and products preloaded.
// It never auto-creates: only AddItem does.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ? AND ordered = ?", userID, false).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Cart not found")
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds quantity units of a product to the user's open cart, creating
// the cart on first use. A second add of the same product merges into the
// existing item rather than failing.
func (s *CartService) AddItem(ctx context.Context, userID string, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, invalidQuantity("Quantity must be greater than 0")
	}

	var item models.CartItem
	err := withRetry(func() error {
		item = models.CartItem{} // a retried attempt must not reuse stale state
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("Product not found")
				}
				return err
			}

			cart, err := getOrCreateOpenCart(tx, userID)
			if err != nil {
				return err
			}

			// The incremental amount is what leaves stock, whether the item
			// is new or merged.
			if quantity > product.Stock {
				return insufficientStock("Not enough stock available")
			}

			unitPrice := product.EffectiveUnitPrice()

			err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item = models.CartItem{
					CartID:    cart.ID,
					ProductID: product.ID,
					Quantity:  quantity,
					Price:     unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
					AddedAt:   time.Now(),
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				item.Quantity += quantity
				item.Price = unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
				item.AddedAt = time.Now()
				if err := tx.Save(&item).Error; err != nil {
					return err
				}
			}

			product.Stock -= quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			return recomputeTotal(tx, cart.ID)
		})
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCart(ctx, userID)
	return &item, nil
}

// UpdateItem sets an item to a new absolute quantity, moving stock by the
// signed difference and re-snapshotting the line price at the current
// effective unit price.
func (s *CartService) UpdateItem(ctx context.Context, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, invalidQuantity("Quantity must be greater than 0")
	}

	var item models.CartItem
	var userID string
	err := withRetry(func() error {
		item = models.CartItem{}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("Cart item not found")
				}
				return err
			}

			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}

			// The item's own quantity is already out of stock, so the ceiling
			// for the new quantity is stock plus what this item holds.
			if quantity > product.Stock+item.Quantity {
				return insufficientStock("Not enough stock available")
			}

			product.Stock += item.Quantity - quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			item.Quantity = quantity
			item.Price = product.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(quantity)))
			item.AddedAt = time.Now()
			if err := tx.Save(&item).Error; err != nil {
				return err
			}

			var cart models.Cart
			if err := tx.First(&cart, "id = ?", item.CartID).Error; err != nil {
				return err
			}
			userID = cart.UserID
			return recomputeTotal(tx, cart.ID)
		})
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCart(ctx, userID)
	return &item, nil
}

// RemoveItem deletes an item and restores its full quantity to stock.
func (s *CartService) RemoveItem(ctx context.Context, itemID uint) error {
	var userID string
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var item models.CartItem
			if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("Cart item not found")
				}
				return err
			}

			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			product.Stock += item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			if err := tx.Delete(&item).Error; err != nil {
				return err
			}

			var cart models.Cart
			if err := tx.First(&cart, "id = ?", item.CartID).Error; err != nil {
				return err
			}
			userID = cart.UserID
			return recomputeTotal(tx, cart.ID)
		})
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateCart(ctx, userID)
	return nil
}

// getOrCreateOpenCart relies on the partial unique index on
// (user_id) WHERE NOT ordered: a racing insert fails with a duplicate-key
// error, which withRetry turns into a re-read of the winner's cart.
func getOrCreateOpenCart(tx *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ? AND ordered = ?", userID, false).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = models.Cart{UserID: userID, TotalPrice: decimal.Zero}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// recomputeTotal persists the sum of current item line prices onto the cart.
func recomputeTotal(tx *gorm.DB, cartID uuid.UUID) error {
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("total_price", total).Error
}

// lockForUpdate takes a FOR UPDATE row lock so the stock read immediately
// preceding a write is serialized per product. sqlite has no FOR UPDATE;
// its single-writer lock already gives the same guarantee there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
