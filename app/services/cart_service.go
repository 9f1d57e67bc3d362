package services

import (
	"context"

	"github.com/shashiranjanraj/shashikala/app/events"
	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/app/repositories"
)

type CartAddInput struct {
	UserID    string `json:"user_id"    validate:"required,max=100"`
	ProductID *uint  `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

type CartUpdateInput struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartService struct {
	base
	cart     *repositories.CartRepository
	products *repositories.ProductRepository
}

// Add puts a product in a user's cart. Every call adds a new line, even for
// a product already in the cart. Quantity defaults to 1.
func (s *CartService) Add(ctx context.Context, in CartAddInput) (*models.CartItem, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	item := &models.CartItem{UserID: in.UserID, ProductID: *in.ProductID, Quantity: 1}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		ok, err := s.products.Exists(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return &ValidationError{Field: "product_id", Message: "Product not found"}
		}
		return s.cart.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	s.fire(ctx, events.CartItemAdded, *item)
	return item, nil
}

// ListForUser returns the user's cart lines with their products, oldest
// first. An unknown user simply has an empty cart.
func (s *CartService) ListForUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.cart.ForUser(ctx, userID)
}

// Update sets the quantity of one cart line.
func (s *CartService) Update(ctx context.Context, id uint, in CartUpdateInput) (*models.CartItem, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	var item *models.CartItem
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.cart.Update(ctx, id, func(c *models.CartItem) error {
			c.Quantity = *in.Quantity
			return nil
		})
		return err
	})
	return item, notFound(err)
}

func (s *CartService) Remove(ctx context.Context, id uint) error {
	return notFound(s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.cart.Delete(ctx, id)
	}))
}
