package service

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
)

type WishlistEngine struct {
	wishlist domain.Wishlist
	state    stateStore
}

func (e *WishlistEngine) hydrate(ctx context.Context) error {
	var ps []domain.Product
	found, err := e.state.load(ctx, wishlistKey, &ps)
	if err != nil {
		return err
	}
	if found {
		e.wishlist = domain.NewWishlist(ps)
	}
	return nil
}

func (e *WishlistEngine) persist(ctx context.Context) {
	e.state.save(ctx, wishlistKey, orEmpty(e.wishlist.Items()))
}

func (e *WishlistEngine) AddToWishlist(
	ctx context.Context, p domain.Product,
) domain.Notice {
	if !e.wishlist.Add(p) {
		return domain.Notice{
			Kind:    domain.NoticeAlreadyPresent,
			Message: fmt.Sprintf("%s is already in your wishlist", p.Name),
		}
	}
	e.persist(ctx)
	return domain.Notice{
		Kind:    domain.NoticeAdded,
		Message: fmt.Sprintf("%s added to wishlist", p.Name),
	}
}

func (e *WishlistEngine) RemoveFromWishlist(
	ctx context.Context, productID string,
) domain.Notice {
	e.wishlist.Remove(productID)
	e.persist(ctx)
	return domain.Notice{
		Kind:    domain.NoticeRemoved,
		Message: "Item removed from wishlist",
	}
}

// ToggleWishlist reports whether p is saved afterwards.
func (e *WishlistEngine) ToggleWishlist(
	ctx context.Context, p domain.Product,
) (domain.Notice, bool) {
	saved := e.wishlist.Toggle(p)
	e.persist(ctx)
	if saved {
		return domain.Notice{
			Kind:    domain.NoticeAdded,
			Message: fmt.Sprintf("%s added to wishlist", p.Name),
		}, true
	}
	return domain.Notice{
		Kind:    domain.NoticeRemoved,
		Message: fmt.Sprintf("%s removed from wishlist", p.Name),
	}, false
}

func (e *WishlistEngine) IsInWishlist(productID string) bool {
	return e.wishlist.Contains(productID)
}

func (e *WishlistEngine) ClearWishlist(ctx context.Context) domain.Notice {
	e.wishlist.Clear()
	e.persist(ctx)
	return domain.Notice{Kind: domain.NoticeCleared, Message: "Wishlist cleared"}
}

func (e *WishlistEngine) Items() []domain.Product {
	return e.wishlist.Items()
}

func (e *WishlistEngine) item(productID string) (domain.Product, bool) {
	for _, p := range e.wishlist.Items() {
		if p.ID == productID {
			return p, true
		}
	}
	return domain.Product{}, false
}
