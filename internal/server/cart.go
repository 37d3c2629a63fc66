package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"
	"github.com/nkrv/shopchat/internal/domain"
	"github.com/shopspring/decimal"
)

type addToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateCartRequest struct {
	Quantity *int `json:"quantity"`
}

type cartLineResponse struct {
	ID       int64           `json:"id"`
	Quantity int             `json:"quantity"`
	Product  productResponse `json:"product"`
	Subtotal string          `json:"subtotal"`
}

func toCartLineResponse(l *domain.CartLine) cartLineResponse {
	sub := decimal.NewFromFloat(l.Product.DiscountedPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
	return cartLineResponse{
		ID:       l.ID,
		Quantity: l.Quantity,
		Product:  toProductResponse(&l.Product),
		Subtotal: sub.StringFixed(2),
	}
}

func (s *Server) addToCart(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	req := addToCartRequest{Quantity: 1}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID <= 0 || req.Quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id or quantity")
	}

	ctx := c.Request().Context()
	cart, err := s.carts.GetOrCreate(ctx, claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	line, err := s.carts.AddItem(ctx, cart, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":   "Added " + strconv.Itoa(req.Quantity) + " x " + line.Product.Name + " to cart.",
		"cart_item": toCartLineResponse(line),
	})
}

func (s *Server) viewCart(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	cart, err := s.carts.Find(ctx, claims.Subject)
	if errors.Is(err, domain.ErrCartNotFound) {
		return c.JSON(http.StatusOK, map[string]any{
			"message": "Your cart is empty.",
			"items":   []cartLineResponse{},
		})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	lines, total, err := s.carts.View(ctx, cart)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items := make([]cartLineResponse, 0, len(lines))
	for i := range lines {
		items = append(items, toCartLineResponse(&lines[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items":       items,
		"total_price": total.StringFixed(2),
	})
}

func (s *Server) updateCartItem(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	var req updateCartRequest
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity is required")
	}

	ctx := c.Request().Context()
	cart, err := s.carts.GetOrCreate(ctx, claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	err = s.carts.SetQuantity(ctx, cart, lineID, *req.Quantity)
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be a non-negative integer")
	case errors.Is(err, domain.ErrLineNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if *req.Quantity == 0 {
		return c.JSON(http.StatusOK, map[string]string{"message": "Item removed from cart."})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Quantity updated to " + strconv.Itoa(*req.Quantity) + ".",
	})
}

func (s *Server) removeCartItem(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	lineID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	ctx := c.Request().Context()
	cart, err := s.carts.GetOrCreate(ctx, claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := s.carts.RemoveItem(ctx, cart, lineID); err != nil {
		if errors.Is(err, domain.ErrLineNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Item removed from cart."})
}

func (s *Server) clearCart(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	cart, err := s.carts.GetOrCreate(ctx, claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := s.carts.Clear(ctx, cart); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Your cart has been cleared."})
}

func (s *Server) checkout(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	cart, err := s.carts.GetOrCreate(ctx, claims.Subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	receipt, err := s.carts.Checkout(ctx, cart)
	if errors.Is(err, domain.ErrEmptyCart) {
		return echo.NewHTTPError(http.StatusBadRequest, "your cart is empty, nothing to checkout")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":     "Checkout successful! Your order has been placed. (Simulated)",
		"total_items": receipt.TotalItems,
		"total_price": receipt.TotalPrice.StringFixed(2),
	})
}
