package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"
	"github.com/nkrv/shopchat/internal/chat"
	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/domain"
)

type productResponse struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Description        string  `json:"description"`
	DiscountedPrice    float64 `json:"discounted_price"`
	ActualPrice        float64 `json:"actual_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Rating             float64 `json:"rating"`
	RatingCount        int64   `json:"rating_count"`
	ImageURL           string  `json:"image_url"`
	ProductURL         string  `json:"product_url"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Category:           p.Category,
		Description:        p.Description,
		DiscountedPrice:    p.DiscountedPrice,
		ActualPrice:        p.ActualPrice,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		RatingCount:        p.RatingCount,
		ImageURL:           p.ImageURL,
		ProductURL:         p.ProductURL,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}

func (s *Server) listProducts(c *echo.Context) error {
	name := c.QueryParam("name")
	category := c.QueryParam("category")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 {
		perPage = config.ProductsPerPage
	}

	products, total, err := s.products.List(c.Request().Context(), name, category, perPage, (page-1)*perPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"products":       toProductResponses(products),
		"total_products": total,
		"page":           page,
		"per_page":       perPage,
	})
}

func (s *Server) getProduct(c *echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	product, err := s.products.FindByID(c.Request().Context(), id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) listCategories(c *echo.Context) error {
	raw, err := s.products.DistinctCategories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"categories": chat.SplitCategories(raw),
	})
}
