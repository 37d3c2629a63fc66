package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/nkrv/shopchat/internal/chat"
	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/repository"
	"github.com/nkrv/shopchat/internal/service"
)

// Server is the HTTP transport over the dialogue engine and the catalog and
// cart APIs. It maps engine outcomes and domain errors onto status codes;
// no business decisions live here.
type Server struct {
	echo *echo.Echo
	http *http.Server

	cfg      *config.Config
	engine   *chat.Engine
	carts    *chat.CartExecutor
	products *repository.ProductRepo
	users    *repository.UserRepo
	auth     *service.AuthService
}

// Deps contains all dependencies required to construct a Server.
type Deps struct {
	Cfg      *config.Config
	Engine   *chat.Engine
	Carts    *chat.CartExecutor
	Products *repository.ProductRepo
	Users    *repository.UserRepo
	Auth     *service.AuthService
}

func New(deps Deps) *Server {
	s := &Server{
		echo:     echo.New(),
		cfg:      deps.Cfg,
		engine:   deps.Engine,
		carts:    deps.Carts,
		products: deps.Products,
		users:    deps.Users,
		auth:     deps.Auth,
	}

	s.echo.Use(recoverMiddleware(), loggingMiddleware())
	s.registerRoutes()

	s.http = &http.Server{
		Addr:              deps.Cfg.Addr(),
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	auth := s.echo.Group("/auth")
	auth.POST("/signup", s.signup)
	auth.POST("/login", s.login)
	auth.POST("/logout", s.logout)
	auth.GET("/me", s.me)

	products := s.echo.Group("/products")
	products.GET("", s.listProducts)
	products.GET("/categories", s.listCategories)
	products.GET("/:id", s.getProduct)

	cart := s.echo.Group("/cart")
	cart.POST("/add", s.addToCart)
	cart.GET("", s.viewCart)
	cart.PUT("/update/:id", s.updateCartItem)
	cart.DELETE("/remove/:id", s.removeCartItem)
	cart.DELETE("/clear", s.clearCart)
	cart.POST("/checkout", s.checkout)

	s.echo.POST("/chatbot/converse", s.converse)
}

func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
