package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fitsport/fitsport-backend/internal/address"
	"github.com/fitsport/fitsport-backend/internal/cart"
	"github.com/fitsport/fitsport-backend/internal/category"
	"github.com/fitsport/fitsport-backend/internal/config"
	"github.com/fitsport/fitsport-backend/internal/contact"
	"github.com/fitsport/fitsport-backend/internal/db"
	"github.com/fitsport/fitsport-backend/internal/favorite"
	"github.com/fitsport/fitsport-backend/internal/mail"
	"github.com/fitsport/fitsport-backend/internal/news"
	"github.com/fitsport/fitsport-backend/internal/order"
	"github.com/fitsport/fitsport-backend/internal/payment/vnpay"
	"github.com/fitsport/fitsport-backend/internal/product"
	"github.com/fitsport/fitsport-backend/internal/review"
	"github.com/fitsport/fitsport-backend/internal/user"
	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/fitsport/fitsport-backend/internal/voucher"
)

const deliveryFee = 30000 // flat fee in VND

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to postgres")
	}
	defer conn.Close()

	if err := db.EnsureSchema(conn); err != nil {
		log.Fatal().Err(err).Msg("could not ensure schema")
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLogger)

	// repositories
	userRepo := user.NewPostgresRepository(conn)
	productRepo := product.NewPostgresRepository(conn)
	variantRepo := variant.NewPostgresRepository(conn)
	voucherRepo := voucher.NewPostgresRepository(conn)
	cartRepo := cart.NewPostgresRepository(conn)
	orderRepo := order.NewPostgresRepository(conn)

	// services
	userService := user.NewService(userRepo)
	productService := product.NewService(productRepo)
	variantService := variant.NewService(variantRepo)
	voucherService := voucher.NewService(voucherRepo)
	cartService := cart.NewService(cartRepo, variantService, voucherService)
	orderService := order.NewService(orderRepo, cartService, variantService, voucherService, deliveryFee)
	favoriteService := favorite.NewService(favorite.NewPostgresRepository(conn), productService)
	reviewService := review.NewService(review.NewPostgresRepository(conn), productService)
	addressService := address.NewService(address.NewPostgresRepository(conn))
	newsService := news.NewService(news.NewPostgresRepository(conn))
	contactService := contact.NewService(contact.NewPostgresRepository(conn))
	categoryService := category.NewService(category.NewPostgresRepository(conn))

	var gateway order.PaymentGateway
	var vnpGateway *vnpay.Gateway
	if cfg.VNPTmnCode != "" && cfg.VNPHashSecret != "" {
		vnpGateway = vnpay.NewGateway(cfg.VNPTmnCode, cfg.VNPHashSecret, cfg.VNPPayURL, cfg.PublicBaseURL+"/api/v1/vnpay/return")
		gateway = vnpGateway
	} else {
		log.Warn().Msg("vnpay credentials missing, online payment disabled")
	}

	if cfg.MailHost != "" {
		orderService.EnableMail(mail.NewSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom), userService)
	} else {
		log.Warn().Msg("mail host missing, confirmation mail disabled")
	}

	// handlers
	userHandler := user.NewHandler(userService, cfg.JWTSecret, userRepo)
	productHandler := product.NewHandler(productService, variantService, productRepo)
	variantHandler := variant.NewHandler(variantService)
	voucherHandler := voucher.NewHandler(voucherService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService, gateway)
	favoriteHandler := favorite.NewHandler(favoriteService)
	reviewHandler := review.NewHandler(reviewService)
	addressHandler := address.NewHandler(addressService)
	newsHandler := news.NewHandler(newsService)
	contactHandler := contact.NewHandler(contactService)
	categoryHandler := category.NewHandler(categoryService)

	// public routes go in before the jwt middleware
	userHandler.RegisterPublicRoutes(app)
	if oauthHandler := user.NewOAuthHandler(userService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.PublicBaseURL, cfg.FrontendURL, cfg.JWTSecret); oauthHandler != nil {
		oauthHandler.RegisterPublicRoutes(app)
	}
	categoryHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	variantHandler.RegisterPublicRoutes(app)
	reviewHandler.RegisterPublicRoutes(app)
	newsHandler.RegisterPublicRoutes(app)
	contactHandler.RegisterPublicRoutes(app)
	if vnpGateway != nil {
		vnpay.NewHandler(vnpGateway, orderService, cfg.FrontendURL).RegisterPublicRoutes(app)
	}

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		Filter:     skipJWT,
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	voucherHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	favoriteHandler.RegisterProtectedRoutes(app)
	reviewHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)

	app.Use("/api/v1/admin", user.RequireAdmin)
	userHandler.RegisterAdminRoutes(app)
	categoryHandler.RegisterAdminRoutes(app)
	productHandler.RegisterAdminRoutes(app)
	variantHandler.RegisterAdminRoutes(app)
	voucherHandler.RegisterAdminRoutes(app)
	orderHandler.RegisterAdminRoutes(app)
	newsHandler.RegisterAdminRoutes(app)
	contactHandler.RegisterAdminRoutes(app)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("addr", cfg.Addr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// skipJWT lists the routes that stay reachable without a token. Fiber
// matches middleware before routes, so public paths registered earlier
// still pass through here.
func skipJWT(c *fiber.Ctx) bool {
	p := c.Path()

	if strings.HasPrefix(p, "/api/auth/") {
		return true
	}
	if strings.HasPrefix(p, "/api/v1/vnpay/") {
		return true
	}
	if c.Method() == fiber.MethodPost && p == "/api/v1/contact" {
		return true
	}
	if c.Method() != fiber.MethodGet {
		return false
	}

	publicGET := []string{
		"/api/v1/products",
		"/api/v1/product/",
		"/api/v1/categories",
		"/api/v1/news",
	}
	for _, prefix := range publicGET {
		if p == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// user avatars are public so the storefront can render them
	if strings.HasPrefix(p, "/api/v1/user/") && strings.HasSuffix(p, "/avatar") {
		return true
	}
	return false
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Debug().
		Str("method", c.Method()).
		Str("path", c.OriginalURL()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}
