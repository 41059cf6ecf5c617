package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/vish0020/Onlinemart--sub000/internal/checkout"
	"github.com/vish0020/Onlinemart--sub000/internal/config"
	"github.com/vish0020/Onlinemart--sub000/internal/geo"
	"github.com/vish0020/Onlinemart--sub000/internal/handlers"
	"github.com/vish0020/Onlinemart--sub000/internal/payment"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

func main() {
	// Configure slog as early as possible in main.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Domain services
	payments := payment.NewManager(payment.Config{
		QRCountdown:     cfg.QRCountdown,
		VerifyCountdown: cfg.VerifyCountdown,
		PayeeVPA:        cfg.PayeeVPA,
		PayeeName:       cfg.PayeeName,
		Apps:            cfg.PaymentApps,
	})
	submitter := &checkout.Submitter{Store: db}

	var router geo.Router
	if cfg.RoutingURL != "" {
		router = geo.NewOSRMRouter(cfg.RoutingURL)
	}
	geocoder := &geo.FallbackGeocoder{
		Secondary: geo.NewNominatimGeocoder(),
	}
	if cfg.GeocodeAPIKey != "" {
		geocoder.Primary = geo.NewLocationIQGeocoder(cfg.GeocodeAPIKey)
	}

	// 5. Handlers
	auth := &handlers.AuthHandler{Store: db, SessionStore: sessionStore}
	catalog := &handlers.CatalogHandler{Store: db}
	cart := &handlers.CartHandler{Store: db}
	addresses := &handlers.AddressHandler{Store: db, Geocoder: geocoder, Router: router}
	checkoutH := &handlers.CheckoutHandler{Store: db, Submitter: submitter, Payments: payments}
	orders := &handlers.OrderHandler{Store: db}
	admin := &handlers.AdminHandler{Store: db}
	adminCatalog := &handlers.AdminCatalogHandler{Store: db, UploadDir: cfg.UploadDir}

	mux := http.NewServeMux()

	// Static Files (uploaded images)
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate limiter for mutating public actions
	rateLimiter := handlers.NewRateLimiter(2 * time.Second)

	// Auth
	mux.HandleFunc("GET /api/csrf", auth.CSRFToken)
	mux.HandleFunc("POST /api/register", auth.Register)
	mux.HandleFunc("POST /api/login", auth.Login)
	mux.HandleFunc("POST /api/logout", auth.Logout)
	mux.HandleFunc("GET /api/me", auth.Me)

	// Catalog
	mux.HandleFunc("GET /api/banners", catalog.ListBanners)
	mux.HandleFunc("GET /api/categories", catalog.ListCategories)
	mux.HandleFunc("GET /api/products", catalog.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", catalog.GetProduct)
	mux.HandleFunc("GET /api/products/{id}/reviews", catalog.ListReviews)
	mux.HandleFunc("POST /api/products/{id}/reviews", rateLimiter.Middleware(auth.RequireUser(catalog.CreateReview)))

	// Wishlist
	mux.HandleFunc("GET /api/wishlist", auth.RequireUser(catalog.GetWishlist))
	mux.HandleFunc("POST /api/wishlist/{productID}", auth.RequireUser(catalog.AddToWishlist))
	mux.HandleFunc("DELETE /api/wishlist/{productID}", auth.RequireUser(catalog.RemoveFromWishlist))

	// Cart
	mux.HandleFunc("GET /api/cart", auth.RequireUser(cart.GetCart))
	mux.HandleFunc("POST /api/cart", auth.RequireUser(cart.SetItem))
	mux.HandleFunc("DELETE /api/cart/{productID}", auth.RequireUser(cart.RemoveItem))

	// Addresses
	mux.HandleFunc("GET /api/addresses", auth.RequireUser(addresses.List))
	mux.HandleFunc("POST /api/addresses", auth.RequireUser(addresses.Create))
	mux.HandleFunc("PUT /api/addresses/{id}", auth.RequireUser(addresses.Update))
	mux.HandleFunc("DELETE /api/addresses/{id}", auth.RequireUser(addresses.Delete))
	mux.HandleFunc("POST /api/addresses/{id}/locate", auth.RequireUser(addresses.Locate))

	// Checkout
	mux.HandleFunc("POST /api/checkout/quote", auth.RequireUser(checkoutH.Quote))
	mux.HandleFunc("POST /api/orders", rateLimiter.Middleware(auth.RequireUser(checkoutH.PlaceCOD)))
	mux.HandleFunc("POST /api/payment/sessions", rateLimiter.Middleware(auth.RequireUser(checkoutH.CreatePaymentSession)))
	mux.HandleFunc("GET /api/payment/sessions/{id}", auth.RequireUser(checkoutH.GetPaymentSession))
	mux.HandleFunc("POST /api/payment/sessions/{id}/qr", auth.RequireUser(checkoutH.SessionQR))
	mux.HandleFunc("POST /api/payment/sessions/{id}/back", auth.RequireUser(checkoutH.SessionBack))
	mux.HandleFunc("POST /api/payment/sessions/{id}/app", auth.RequireUser(checkoutH.SessionApp))
	mux.HandleFunc("POST /api/payment/sessions/{id}/visible", auth.RequireUser(checkoutH.SessionVisible))
	mux.HandleFunc("DELETE /api/payment/sessions/{id}", auth.RequireUser(checkoutH.DismissSession))

	// Orders
	mux.HandleFunc("GET /api/orders", auth.RequireUser(orders.ListMine))
	mux.HandleFunc("GET /api/orders/{id}", auth.RequireUser(orders.GetMine))
	mux.HandleFunc("POST /api/orders/{id}/cancel-request", auth.RequireUser(orders.RequestCancel))

	// Admin
	mux.HandleFunc("GET /api/admin/stats", auth.RequireAdmin(admin.Dashboard))
	mux.HandleFunc("GET /api/admin/settings", auth.RequireAdmin(admin.GetSettings))
	mux.HandleFunc("PUT /api/admin/settings", auth.RequireAdmin(admin.SaveSettings))
	mux.HandleFunc("GET /api/admin/orders", auth.RequireAdmin(admin.ListOrders))
	mux.HandleFunc("POST /api/admin/orders/{id}/status", auth.RequireAdmin(admin.UpdateStatus))
	mux.HandleFunc("POST /api/admin/orders/{id}/cancel-request", auth.RequireAdmin(admin.ResolveCancel))

	mux.HandleFunc("GET /api/admin/products", auth.RequireAdmin(adminCatalog.ListProducts))
	mux.HandleFunc("POST /api/admin/products", auth.RequireAdmin(adminCatalog.CreateProduct))
	mux.HandleFunc("PUT /api/admin/products/{id}", auth.RequireAdmin(adminCatalog.UpdateProduct))
	mux.HandleFunc("DELETE /api/admin/products/{id}", auth.RequireAdmin(adminCatalog.DeleteProduct))
	mux.HandleFunc("POST /api/admin/products/{id}/image", auth.RequireAdmin(adminCatalog.UploadProductImage))

	mux.HandleFunc("GET /api/admin/banners", auth.RequireAdmin(adminCatalog.ListBanners))
	mux.HandleFunc("POST /api/admin/banners", auth.RequireAdmin(adminCatalog.CreateBanner))
	mux.HandleFunc("PUT /api/admin/banners/{id}", auth.RequireAdmin(adminCatalog.UpdateBanner))
	mux.HandleFunc("DELETE /api/admin/banners/{id}", auth.RequireAdmin(adminCatalog.DeleteBanner))
	mux.HandleFunc("POST /api/admin/banners/{id}/image", auth.RequireAdmin(adminCatalog.UploadBannerImage))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
