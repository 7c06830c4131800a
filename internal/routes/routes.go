// Package routes defines the API routing configuration: repository and
// service wiring plus route groups and their middleware.
package routes

import (
	"nocage/internal/config"
	"nocage/internal/handlers"
	"nocage/internal/middleware"
	"nocage/internal/repositories"
	"nocage/internal/repositories/cache"
	"nocage/internal/services/auth"
	"nocage/internal/services/ledger"
	"nocage/internal/services/notification"
	"nocage/internal/services/payout"
	"nocage/internal/services/referral"
	"nocage/internal/services/topup"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers, and registers
// all routes. redisClient may be nil; the service then runs without the
// balance cache.
func SetupRoutes(app *fiber.App, db *gorm.DB, redisClient *redis.Client) {
	// Repositories
	ledgerRepo := repositories.NewLedgerRepository(db)
	topupRepo := repositories.NewTopupRepository(db)
	payoutRepo := repositories.NewPayoutRepository(db)
	userRepo := repositories.NewUserRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	var balanceCache ledger.Cache
	if redisClient != nil {
		balanceCache = cache.NewBalanceCache(redisClient)
	}

	// Services
	notifier := notification.NewService(notificationRepo)
	ledgerService := ledger.NewService(ledgerRepo, balanceCache, notifier, ledger.Config{
		NotifyCreditThreshold: config.GetInt64Env("NOTIFY_CREDIT_THRESHOLD", ledger.DefaultNotifyCreditThreshold),
	}, nil)
	topupService := topup.NewService(topupRepo, notifier, topup.Config{
		PayeeVPA:  config.GetEnv("UPI_PAYEE_VPA", ""),
		PayeeName: config.GetEnv("UPI_PAYEE_NAME", ""),
	})
	payoutService := payout.NewService(payoutRepo, ledgerRepo, notifier)
	referralService := referral.NewService(userRepo)
	authService := auth.NewService(userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(ledgerService)
	topupHandler := handlers.NewTopupHandler(topupService)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	referralHandler := handlers.NewReferralHandler(referralService)
	adminHandler := handlers.NewAdminHandler(topupService, payoutService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Authenticated routes
	authed := api.Group("", middleware.Handler)
	authed.Get("/wallet", walletHandler.GetWallet)
	authed.Get("/wallet/transactions", walletHandler.GetTransactions)
	authed.Post("/wallet/topups", topupHandler.CreateTopup)
	authed.Get("/wallet/topups", topupHandler.GetTopups)
	authed.Post("/wallet/payouts", payoutHandler.RequestPayout)
	authed.Get("/wallet/payouts", payoutHandler.GetPayouts)
	authed.Post("/referrals/convert", referralHandler.ConvertCredits)

	// Admin-only state transitions
	admin := authed.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/topups", adminHandler.ListTopups)
	admin.Post("/topups/:id/confirm", adminHandler.ConfirmTopup)
	admin.Post("/topups/:id/reject", adminHandler.RejectTopup)
	admin.Post("/payouts/:id/process", adminHandler.ProcessPayout)
	admin.Post("/payouts/:id/complete", adminHandler.CompletePayout)
	admin.Post("/payouts/:id/fail", adminHandler.FailPayout)
}
