package api

import (
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// Service constructors used by the handlers. Built per request over the
// shared connection pool, mirroring how cheap these structs are.

func notificationService() *services.NotificationService {
	return services.NewNotificationService(database.GetDB(),
		config.AppConfig.OpsWebhookURL, config.AppConfig.OpsWebhookSecret)
}

func recurringService() *services.RecurringService {
	return services.NewRecurringService(database.GetDB(), notificationService())
}

func subscriptionService() *services.SubscriptionService {
	return services.NewSubscriptionService(database.GetDB())
}

func pickupService() *services.PickupService {
	return services.NewPickupService(database.GetDB(), notificationService(),
		config.AppConfig.RateOkCentsPerKg, config.AppConfig.RateAttentionCentsPerKg)
}

func payoutService() *services.PayoutService {
	return services.NewPayoutService(database.GetDB())
}

func mediaService() *services.MediaService {
	return services.NewMediaService(database.GetDB(),
		config.AppConfig.MediaSigningSecret, config.AppConfig.MediaBaseURL,
		config.AppConfig.MediaMinTTLSecs, config.AppConfig.MediaMaxTTLSecs,
		config.AppConfig.MediaDefaultTTLSecs)
}

func opsService() *services.OpsService {
	return services.NewOpsService(database.GetDB(),
		services.NewRedisServiceWithClient(database.GetRedis()))
}

func userService() *services.UserService {
	return services.NewUserService(database.GetDB())
}

func governanceService() *services.GovernanceService {
	return services.NewGovernanceService(database.GetDB())
}

func transparencyService() *services.TransparencyService {
	return services.NewTransparencyService(database.GetDB())
}

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	features := &config.AppConfig.Features

	// API route group
	api := r.Group("/api")
	{
		// Signed media gateway (any authenticated caller; authorization is
		// decided per media row)
		media := api.Group("/media")
		media.Use(middleware.BearerAuthMiddleware())
		{
			media.GET("/signed-url", GetSignedMediaURL)
		}

		// Operator screens
		admin := api.Group("/admin")
		admin.Use(middleware.BearerAuthMiddleware(), middleware.RequireRole(models.RoleOperator))
		{
			admin.GET("/windows", ListRouteWindows)
			admin.POST("/windows", CreateRouteWindow)
			admin.PUT("/windows/:id", UpdateRouteWindow)
			admin.DELETE("/windows/:id", DeleteRouteWindow)
			admin.GET("/windows/load", GetWindowLoad)
			admin.POST("/ops/refresh-alerts", RefreshOpsAlerts)

			admin.POST("/rotas/generate", GenerateRecurringRequests)
			admin.GET("/subscriptions", ListNeighborhoodSubscriptions)
			admin.GET("/subscriptions/:id/occurrences", ListSubscriptionOccurrences)

			admin.GET("/payouts/periods", ListPayoutPeriods)
			admin.POST("/payouts/periods", CreatePayoutPeriod)
			admin.POST("/payouts/periods/:id/close", ClosePayoutPeriod)
			admin.POST("/payouts/periods/:id/pay", MarkPayoutPaid)
			admin.POST("/payouts/adjustments", AddAdjustment)
			admin.GET("/payouts/report", GetPayoutReport)
			admin.GET("/payouts/export", ExportPayoutsCSV)

			admin.POST("/users/promote", PromoteUser)
			admin.GET("/users", ListProfiles)

			galpao := admin.Group("/galpao")
			galpao.Use(middleware.RequireFeature(func() bool { return features.Galpao }))
			{
				galpao.GET("/queue", GetTriageQueue)
				galpao.PUT("/drop-points/:id/triage", UpdateDropPointTriage)
			}

			anchors := admin.Group("/anchors")
			anchors.Use(middleware.RequireFeature(func() bool { return features.Anchors }))
			{
				anchors.GET("", ListAnchorCommitments)
				anchors.POST("", CreateAnchorCommitment)
				anchors.PUT("/:id", UpdateAnchorCommitment)
			}

			gov := admin.Group("/governance")
			gov.Use(middleware.RequireFeature(func() bool { return features.Gov }))
			{
				gov.GET("/terms", ListGovernanceTerms)
				gov.POST("/terms", UpsertGovernanceTerm)
				gov.POST("/terms/:slug/publish", PublishGovernanceTerm)
			}
		}

		// Resident/cooperado self-service
		me := api.Group("/me")
		me.Use(middleware.BearerAuthMiddleware())
		{
			me.GET("", GetMyProfile)
			me.PUT("/address", UpdateMyAddress)
			me.GET("/notifications", ListMyNotifications)
			me.POST("/notifications/:id/read", MarkNotificationRead)

			me.GET("/subscriptions", ListMySubscriptions)
			me.POST("/subscriptions", CreateSubscription)
			me.POST("/subscriptions/:id/pause", PauseSubscription)
			me.POST("/subscriptions/:id/resume", ResumeSubscription)

			me.GET("/pickups", ListMyPickups)
			me.POST("/pickups", CreatePickupRequest)
			me.POST("/pickups/:id/cancel", CancelPickupRequest)

			me.GET("/earnings", GetMyEarnings)
		}

		// Cooperado fulfillment flow
		coop := api.Group("/coop")
		coop.Use(middleware.BearerAuthMiddleware(), middleware.RequireRole(models.RoleCooperado))
		{
			coop.GET("/pickups", ListCooperadoPickups)
			coop.POST("/pickups/:id/accept", AcceptPickupRequest)
			coop.POST("/pickups/:id/en-route", MarkPickupEnRoute)
			coop.POST("/pickups/:id/collect", CollectPickupRequest)
		}

		// Governance acceptance for any authenticated user
		govPublic := api.Group("/governance")
		govPublic.Use(middleware.BearerAuthMiddleware(),
			middleware.RequireFeature(func() bool { return features.Gov }))
		{
			govPublic.GET("/terms", ListPublishedTerms)
			govPublic.POST("/terms/:slug/accept", AcceptGovernanceTerm)
		}

		// Public transparency pages (no authentication)
		public := api.Group("/public")
		{
			public.GET("/bulletins/:neighborhood_id", GetWeeklyBulletin)

			ranking := public.Group("/ranking")
			ranking.Use(middleware.RequireFeature(func() bool { return features.Pilot }))
			{
				ranking.GET("", GetNeighborhoodRanking)
			}

			anchorsPublic := public.Group("/anchors")
			anchorsPublic.Use(middleware.RequireFeature(func() bool { return features.Anchors }))
			{
				anchorsPublic.GET("", ListActiveAnchors)
			}

			learn := public.Group("/learn")
			learn.Use(middleware.RequireFeature(func() bool { return features.Learn }))
			{
				learn.GET("/posts", ListPublishedPosts)
			}
		}

		// Dev-only token mint; the real deployment fronts an auth provider
		if config.AppConfig.Mode == "debug" {
			api.POST("/auth/dev-token", MintDevToken)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "coopeco-service",
		})
	})
}
