package route

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/Faraimunashe/negcom/internal/delivery/http/handler"
	"github.com/Faraimunashe/negcom/internal/delivery/http/middleware"
	"github.com/Faraimunashe/negcom/internal/predictor"
	mongorepo "github.com/Faraimunashe/negcom/internal/repository/mongodb"
	repo "github.com/Faraimunashe/negcom/internal/repository/postgresql"
	service "github.com/Faraimunashe/negcom/internal/service/postgresql"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoute(app *gin.Engine, db *sql.DB, mongoClient *mongo.Client) {
	// --- 1. Optional predictor: absent key means fallback pricing ---
	var pred predictor.Predictor
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := predictor.NewGeminiPredictor(context.Background(), apiKey)
		if err != nil {
			log.Printf("warning: predictor disabled: %v", err)
		} else {
			pred = gemini
		}
	} else {
		log.Println("GEMINI_API_KEY not set, pricing engine uses deterministic fallback")
	}

	// --- 2. Init repositories, services, handlers ---
	negRepo := repo.NewNegotiationRepository(db)
	vehicleRepo := repo.NewVehicleRepository(db)
	buyerRepo := repo.NewBuyerRepository(db)
	logRepo := mongorepo.NewLogRepository(mongoClient)

	notificationService := service.NewNotificationService(logRepo)
	profileService := service.NewProfileService(buyerRepo)
	pricingService := service.NewPricingService(vehicleRepo, pred)
	negotiationService := service.NewNegotiationService(negRepo, vehicleRepo, profileService, pricingService, notificationService)
	adminService := service.NewAdminService(negRepo, vehicleRepo)

	negotiationHandler := handler.NewNegotiationHandler(negotiationService)
	adminHandler := handler.NewAdminHandler(adminService, negotiationService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// --- 3. Route groups ---
	api := app.Group("/api")
	api.Use(middleware.AuthRequired())

	negotiations := api.Group("/negotiations")
	negotiations.POST("", negotiationHandler.Open)
	negotiations.GET("", negotiationHandler.Mine)
	negotiations.GET("/:id", negotiationHandler.State)
	negotiations.GET("/:id/offers", negotiationHandler.History)
	negotiations.POST("/:id/offers", negotiationHandler.SubmitOffer)
	negotiations.POST("/:id/accept", negotiationHandler.Accept)
	negotiations.POST("/:id/reject", negotiationHandler.Reject)
	negotiations.POST("/:id/cancel", negotiationHandler.Cancel)

	notifications := api.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.GET("/negotiations", adminHandler.ListNegotiations)
	admin.GET("/negotiations/:id", adminHandler.NegotiationDetail)
	admin.POST("/negotiations/:id/respond", adminHandler.Respond)
	admin.POST("/negotiations/:id/counter", adminHandler.Counter)
	admin.POST("/negotiations/:id/accept", adminHandler.Accept)
	admin.POST("/negotiations/:id/reject", adminHandler.Reject)
	admin.POST("/negotiations/:id/expire", adminHandler.Expire)
	admin.GET("/stats", adminHandler.Stats)
	admin.PUT("/vehicles/:id/discount-rule", adminHandler.SetDiscountRule)
	admin.GET("/vehicles/:id/discount-rule", adminHandler.GetDiscountRule)
}
