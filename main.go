package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/raushankrgupta/stylemate-backend/api"
	"github.com/raushankrgupta/stylemate-backend/config"
	"github.com/raushankrgupta/stylemate-backend/gemini"
	"github.com/raushankrgupta/stylemate-backend/scrapers/orders"
	"github.com/raushankrgupta/stylemate-backend/scrapers/shopping"
	"github.com/raushankrgupta/stylemate-backend/store"
	"github.com/raushankrgupta/stylemate-backend/utils"
)

func main() {
	config.LoadConfig()

	mongoClient, err := utils.ConnectMongo(config.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	aiClient, err := gemini.NewClient(context.Background(), config.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer aiClient.Close()

	db := mongoClient.Database("stylemate")
	wardrobe := store.NewMongoWardrobe(db.Collection("wardrobe"))
	orderScraper := orders.NewScraper(config.OrdersURL, utils.Log)
	shoppingScraper := shopping.NewScraper(utils.Log)

	h := api.NewHandler(aiClient, wardrobe, orderScraper, shoppingScraper, db.Collection("users"))

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	http.HandleFunc("/api/amazon-sync", corsMiddleware(h.AmazonSyncHandler))
	http.HandleFunc("/api/analyze-image", corsMiddleware(api.OptionalAuth(h.AnalyzeImageHandler)))
	http.HandleFunc("/api/fetch-user-wardrobe", corsMiddleware(h.FetchWardrobeHandler))
	http.HandleFunc("/api/match-recommendation", corsMiddleware(h.MatchRecommendationHandler))
	http.HandleFunc("/api/order-data-detail", corsMiddleware(h.OrderDataDetailHandler))
	http.HandleFunc("/api/order-data-details", corsMiddleware(h.OrderDataDetailsHandler))
	http.HandleFunc("/api/outfit-recommendation", corsMiddleware(h.OutfitRecommendationHandler))
	http.HandleFunc("/api/search-marketplace-keyword", corsMiddleware(h.SearchKeywordHandler))
	http.HandleFunc("/api/shopping-scrap", corsMiddleware(h.ShoppingScrapHandler))

	// Auth Routes
	http.HandleFunc("/api/auth/signup", corsMiddleware(h.SignupHandler))
	http.HandleFunc("/api/auth/verify-otp", corsMiddleware(h.VerifyOTPHandler))
	http.HandleFunc("/api/auth/login", corsMiddleware(h.LoginHandler))
	http.HandleFunc("/api/auth/forgot-password", corsMiddleware(h.ForgotPasswordHandler))
	http.HandleFunc("/api/auth/reset-password", corsMiddleware(h.ResetPasswordHandler))

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(http.DefaultServeMux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
