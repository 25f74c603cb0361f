package main

import (
	"context"
	"log"
	"os"
	"time"

	"flexgym_back_end/internal/config"
	"flexgym_back_end/internal/database"
	"flexgym_back_end/internal/handlers/payement"
	"flexgym_back_end/internal/payments"
	"flexgym_back_end/internal/routes"
	"flexgym_back_end/internal/services"
	"flexgym_back_end/internal/store"
	"flexgym_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	ctx := context.Background()
	dbs, err := database.Connect(ctx)
	if err != nil {
		log.Fatal("❌ Erreur connexion bases de données:", err)
	}
	defer dbs.Close(ctx)

	if err := store.EnsureIndexes(ctx, dbs.Mongo); err != nil {
		log.Fatal("❌ Erreur création index MongoDB:", err)
	}

	// Câblage du cœur : toutes les dépendances sont injectées ici, le cycle
	// de vie des connexions reste dans main.
	stores := store.New(dbs.Mongo)
	indexer := services.NewPaymentIndexer(dbs.Elastic)

	recorder := payments.NewRecorder(stores.Orders, stores.Enrollments, stores.Plans, stores.Payments, indexer)
	refunds := payments.NewEngine(stores.Payments, stores.Orders, stores.Enrollments, stores.Plans, stores.Wallets, utils.Mailer{}, indexer)
	history := payments.NewHistory(stores.Payments, stores.Orders, stores.Enrollments, stores.Plans, dbs.Redis)

	h := payement.NewHandler(recorder, refunds, history, stores.Wallets, stores.Payments, indexer)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, h, dbs.Redis)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur FlexGym lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Erreur serveur:", err)
	}
}
