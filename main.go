package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Artur470/postgreql/cache"
	"github.com/Artur470/postgreql/config"
	"github.com/Artur470/postgreql/events"
	"github.com/Artur470/postgreql/mailer"
	"github.com/Artur470/postgreql/models"
	"github.com/Artur470/postgreql/routes"
	"github.com/Artur470/postgreql/services"
)

func main() {
	log.Println("Starting application...")

	// Load environment variables
	_ = godotenv.Load()
	cfg := config.Load()

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PaymentMethod{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	seedPaymentMethods(db)

	loc, err := time.LoadLocation(cfg.OrderTimezone)
	if err != nil {
		log.Fatalf("Invalid ORDER_TIMEZONE %q: %v", cfg.OrderTimezone, err)
	}
	notifier := mailer.NewSMTPNotifier(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.MailFrom, cfg.OperatorEmail, loc,
	)

	// Redis and kafka are optional; nil handles disable them.
	var cartCache *cache.Cache
	if cfg.RedisAddr != "" {
		cartCache, err = cache.Connect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
	}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
	}

	cartService := services.NewCartService(db, cartCache)
	orderService := services.NewOrderService(db, notifier, producer, cartCache)

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Cart:      cartService,
		Order:     orderService,
		Cache:     cartCache,
		JWTSecret: cfg.JWTSecret,
	})

	log.Printf("Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	return db
}

// seedPaymentMethods inserts the default payment methods once.
func seedPaymentMethods(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.PaymentMethod{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count payment methods: %v", err)
	}
	if count > 0 {
		return
	}
	methods := []models.PaymentMethod{
		{Name: "Cash", Description: "Pay in cash on delivery"},
		{Name: "Card", Description: "Pay by card on delivery"},
	}
	if err := db.Create(&methods).Error; err != nil {
		log.Fatalf("Failed to seed payment methods: %v", err)
	}
}
