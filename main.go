package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	apiConfig "checkout/src/api/config"
	checkoutUseCase "checkout/src/checkout/application/usecase"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/domain/purchaseflow"
	checkoutCache "checkout/src/checkout/infrastructure/cache"
	checkoutController "checkout/src/checkout/infrastructure/controller"
	checkoutEventbus "checkout/src/checkout/infrastructure/eventbus"
	checkoutMail "checkout/src/checkout/infrastructure/mail"
	checkoutPayment "checkout/src/checkout/infrastructure/payment"
	checkoutPersistence "checkout/src/checkout/infrastructure/persistence"
	sharedConfig "checkout/src/shared/infrastructure/config"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // Driver de PostgreSQL
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// getEnv obtiene una variable de entorno o devuelve un valor por defecto
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDecimal parsea una variable de entorno decimal con fallback
func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("⚠️  Advertencia: valor inválido para %s (%q), usando %s", key, raw, defaultValue)
		value, _ = decimal.NewFromString(defaultValue)
	}
	return value
}

func main() {
	log.Println("🚀 Checkout Service - Iniciando...")

	// Configurar el router con Gin
	router := gin.New()

	// Agregar middlewares básicos necesarios
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configurar Prometheus metrics si está habilitado
	prometheusEnabled := os.Getenv("PROMETHEUS_ENABLED")
	log.Printf("PROMETHEUS_ENABLED value: '%s'", prometheusEnabled)

	if prometheusEnabled == "true" {
		log.Println("Registering /metrics endpoint for Checkout service")
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Println("/metrics endpoint registered successfully for Checkout service")
	} else {
		log.Println("Prometheus metrics disabled for Checkout service")
	}

	// Configurar GZIP y otros middlewares compartidos
	gzipSharedCfg := sharedConfig.DefaultSharedConfig()
	sharedConfig.SetupSharedMiddleware(router, gzipSharedCfg)

	// Obtener configuración de la base de datos de variables de entorno
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "checkout_db")

	// Crear string de conexión para checkout_db
	connStr := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=disable"
	log.Printf("Intentando conectar a checkout_db: %s", connStr)

	// Conectar a la base de datos (opcional para bootstrap)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Printf("⚠️  Advertencia: Error al conectar a la base de datos: %v", err)
		log.Println("⚠️  Continuando sin DB (solo health check)")
		db = nil
	} else {
		defer db.Close()
		// Comprobar la conexión
		err = db.Ping()
		if err != nil {
			log.Printf("⚠️  Advertencia: Error al verificar la conexión a la base de datos: %v", err)
			log.Println("⚠️  Continuando sin DB (solo health check)")
			db = nil
		} else {
			log.Println("✅ Conexión a checkout_db establecida con éxito")
		}
	}

	// Conectar a Redis para carritos y sesiones de checkout
	redisAddr := getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379")
	log.Printf("Intentando conectar a Redis: %s", redisAddr)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()

	// API v1 grupo de rutas
	v1 := router.Group("/api/v1")

	// Configurar el módulo API (health check)
	apiCfg := apiConfig.DefaultAPIConfig()
	apiCfg.DB = db
	apiCfg.Version = "1.0.0"
	apiConfig.SetupAPIModule(router, v1, apiCfg)

	// Configurar módulo Checkout
	setupCheckoutModule(v1, db, redisClient)

	// Iniciar el servidor
	port := getEnv("PORT", "8080")
	log.Printf("✅ Servidor Checkout Service iniciado en http://localhost:%s", port)
	log.Printf("✅ Health endpoint: GET http://localhost:%s/health", port)
	log.Printf("✅ Health endpoint: GET http://localhost:%s/api/v1/health", port)
	router.Run(":" + port)
}

// setupCheckoutModule configura el módulo Checkout
func setupCheckoutModule(router *gin.RouterGroup, db *sql.DB, redisClient *redis.Client) {
	log.Println("Configurando módulo Checkout...")

	// Sin DB no hay repositorios de órdenes ni de variantes: no se
	// registran las rutas del módulo (queda solo el health check)
	if db == nil {
		log.Println("⚠️  Módulo Checkout deshabilitado (sin DB, solo health check)")
		return
	}

	// Inicializar cache de payment methods
	pmCache := checkoutCache.NewPaymentMethodCache()
	if err := pmCache.LoadFromDB(db); err != nil {
		log.Printf("⚠️  Warning: Could not load payment methods cache: %v", err)
		pmCache = nil
	}

	// Crear repositorios
	orderRepo := checkoutPersistence.NewOrderPostgresRepository(db)
	productRepo := checkoutPersistence.NewProductClassPostgresRepository(db)
	cartRepo := checkoutCache.NewCartRedisRepository(redisClient)
	sessionRepo := checkoutCache.NewSessionRedisRepository(redisClient)

	// Publicador de eventos de dominio (opcional)
	var publisher port.EventPublisher
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		kafkaTopic := getEnv("KAFKA_TOPIC", "checkout-events")
		publisher = checkoutEventbus.NewKafkaPublisher(strings.Split(kafkaBrokers, ","), kafkaTopic)
		log.Printf("✅ Publicador Kafka configurado (brokers=%s, topic=%s)", kafkaBrokers, kafkaTopic)
	} else {
		log.Println("⚠️  Publicador de eventos deshabilitado (KAFKA_BROKERS no definido)")
	}

	// Servicio de mail de confirmación (opcional)
	var mailer port.MailSender
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost != "" {
		mailer = checkoutMail.NewMailService(
			getEnv("MAIL_FROM_NAME", "Checkout"),
			getEnv("MAIL_FROM_ADDRESS", "no-reply@localhost"),
			os.Getenv("SMTP_PASSWORD"),
			smtpHost,
			getEnv("SMTP_PORT", "587"),
		)
		log.Printf("✅ Servicio de mail configurado (host=%s)", smtpHost)
	} else {
		log.Println("⚠️  Mail de confirmación deshabilitado (SMTP_HOST no definido)")
	}

	// Métodos de pago disponibles
	paymentRegistry := checkoutPayment.NewRegistry(
		checkoutPayment.NewBankTransferPayment(),
		checkoutPayment.NewGatewayPayment(),
	)
	paymentResolver := checkoutPayment.NewCachedResolver(pmCache, paymentRegistry)

	// Pipeline de validación del checkout
	// beginFlow corre al iniciar el checkout, antes de que exista
	// dirección de entrega; fullFlow exige shipping y participa del
	// commit de stock
	deliveryFee := getEnvDecimal("DELIVERY_FEE", "500")
	taxRate := getEnvDecimal("TAX_RATE", "0.21")

	beginFlow := purchaseflow.NewFlow().
		AddItemProcessor(purchaseflow.NewPriceProcessor(productRepo)).
		AddOrderProcessor(purchaseflow.NewSubtotalProcessor()).
		AddOrderProcessor(purchaseflow.NewDeliveryFeeProcessor(deliveryFee)).
		AddOrderProcessor(purchaseflow.NewTaxProcessor(taxRate)).
		AddOrderProcessor(purchaseflow.NewTotalProcessor()).
		AddValidator(purchaseflow.NewSaleLimitValidator(productRepo)).
		AddValidator(purchaseflow.NewStockValidator(productRepo))

	fullFlow := purchaseflow.NewFlow().
		AddItemProcessor(purchaseflow.NewPriceProcessor(productRepo)).
		AddOrderProcessor(purchaseflow.NewSubtotalProcessor()).
		AddOrderProcessor(purchaseflow.NewDeliveryFeeProcessor(deliveryFee)).
		AddOrderProcessor(purchaseflow.NewTaxProcessor(taxRate)).
		AddOrderProcessor(purchaseflow.NewTotalProcessor()).
		AddValidator(purchaseflow.NewSaleLimitValidator(productRepo)).
		AddValidator(purchaseflow.NewStockValidator(productRepo)).
		AddValidator(purchaseflow.NewShippingValidator()).
		AddPurchaseProcessor(purchaseflow.NewStockReduceProcessor(productRepo))

	// Crear casos de uso
	addCartItemUC := checkoutUseCase.NewAddCartItemUseCase(cartRepo, productRepo)
	removeCartItemUC := checkoutUseCase.NewRemoveCartItemUseCase(cartRepo)
	getCartUC := checkoutUseCase.NewGetCartUseCase(cartRepo)
	beginCheckoutUC := checkoutUseCase.NewBeginCheckoutUseCase(sessionRepo, cartRepo, orderRepo, beginFlow)
	getCheckoutUC := checkoutUseCase.NewGetCheckoutUseCase(sessionRepo, orderRepo, beginFlow)
	updateShippingUC := checkoutUseCase.NewUpdateShippingUseCase(sessionRepo, orderRepo, fullFlow)
	confirmUC := checkoutUseCase.NewConfirmCheckoutUseCase(sessionRepo, orderRepo, fullFlow, paymentResolver)
	completeUC := checkoutUseCase.NewCompleteCheckoutUseCase(sessionRepo, cartRepo, orderRepo, fullFlow, paymentResolver, publisher, mailer)
	listOrdersUC := checkoutUseCase.NewListOrdersUseCase(orderRepo)
	getOrderUC := checkoutUseCase.NewGetOrderUseCase(orderRepo)

	// Crear controladores
	checkoutCtrl := checkoutController.NewCheckoutController(
		addCartItemUC,
		removeCartItemUC,
		getCartUC,
		beginCheckoutUC,
		getCheckoutUC,
		updateShippingUC,
		confirmUC,
		completeUC,
		listOrdersUC,
		getOrderUC,
	)

	// Registrar rutas
	checkoutCtrl.RegisterRoutes(router)

	log.Println("Módulo Checkout configurado exitosamente")
}
