package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ordnery-backend/config"
	"ordnery-backend/consumers"
	"ordnery-backend/controllers"
	"ordnery-backend/database"
	"ordnery-backend/mailer"
	"ordnery-backend/middlewares"
	"ordnery-backend/rabbitmq"
	"ordnery-backend/services"
	"ordnery-backend/stores"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	orderStore := stores.NewOrderStore(database.DB)
	userStore := stores.NewUserStore(database.DB)
	productStore := stores.NewProductStore(database.DB)

	mail := mailer.New(cfg)
	mail.Verify()

	// The broker is optional: without it order events are skipped and the
	// HTTP service still runs.
	var events services.EventPublisher
	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
	} else {
		defer rmq.Close()
		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}
		consumers.StartOrderConsumer(rmq.Channel, cfg)
		events = rmq
	}

	orderService := &services.OrderService{Store: orderStore, Mailer: mail, Events: events}
	authService := &services.AuthService{
		Users:       userStore,
		Admins:      userStore,
		Mailer:      mail,
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
	}
	adminService := &services.AdminService{Orders: orderStore, Users: userStore, Products: productStore}

	orderCtl := &controllers.OrderController{Orders: orderService}
	userCtl := &controllers.UserController{Auth: authService}
	adminCtl := &controllers.AdminController{Auth: authService, Admin: adminService}

	auth := middlewares.AuthMiddleware(cfg.JWTSecret, userStore, userStore)
	adminOnly := middlewares.AdminMiddleware()

	r := gin.Default()
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := r.Group("/api/users")
	{
		users.POST("/register", userCtl.Register)
		users.GET("/verify-email", userCtl.VerifyEmail)
		users.POST("/set-password", userCtl.SetPassword)
		users.POST("/login", userCtl.Login)
		users.POST("/forgot-password", userCtl.ForgotPassword)
		users.POST("/reset-password", userCtl.ResetPassword)
		users.GET("/profile", auth, userCtl.Profile)
	}

	orders := r.Group("/api/orders")
	{
		orders.GET("/track/:trackingId", orderCtl.TrackOrder)
		orders.POST("/place", auth, orderCtl.PlaceOrder)
		orders.GET("/my-orders", auth, orderCtl.MyOrders)
		orders.GET("/:id", auth, orderCtl.OrderByID)
		orders.GET("/admin/all-orders", auth, adminOnly, orderCtl.AllOrders)
		orders.PUT("/admin/:id", auth, adminOnly, orderCtl.UpdateStatus)
		orders.DELETE("/admin/:id", auth, adminOnly, orderCtl.DeleteOrder)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/register", adminCtl.Register)
		admin.POST("/login", adminCtl.Login)
		admin.GET("/dashboard", auth, adminOnly, adminCtl.Dashboard)
		admin.GET("/products", auth, adminOnly, adminCtl.Products)
		admin.GET("/orders", auth, adminOnly, adminCtl.Orders)
		admin.GET("/users", auth, adminOnly, adminCtl.Users)
	}

	addr := ":" + cfg.Port
	log.Printf("Server starting on port %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
