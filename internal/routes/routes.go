package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/flowershop/internal/classifier"
	"github.com/example/flowershop/internal/config"
	"github.com/example/flowershop/internal/handlers"
	"github.com/example/flowershop/internal/middleware"
	"github.com/example/flowershop/internal/services"
	"github.com/example/flowershop/internal/session"
	"github.com/example/flowershop/internal/storage"
)

// Register wires all dependencies and mounts every route group on the app.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	sessions := session.NewMemoryStore()
	images := storage.NewImageStore(cfg.MediaRoot)
	scoring := services.NewScoringService(cfg.ModelServerURL, cfg.ModelName)
	cls := classifier.New(scoring.Score)

	var telegram *services.TelegramService
	if cfg.TelegramBotToken != "" {
		telegram = services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	}

	cartService := services.NewCartService(db)
	checkoutService := services.NewCheckoutService(db, cartService, telegram)

	authHandler := handlers.NewAuthHandler(db, sessions)
	catalogHandler := handlers.NewCatalogHandler(db)
	flowerHandler := handlers.NewFlowerHandler(db, images, cls)
	productHandler := handlers.NewProductHandler(db, images, cls)
	cartHandler := handlers.NewCartHandler(db, cartService, checkoutService)
	orderHandler := handlers.NewOrderHandler(db)
	profileHandler := handlers.NewProfileHandler(db)

	authRequired := middleware.AuthMiddleware(sessions)

	users := app.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)
	users.Post("/logout", authRequired, authHandler.Logout)

	categories := app.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", catalogHandler.UpdateCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)

	flowerTypes := app.Group("/flower-types")
	flowerTypes.Get("/", catalogHandler.ListFlowerTypes)
	flowerTypes.Post("/", catalogHandler.CreateFlowerType)
	flowerTypes.Get("/:id", catalogHandler.GetFlowerType)
	flowerTypes.Put("/:id", catalogHandler.UpdateFlowerType)
	flowerTypes.Delete("/:id", catalogHandler.DeleteFlowerType)

	// Literal routes must be mounted before the /:id wildcards.
	flowers := app.Group("/flowers")
	flowers.Post("/predict", flowerHandler.Predict)
	flowers.Get("/", flowerHandler.ListFlowers)
	flowers.Post("/", flowerHandler.CreateFlower)
	flowers.Get("/:id", flowerHandler.GetFlower)
	flowers.Put("/:id", flowerHandler.UpdateFlower)
	flowers.Delete("/:id", flowerHandler.DeleteFlower)

	products := app.Group("/products")
	products.Post("/predict", productHandler.Predict)
	products.Get("/flower-type/:id", productHandler.ListProductsByFlowerType)
	products.Get("/", productHandler.ListProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", productHandler.DeleteProduct)

	cart := app.Group("/cart")
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:id", cartHandler.UpdateItem)
	cart.Delete("/items/:id", cartHandler.RemoveItem)
	cart.Post("/checkout", cartHandler.Checkout)

	orders := app.Group("/orders", authRequired)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id", orderHandler.UpdateOrder)
	orders.Delete("/:id", orderHandler.DeleteOrder)

	informations := app.Group("/informations", authRequired)
	informations.Get("/info", profileHandler.GetInfo)
	informations.Post("/", profileHandler.CreateInfo)
	informations.Put("/:id", profileHandler.UpdateInfo)
}
