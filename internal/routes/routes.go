package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/config"
	"github.com/example/glowcheck/internal/handlers"
	"github.com/example/glowcheck/internal/middleware"
	"github.com/example/glowcheck/internal/services"
	"github.com/example/glowcheck/internal/stores"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	incidecoder := services.NewIncidecoderService(cfg.IncidecoderBaseURL)

	ingredientStore := stores.NewIngredientStore(db)
	ruleStore := stores.NewRuleStore(db)
	productStore := stores.NewProductStore(db, ingredientStore)
	routineStore := stores.NewRoutineStore(db)
	ratingStore := stores.NewRatingStore(db)

	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	productHandler := handlers.NewProductHandler(db, productStore, ratingStore, incidecoder)
	routineHandler := handlers.NewRoutineHandler(db, routineStore, productStore, ruleStore, incidecoder)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Products
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Get("/:id/ratings", productHandler.GetRatings)

	api.Get("/search", productHandler.SearchProducts)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	protected.Post("/products/:id/ratings", productHandler.SubmitRating)

	routines := protected.Group("/routines/:day")
	routines.Get("/", routineHandler.ListRoutine)
	routines.Post("/", routineHandler.AddProduct)
	routines.Get("/issues", routineHandler.GetIssues)
	routines.Delete("/products/:id", routineHandler.RemoveProduct)
	routines.Put("/products/:id/rating", routineHandler.UpdateRating)
}
