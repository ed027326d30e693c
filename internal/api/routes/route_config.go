package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VDronovVladislav/foodgram-project-react/internal/api/handlers"
	"github.com/VDronovVladislav/foodgram-project-react/internal/middleware"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	ReferenceHandler    handlers.ReferenceHandler
	RecipeHandler       handlers.RecipeHandler
	SubscriptionHandler handlers.SubscriptionHandler
	Middleware          middleware.Middleware
	Authenticator       middleware.Authenticator
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	api := c.App.Group("/api")
	c.Auth(api)
	c.User(api)
	c.Reference(api)
	c.Recipe(api)
	c.GuestRoute()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.Authenticator)
}

func (c *Config) optionalAuth() fiber.Handler {
	return c.Middleware.OptionalAuthMiddleware(c.Authenticator)
}

func (c *Config) Auth(api fiber.Router) {
	auth := api.Group("/auth")
	{
		auth.Post("/token/login/", c.UserHandler.Login)
		auth.Post("/token/logout/", c.auth(), c.UserHandler.Logout)
		auth.Post("/users/set_password/", c.auth(), c.UserHandler.SetPassword)
	}
}

// User registers the user routes. Literal segments go before "/:id".
func (c *Config) User(api fiber.Router) {
	user := api.Group("/users")
	{
		user.Get("/", c.optionalAuth(), c.UserHandler.GetUsers)
		user.Post("/", c.UserHandler.Register)
		user.Get("/me/", c.auth(), c.UserHandler.Me)
		user.Patch("/me/", c.auth(), c.UserHandler.UpdateMe)
		user.Post("/set_password/", c.auth(), c.UserHandler.SetPassword)
		user.Get("/subscriptions/", c.auth(), c.SubscriptionHandler.GetSubscriptions)
		user.Get("/:id/", c.optionalAuth(), c.UserHandler.GetUser)
		user.Post("/:id/subscribe/", c.auth(), c.SubscriptionHandler.Subscribe)
		user.Delete("/:id/subscribe/", c.auth(), c.SubscriptionHandler.Unsubscribe)
	}
}

func (c *Config) Reference(api fiber.Router) {
	api.Get("/tags/", c.ReferenceHandler.GetTags)
	api.Get("/tags/:id/", c.ReferenceHandler.GetTag)
	api.Get("/ingredients/", c.ReferenceHandler.GetIngredients)
	api.Get("/ingredients/:id/", c.ReferenceHandler.GetIngredient)
}

func (c *Config) Recipe(api fiber.Router) {
	recipes := api.Group("/recipes")
	{
		recipes.Get("/", c.optionalAuth(), c.RecipeHandler.GetRecipes)
		recipes.Post("/", c.auth(), c.RecipeHandler.CreateRecipe)
		recipes.Get("/download_shopping_cart/", c.auth(), c.RecipeHandler.DownloadShoppingCart)
		recipes.Get("/:id/", c.optionalAuth(), c.RecipeHandler.GetRecipe)
		recipes.Put("/:id/", c.auth(), c.RecipeHandler.UpdateRecipe)
		recipes.Patch("/:id/", c.auth(), c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id/", c.auth(), c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/favorite/", c.auth(), c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite/", c.auth(), c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart/", c.auth(), c.RecipeHandler.AddToShoppingCart)
		recipes.Delete("/:id/shopping_cart/", c.auth(), c.RecipeHandler.RemoveFromShoppingCart)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
