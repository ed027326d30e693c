package config

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/VDronovVladislav/foodgram-project-react/entities"
	"github.com/VDronovVladislav/foodgram-project-react/internal/api/handlers"
	"github.com/VDronovVladislav/foodgram-project-react/internal/api/routes"
	"github.com/VDronovVladislav/foodgram-project-react/internal/middleware"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils/mailing"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils/storage"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/ingredient"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/jwt"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/membership"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/recipe"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/subscription"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/tag"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/user"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not configured")

func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	jwtSecret := utils.GetConfig("JWT_SECRET")
	if jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:       "foodgram",
		StrictRouting: false,
		BodyLimit:     10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("DB_TIMEZONE"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT"),
		Expiration: 1 * time.Second,
	}))

	// utils
	media, err := storage.New(ctx)
	if err != nil {
		return nil, err
	}
	if utils.GetConfig("AWS_S3_BUCKET") == "" {
		app.Static(utils.GetConfig("MEDIA_URL"), utils.GetConfig("MEDIA_ROOT"))
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig())

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)
	favorites := membership.NewStore(db, "user_id", "recipe_id", func(owner, target uint) *entities.Favorite {
		return &entities.Favorite{UserID: owner, RecipeID: target}
	})
	shoppingCart := membership.NewStore(db, "user_id", "recipe_id", func(owner, target uint) *entities.ShoppingList {
		return &entities.ShoppingList{UserID: owner, RecipeID: target}
	})
	subscriptions := membership.NewStore(db, "follower_id", "author_id", func(owner, target uint) *entities.Subscribe {
		return &entities.Subscribe{FollowerID: owner, AuthorID: target}
	})

	// Service
	jwtService := jwt.NewJWTService(
		jwtSecret,
		time.Duration(utils.GetConfigInt("JWT_TTL_HOURS"))*time.Hour,
	)
	userService := user.NewUserService(userRepository, subscriptions, jwtService, mailer)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		tagRepository,
		ingredientRepository,
		favorites,
		shoppingCart,
		subscriptions,
		media,
		validator,
	)
	subscriptionService := subscription.NewSubscriptionService(
		subscriptionRepository,
		userRepository,
		recipeRepository,
		subscriptions,
		media,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	referenceHandler := handlers.NewReferenceHandler(tagService, ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		ReferenceHandler:    referenceHandler,
		RecipeHandler:       recipeHandler,
		SubscriptionHandler: subscriptionHandler,
		Middleware:          middlewares,
		Authenticator:       userService,
	}
	routesConfig.Setup()
	return app, nil
}
