package domain

import (
	"errors"
)

const ShoppingListFilename = "foodgram_shopping_cart.txt"

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessDeleteRecipe       = "recipe deleted successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddShoppingCart    = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart = "recipe removed from shopping cart"

	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingCart = "failed to download shopping cart"

	ErrRecipeNotFound             = errors.New("recipe not found")
	ErrRecipeNoIngredients        = errors.New("add ingredients")
	ErrRecipeDuplicateIngredients = errors.New("ingredients must not repeat")
	ErrRecipeIngredientAmount     = errors.New("amount must be at least 1")
	ErrRecipeCookingTime          = errors.New("cooking time must be greater than 0")
	ErrRecipeNameTaken            = errors.New("recipe with this name already exists")
	ErrRecipeImageRequired        = errors.New("image is required")
	ErrInvalidImage               = errors.New("image must be a base64 encoded data uri")
	ErrAlreadyFavorited           = errors.New("recipe already in favorites")
	ErrAlreadyInShoppingCart      = errors.New("recipe already in shopping cart")
)

type (
	// RecipeIngredientRequest is comparable so that identical entries can be
	// detected with a map lookup.
	RecipeIngredientRequest struct {
		ID     uint `json:"id"`
		Amount int  `json:"amount"`
	}

	RecipeWriteRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients"`
		Tags        []uint                    `json:"tags"`
		Image       string                    `json:"image" validate:"omitempty,datauri"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time"`
	}

	RecipeFilter struct {
		AuthorID         uint
		Tags             []string
		IsFavorited      bool
		IsInShoppingCart bool
		PaginationRequest
	}

	RecipeIngredientResponse struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               uint                       `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	RecipeShortResponse struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShoppingListItem struct {
		Name            string `gorm:"column:name"`
		MeasurementUnit string `gorm:"column:measurement_unit"`
		Total           int64  `gorm:"column:total"`
	}
)
