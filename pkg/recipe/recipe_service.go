package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils/storage"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/ingredient"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/membership"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/tag"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/user"
)

const imageFolder = "recipes/images"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, viewerID uint, filter domain.RecipeFilter) ([]domain.RecipeResponse, int64, error)
		GetRecipeByID(ctx context.Context, viewerID, id uint) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, userID uint, req domain.RecipeWriteRequest) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, userID, id uint, req domain.RecipeWriteRequest) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, userID, id uint) error

		AddFavorite(ctx context.Context, userID, recipeID uint) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, userID, recipeID uint) error
		AddToShoppingCart(ctx context.Context, userID, recipeID uint) (domain.RecipeShortResponse, error)
		RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error
		DownloadShoppingCart(ctx context.Context, userID uint) (string, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		favorites            membership.Repository
		shoppingCart         membership.Repository
		subscriptions        membership.Repository
		storage              storage.Storage
		validator            *validator.Validate
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	favorites membership.Repository,
	shoppingCart membership.Repository,
	subscriptions membership.Repository,
	storage storage.Storage,
	validator *validator.Validate,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		favorites:            favorites,
		shoppingCart:         shoppingCart,
		subscriptions:        subscriptions,
		storage:              storage,
		validator:            validator,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, viewerID uint, filter domain.RecipeFilter) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, viewerID, filter)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.toResponses(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, viewerID, id uint) (domain.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	res, err := s.toResponses(ctx, viewerID, []*entities.Recipe{recipe})
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return res[0], nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, userID uint, req domain.RecipeWriteRequest) (domain.RecipeResponse, error) {
	tags, ingredients, err := s.validateWrite(ctx, req, 0)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageKey, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    userID,
		Name:        req.Name,
		Image:       imageKey,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tags, ingredients); err != nil {
		s.removeImage(imageKey)
		return domain.RecipeResponse{}, writeError(err, req)
	}

	return s.GetRecipeByID(ctx, userID, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields, tags and ingredients. PUT and
// PATCH share it; an omitted image keeps the stored one.
func (s *recipeService) UpdateRecipe(ctx context.Context, userID, id uint, req domain.RecipeWriteRequest) (domain.RecipeResponse, error) {
	recipe, err := s.getOwnRecipe(ctx, userID, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	tags, ingredients, err := s.validateWrite(ctx, req, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	oldImage := recipe.Image
	if req.Image != "" {
		imageKey, err := s.uploadImage(ctx, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.Image = imageKey
	}
	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tags, ingredients); err != nil {
		if recipe.Image != oldImage {
			s.removeImage(recipe.Image)
		}
		return domain.RecipeResponse{}, writeError(err, req)
	}
	if recipe.Image != oldImage {
		s.removeImage(oldImage)
	}

	return s.GetRecipeByID(ctx, userID, recipe.ID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, id uint) error {
	recipe, err := s.getOwnRecipe(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	s.removeImage(recipe.Image)
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, userID, recipeID uint) (domain.RecipeShortResponse, error) {
	return s.addMembership(ctx, s.favorites, userID, recipeID, domain.ErrAlreadyFavorited)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.removeMembership(ctx, s.favorites, userID, recipeID)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uint) (domain.RecipeShortResponse, error) {
	return s.addMembership(ctx, s.shoppingCart, userID, recipeID, domain.ErrAlreadyInShoppingCart)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uint) error {
	return s.removeMembership(ctx, s.shoppingCart, userID, recipeID)
}

func (s *recipeService) addMembership(ctx context.Context, repo membership.Repository, userID, recipeID uint, exists error) (domain.RecipeShortResponse, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShortResponse{}, err
	}

	if err := repo.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, membership.ErrAlreadyExists) {
			return domain.RecipeShortResponse{}, domain.NewValidationError(domain.FieldNonField, exists)
		}
		return domain.RecipeShortResponse{}, err
	}
	return ToShortResponse(recipe, s.storage), nil
}

func (s *recipeService) removeMembership(ctx context.Context, repo membership.Repository, userID, recipeID uint) error {
	if _, err := s.getRecipe(ctx, recipeID); err != nil {
		return err
	}
	return repo.Remove(ctx, userID, recipeID)
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID uint) (string, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(items), nil
}

// RenderShoppingList formats one "<name> (<unit>) - <total>" line per item.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.Total))
	}
	return strings.Join(lines, "\n")
}

func (s *recipeService) getRecipe(ctx context.Context, id uint) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) getOwnRecipe(ctx context.Context, userID, id uint) (*entities.Recipe, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, domain.ErrForbidden
	}
	return recipe, nil
}

// validateWrite checks a write payload in a fixed order and stops at the
// first failing rule. excludeID is the recipe being updated, 0 on create.
func (s *recipeService) validateWrite(ctx context.Context, req domain.RecipeWriteRequest, excludeID uint) ([]*entities.Tag, []*entities.IngredientInRecipe, error) {
	if len(req.Ingredients) == 0 {
		return nil, nil, domain.NewValidationError("ingredients", domain.ErrRecipeNoIngredients)
	}

	seen := make(map[domain.RecipeIngredientRequest]struct{}, len(req.Ingredients))
	for _, i := range req.Ingredients {
		if _, ok := seen[i]; ok {
			return nil, nil, domain.NewValidationError("ingredients", domain.ErrRecipeDuplicateIngredients)
		}
		seen[i] = struct{}{}
	}

	for _, i := range req.Ingredients {
		if i.Amount < 1 {
			return nil, nil, domain.NewValidationError("ingredients", domain.ErrRecipeIngredientAmount)
		}
	}

	if req.CookingTime <= 0 {
		return nil, nil, domain.NewValidationError("cooking_time", domain.ErrRecipeCookingTime)
	}

	taken, err := s.recipeRepository.CheckName(ctx, req.Name, excludeID)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, domain.NewValidationError("name", domain.ErrRecipeNameTaken)
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, nil, err
	}
	if excludeID == 0 && req.Image == "" {
		return nil, nil, domain.NewValidationError("image", domain.ErrRecipeImageRequired)
	}

	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return nil, nil, err
	}
	return tags, ingredients, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ids []uint) ([]*entities.Tag, error) {
	ids = unique(ids)
	tags, err := s.tagRepository.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint]bool, len(tags))
	for _, t := range tags {
		found[t.ID] = true
	}
	var vErr domain.ValidationError
	for _, id := range ids {
		if !found[id] {
			vErr.Add("tags", fmt.Sprintf("tag %d does not exist", id))
		}
	}
	if len(vErr.Fields) > 0 {
		return nil, &vErr
	}
	return tags, nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, items []domain.RecipeIngredientRequest) ([]*entities.IngredientInRecipe, error) {
	ids := make([]uint, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ID)
	}
	ids = unique(ids)

	existing, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uint]bool, len(existing))
	for _, i := range existing {
		found[i.ID] = true
	}
	var vErr domain.ValidationError
	for _, id := range ids {
		if !found[id] {
			vErr.Add("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
		}
	}
	if len(vErr.Fields) > 0 {
		return nil, &vErr
	}

	rows := make([]*entities.IngredientInRecipe, 0, len(items))
	for _, i := range items {
		rows = append(rows, &entities.IngredientInRecipe{
			IngredientID: i.ID,
			Amount:       i.Amount,
		})
	}
	return rows, nil
}

// writeError maps a unique violation from a recipe write to the field that
// caused it: repeated ingredient ids, otherwise the name.
func writeError(err error, req domain.RecipeWriteRequest) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	ids := make(map[uint]bool, len(req.Ingredients))
	for _, i := range req.Ingredients {
		if ids[i.ID] {
			return domain.NewValidationError("ingredients", domain.ErrRecipeDuplicateIngredients)
		}
		ids[i.ID] = true
	}
	return domain.NewValidationError("name", domain.ErrRecipeNameTaken)
}

func (s *recipeService) uploadImage(ctx context.Context, dataURI string) (string, error) {
	data, ext, err := utils.DecodeImageDataURI(dataURI)
	if err != nil {
		return "", domain.NewValidationError("image", err)
	}

	key, err := s.storage.UploadFile(ctx, uuid.NewString(), ext, data, imageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrExtensionNotAllowed) {
			return "", domain.NewValidationError("image", domain.ErrInvalidImage)
		}
		return "", err
	}
	return key, nil
}

// removeImage deletes a stored image. Failures are logged only.
func (s *recipeService) removeImage(key string) {
	if key == "" {
		return
	}
	if err := s.storage.DeleteFile(context.Background(), key); err != nil {
		log.Errorf("failed to delete image %s: %v", key, err)
	}
}

func (s *recipeService) toResponses(ctx context.Context, viewerID uint, recipes []*entities.Recipe) ([]domain.RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.favorites.Marked(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.shoppingCart.Marked(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subscriptions.Marked(ctx, viewerID, unique(authorIDs))
	if err != nil {
		return nil, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		item := domain.RecipeResponse{
			ID:               r.ID,
			Tags:             make([]domain.TagResponse, 0, len(r.Tags)),
			Ingredients:      make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            imageLink(r.Image, s.storage),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if r.Author != nil {
			item.Author = user.ToResponse(r.Author, subscribed[r.AuthorID])
		}
		for _, t := range r.Tags {
			item.Tags = append(item.Tags, tag.ToResponse(t))
		}
		for _, i := range r.Ingredients {
			row := domain.RecipeIngredientResponse{
				ID:     i.IngredientID,
				Amount: i.Amount,
			}
			if i.Ingredient != nil {
				row.Name = i.Ingredient.Name
				row.MeasurementUnit = i.Ingredient.MeasurementUnit
			}
			item.Ingredients = append(item.Ingredients, row)
		}
		res = append(res, item)
	}
	return res, nil
}

func ToShortResponse(r *entities.Recipe, links storage.Storage) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageLink(r.Image, links),
		CookingTime: r.CookingTime,
	}
}

func imageLink(key string, links storage.Storage) string {
	if key == "" {
		return ""
	}
	return links.GetPublicLinkKey(key)
}

func unique(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	res := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			res = append(res, id)
		}
	}
	return res
}
