package recipe

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.IngredientInRecipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.IngredientInRecipe) error
		DeleteRecipe(ctx context.Context, id uint) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, viewerID uint, filter domain.RecipeFilter) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
		CheckName(ctx context.Context, name string, excludeID uint) (bool, error)
		GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.IngredientInRecipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe, tags, ingredients)
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.IngredientInRecipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).
			Omit(clause.Associations).
			Select("name", "image", "text", "cooking_time", "updated_at").
			Updates(recipe).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.IngredientInRecipe{}).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe, tags, ingredients)
	})
}

// replaceComposition sets the recipe's tag set and inserts its ingredient rows
// in one batch. Existing ingredient rows must already be gone.
func replaceComposition(tx *gorm.DB, recipe *entities.Recipe, tags []*entities.Tag, ingredients []*entities.IngredientInRecipe) error {
	tagLinks := tx.Model(recipe).Omit("Tags.*").Association("Tags")
	if len(tags) == 0 {
		if err := tagLinks.Clear(); err != nil {
			return err
		}
	} else if err := tagLinks.Replace(tags); err != nil {
		return err
	}

	if len(ingredients) == 0 {
		return nil
	}
	for _, i := range ingredients {
		i.RecipeID = recipe.ID
	}
	return tx.Omit(clause.Associations).CreateInBatches(ingredients, len(ingredients)).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&entities.IngredientInRecipe{},
			&entities.Favorite{},
			&entities.ShoppingList{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&entities.Recipe{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}

		res := tx.Delete(&entities.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func withComposition(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id asc") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_in_recipes.id asc") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Scopes(withComposition).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// recipeFilter narrows the recipe list. Membership filters only apply to an
// authenticated viewer.
func recipeFilter(viewerID uint, filter domain.RecipeFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID != 0 {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if len(filter.Tags) > 0 {
			db = whereIn(db, sq.Select("recipe_tags.recipe_id").
				From("recipe_tags").
				Join("tags ON tags.id = recipe_tags.tag_id").
				Where(sq.Eq{"tags.slug": filter.Tags}))
		}
		if viewerID == 0 {
			return db
		}
		if filter.IsFavorited {
			db = whereIn(db, sq.Select("recipe_id").
				From("favorites").
				Where(sq.Eq{"user_id": viewerID}))
		}
		if filter.IsInShoppingCart {
			db = whereIn(db, sq.Select("recipe_id").
				From("shopping_lists").
				Where(sq.Eq{"user_id": viewerID}))
		}
		return db
	}
}

func whereIn(db *gorm.DB, sub sq.SelectBuilder) *gorm.DB {
	query, args, err := sub.ToSql()
	if err != nil {
		_ = db.AddError(err)
		return db
	}
	return db.Where("recipes.id IN ("+query+")", args...)
}

func (r *recipeRepository) GetRecipes(ctx context.Context, viewerID uint, filter domain.RecipeFilter) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	scope := recipeFilter(viewerID, filter)

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(scope, withComposition).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Order("recipes.created_at desc").
		Order("recipes.id desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// GetRecipesByAuthor returns the author's newest recipes; limit <= 0 means all.
func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, count(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// CheckName reports whether a recipe other than excludeID is called name.
func (r *recipeRepository) CheckName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetShoppingList sums ingredient amounts over every recipe in the user's
// cart, one row per (name, unit), largest total first.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID uint) ([]domain.ShoppingListItem, error) {
	query, args, err := sq.
		Select(
			"i.name AS name",
			"i.measurement_unit AS measurement_unit",
			"SUM(ir.amount) AS total",
		).
		From("ingredient_in_recipes ir").
		Join("ingredients i ON i.id = ir.ingredient_id").
		Join("shopping_lists sl ON sl.recipe_id = ir.recipe_id").
		Where(sq.Eq{"sl.user_id": userID}).
		GroupBy("i.name", "i.measurement_unit").
		OrderBy("total DESC", "i.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
