package recipe

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestRecipeRepository_GetShoppingList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT i.name AS name, i.measurement_unit AS measurement_unit, SUM(ir.amount) AS total ` +
			`FROM ingredient_in_recipes ir ` +
			`JOIN ingredients i ON i.id = ir.ingredient_id ` +
			`JOIN shopping_lists sl ON sl.recipe_id = ir.recipe_id ` +
			`WHERE sl.user_id = $1 ` +
			`GROUP BY i.name, i.measurement_unit ` +
			`ORDER BY total DESC, i.name ASC`)).
		WithArgs(5).
		// two carted recipes use 5 g and 10 g of salt; SUM folds them into one row
		WillReturnRows(sqlmock.NewRows([]string{"name", "measurement_unit", "total"}).
			AddRow("Salt", "g", 15).
			AddRow("Flour", "g", 3))

	items, err := repo.GetShoppingList(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "Salt", MeasurementUnit: "g", Total: 15},
		{Name: "Flour", MeasurementUnit: "g", Total: 3},
	}, items)
	assert.Equal(t, "Salt (g) - 15\nFlour (g) - 3", RenderShoppingList(items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_GetShoppingListEmptyCart(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectQuery(`FROM ingredient_in_recipes ir`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "measurement_unit", "total"}))

	items, err := repo.GetShoppingList(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "", RenderShoppingList(items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_CheckNameExcludesSelf(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "recipes" WHERE name = $1 AND id <> $2`)).
		WithArgs("Pancakes", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := repo.CheckName(context.Background(), "Pancakes", 3)
	require.NoError(t, err)
	assert.False(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_CountRecipesByAuthors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT author_id, count(*) AS total FROM "recipes" WHERE author_id IN ($1,$2) GROUP BY "author_id"`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"author_id", "total"}).AddRow(1, 4))

	counts, err := repo.CountRecipesByAuthors(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{1: 4}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_CreateRecipeInsertsIngredientsInOneBatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "recipes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`DELETE FROM "recipe_tags" WHERE .*recipe_id`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO "ingredient_in_recipes" ("recipe_id","ingredient_id","amount") VALUES ($1,$2,$3),($4,$5,$6)`)).
		WithArgs(9, 1, 10, 9, 2, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	recipe := &entities.Recipe{AuthorID: 4, Name: "Pancakes", Image: "recipes/images/a.png", Text: "Mix.", CookingTime: 10}
	err := repo.CreateRecipe(context.Background(), recipe, nil, []*entities.IngredientInRecipe{
		{IngredientID: 1, Amount: 10},
		{IngredientID: 2, Amount: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), recipe.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_UpdateRecipeReplacesIngredients(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recipes" SET "name"=\$1,"image"=\$2,"text"=\$3,"cooking_time"=\$4,"updated_at"=\$5 WHERE "id" = \$6`).
		WithArgs("Pancakes", "recipes/images/b.png", "Mix well.", 15, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "ingredient_in_recipes" WHERE recipe_id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "recipe_tags" WHERE .*recipe_id`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO "ingredient_in_recipes" ("recipe_id","ingredient_id","amount") VALUES ($1,$2,$3),($4,$5,$6)`)).
		WithArgs(7, 1, 5, 7, 3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12))
	mock.ExpectCommit()

	recipe := &entities.Recipe{ID: 7, AuthorID: 4, Name: "Pancakes", Image: "recipes/images/b.png", Text: "Mix well.", CookingTime: 15}
	err := repo.UpdateRecipe(context.Background(), recipe, nil, []*entities.IngredientInRecipe{
		{IngredientID: 1, Amount: 5},
		{IngredientID: 3, Amount: 1},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func expectRecipeChildrenDeleted(mock sqlmock.Sqlmock, id int) {
	for _, table := range []string{"ingredient_in_recipes", "favorites", "shopping_lists"} {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "` + table + `" WHERE recipe_id = $1`)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`DELETE FROM "recipe_tags" WHERE .*recipe_id`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestRecipeRepository_DeleteRecipeCascades(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectBegin()
	expectRecipeChildrenDeleted(mock, 7)
	mock.ExpectExec(`DELETE FROM "recipes" WHERE .*"id" = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteRecipe(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_DeleteMissingRecipe(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectBegin()
	expectRecipeChildrenDeleted(mock, 8)
	mock.ExpectExec(`DELETE FROM "recipes" WHERE .*"id" = \$1`).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteRecipe(context.Background(), 8)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_GetRecipesByTags(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)
	tagged := regexp.QuoteMeta(`recipes.id IN (SELECT recipe_tags.recipe_id FROM recipe_tags ` +
		`JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ($1,$2))`)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "recipes" WHERE ` + tagged).
		WithArgs("lunch", "dinner").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "recipes" WHERE ` + tagged + ` ORDER BY recipes.created_at desc,recipes.id desc`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	recipes, count, err := repo.GetRecipes(context.Background(), 0, domain.RecipeFilter{
		Tags:              []string{"lunch", "dinner"},
		PaginationRequest: domain.PaginationRequest{Page: 1, Limit: 6},
	})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, recipes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_GetRecipesAnonymousIgnoresMembership(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectQuery(`^SELECT count\(\*\) FROM "recipes" WHERE recipes\.author_id = \$1$`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`^SELECT \* FROM "recipes" WHERE recipes\.author_id = \$1 ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.GetRecipes(context.Background(), 0, domain.RecipeFilter{
		AuthorID:          3,
		IsFavorited:       true,
		IsInShoppingCart:  true,
		PaginationRequest: domain.PaginationRequest{Page: 1, Limit: 6},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeRepository_GetRecipesFavoritedByViewer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT count(*) FROM "recipes" WHERE recipes.id IN (SELECT recipe_id FROM favorites WHERE user_id = $1)`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "recipes" WHERE recipes\.id IN \(SELECT recipe_id FROM favorites`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.GetRecipes(context.Background(), 4, domain.RecipeFilter{
		IsFavorited:       true,
		PaginationRequest: domain.PaginationRequest{Page: 1, Limit: 6},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
