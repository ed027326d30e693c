package main

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	migration "github.com/VDronovVladislav/foodgram-project-react/cmd/database/migrate"
	"github.com/VDronovVladislav/foodgram-project-react/cmd/database/seed"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/ingredient"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/tag"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := connect()
		if err != nil {
			return err
		}
		defer closeDB()

		return migration.Migrate(db)
	},
}

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients <csv>",
	Short: "Load ingredients from a CSV file with the header name,measurement_unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seeder, closeDB, err := newSeeder()
		if err != nil {
			return err
		}
		defer closeDB()

		created, err := seeder.LoadIngredientsFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		log.Infof("%d ingredients created", created)
		return nil
	},
}

var loadTagsCmd = &cobra.Command{
	Use:   "load-tags <csv>",
	Short: "Load tags from a CSV file with the header name,color,slug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seeder, closeDB, err := newSeeder()
		if err != nil {
			return err
		}
		defer closeDB()

		created, err := seeder.LoadTagsFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		log.Infof("%d tags created", created)
		return nil
	},
}

func newSeeder() (*seed.Seeder, func(), error) {
	db, closeDB, err := connect()
	if err != nil {
		return nil, nil, err
	}
	utils.InitValidator()
	return seed.NewSeeder(tag.NewTagRepository(db), ingredient.NewIngredientRepository(db), utils.Validate), closeDB, nil
}
