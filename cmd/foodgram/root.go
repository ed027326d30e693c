package main

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/VDronovVladislav/foodgram-project-react/cmd/config"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "foodgram",
	Short:         "Foodgram recipe sharing backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadConfigFile(configPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the yaml config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(loadIngredientsCmd)
	rootCmd.AddCommand(loadTagsCmd)
}

func connect() (*gorm.DB, func(), error) {
	db, err := config.ConnectDB()
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = sqlDB.Close() }, nil
}
