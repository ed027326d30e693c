// Package seed loads reference data (ingredients and tags) from CSV files.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/ingredient"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/tag"
)

var ErrMissingColumn = errors.New("missing csv column")

type Seeder struct {
	tagRepository        tag.TagRepository
	ingredientRepository ingredient.IngredientRepository
	validator            *validator.Validate
}

func NewSeeder(tagRepository tag.TagRepository, ingredientRepository ingredient.IngredientRepository, validator *validator.Validate) *Seeder {
	return &Seeder{
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		validator:            validator,
	}
}

func (s *Seeder) LoadIngredientsFile(ctx context.Context, path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return s.LoadIngredients(ctx, file)
}

// LoadIngredients reads rows with the header name,measurement_unit and
// returns how many new ingredients were stored.
func (s *Seeder) LoadIngredients(ctx context.Context, r io.Reader) (int64, error) {
	var ingredients []*entities.Ingredient
	err := readRows(r, []string{"name", "measurement_unit"}, func(line int, row map[string]string) error {
		item := domain.IngredientRow{
			Name:            row["name"],
			MeasurementUnit: row["measurement_unit"],
		}
		if err := s.validator.Struct(item); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		ingredients = append(ingredients, &entities.Ingredient{
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	created, err := s.ingredientRepository.CreateIngredients(ctx, ingredients)
	if err != nil {
		return 0, err
	}
	log.Infof("loaded %d of %d ingredients", created, len(ingredients))
	return created, nil
}

func (s *Seeder) LoadTagsFile(ctx context.Context, path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return s.LoadTags(ctx, file)
}

// LoadTags reads rows with the header name,color,slug.
func (s *Seeder) LoadTags(ctx context.Context, r io.Reader) (int64, error) {
	var tags []*entities.Tag
	err := readRows(r, []string{"name", "color", "slug"}, func(line int, row map[string]string) error {
		item := domain.TagRow{
			Name:  row["name"],
			Color: strings.ToUpper(row["color"]),
			Slug:  row["slug"],
		}
		if err := s.validator.Struct(item); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		tags = append(tags, &entities.Tag{
			Name:  item.Name,
			Color: item.Color,
			Slug:  item.Slug,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	created, err := s.tagRepository.CreateTags(ctx, tags)
	if err != nil {
		return 0, err
	}
	log.Infof("loaded %d of %d tags", created, len(tags))
	return created, nil
}

// readRows maps every record to its header names. Columns are matched by
// name, so their order in the file does not matter.
func readRows(r io.Reader, columns []string, fn func(line int, row map[string]string) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		row := make(map[string]string, len(columns))
		for _, col := range columns {
			row[col] = strings.TrimSpace(record[index[col]])
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}
}
