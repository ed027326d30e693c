package domain

import "errors"

var (
	MessageSuccessGetIngredients = "success get ingredients"
	MessageFailedGetIngredients  = "failed to get ingredients"

	ErrIngredientNotFound = errors.New("ingredient not found")
)

type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientRow is one line of the ingredients CSV.
type IngredientRow struct {
	Name            string `validate:"required,max=200"`
	MeasurementUnit string `validate:"required,max=200"`
}
