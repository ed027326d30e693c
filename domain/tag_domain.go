package domain

import "errors"

var (
	MessageSuccessGetTags = "success get tags"
	MessageFailedGetTags  = "failed to get tags"

	ErrTagNotFound = errors.New("tag not found")
)

type TagResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// TagRow is one line of the tags CSV.
type TagRow struct {
	Name  string `validate:"required,max=200"`
	Color string `validate:"required,hexcolor,len=7"`
	Slug  string `validate:"required,max=200,tagslug"`
}
