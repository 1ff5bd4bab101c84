package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyResult  = errors.New("no data found for given criteria")
	// ErrNoData is returned when the model fit stage finds no usable rows.
	// It matches ErrEmptyResult as well.
	ErrNoData = fmt.Errorf("no match data to fit: %w", ErrEmptyResult)
)
