/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import "errors"

var (
	// ErrSourceUnavailable means the provider failed or could not supply
	// enough distinct categories for a board.
	ErrSourceUnavailable = errors.New("trivia source unavailable")

	// ErrCategoryIncomplete means a category could not be fetched or had
	// fewer usable clues than the board needs. The category is left out.
	ErrCategoryIncomplete = errors.New("category incomplete")

	// ErrCellOutOfBounds means a cell address was malformed or outside the board.
	ErrCellOutOfBounds = errors.New("cell out of bounds")
)
