package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrMovieNotFound indicates the requested movie does not exist
	ErrMovieNotFound = errors.New("movie not found")

	// ErrEmptyQuery indicates a search or mood prompt was blank
	ErrEmptyQuery = errors.New("query is empty")

	// ErrBlockedTerm indicates the query was rejected by the content guard
	ErrBlockedTerm = errors.New("query contains a blocked term")

	// ErrAlreadyInCollection indicates the movie is already saved
	ErrAlreadyInCollection = errors.New("movie is already in the collection")

	// ErrNotInCollection indicates the movie is not saved
	ErrNotInCollection = errors.New("movie is not in the collection")
)
