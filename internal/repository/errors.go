// Package repository declares the persistence ports used by the use cases.
package repository

import "errors"

var (
	// ErrDuplicateSlug is returned when a write violates the unique slug constraint.
	ErrDuplicateSlug = errors.New("slug already exists")
	// ErrNoRows is returned by writes that matched no row.
	ErrNoRows = errors.New("no rows affected")
)
