// Package repository holds the storage errors shared by all implementations.
package repository

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product is already tracked")
)
