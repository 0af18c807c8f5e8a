package types

import "errors"

var (
	ErrDataNotLoaded        = errors.New("recommendation data not loaded")
	ErrEmptyCatalog         = errors.New("destination catalog is empty")
	ErrDestinationNotFound  = errors.New("destination not found")
	ErrDuplicateDestination = errors.New("duplicate destination id")
	ErrDuplicateVisit       = errors.New("duplicate visit")
	ErrInvalidRecord        = errors.New("invalid dataset record")
	ErrInvalidArgument      = errors.New("invalid argument")
)
