package hrsync

import "errors"

var (
	ErrBlankRow       = errors.New("hrsync: blank row")
	ErrTooManyCells   = errors.New("hrsync: row has more cells than the declared range")
	ErrNegativeNumber = errors.New("hrsync: negative numeric cell")
)
