package employee

import "errors"

var (
	ErrInvalidName     = errors.New("employee: invalid name")
	ErrInvalidSalary   = errors.New("employee: invalid base salary")
	ErrInvalidJoinDate = errors.New("employee: invalid join date")
)
