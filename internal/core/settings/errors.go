package settings

import "errors"

var (
	ErrInvalidCompanyName      = errors.New("settings: invalid company name")
	ErrInvalidCurrency         = errors.New("settings: invalid currency")
	ErrInvalidWorkingHours     = errors.New("settings: invalid working hours")
	ErrInvalidAccountingPeriod = errors.New("settings: invalid accounting period")
)
