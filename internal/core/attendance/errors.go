package attendance

import "errors"

var (
	ErrInvalidEmployeeID = errors.New("attendance: invalid employee id")
	ErrInvalidDate       = errors.New("attendance: invalid date")
	ErrInvalidClockTime  = errors.New("attendance: invalid clock time")
	ErrInvalidDelay      = errors.New("attendance: invalid delay minutes")
	ErrInvalidStatus     = errors.New("attendance: invalid status")
)
