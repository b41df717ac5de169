package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/hrsync/internal/core/attendance"
	"github.com/ogurasousui/hrsync/internal/core/employee"
	"github.com/ogurasousui/hrsync/internal/core/settings"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidSalary),
		errors.Is(err, employee.ErrInvalidJoinDate),
		errors.Is(err, attendance.ErrInvalidEmployeeID),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, attendance.ErrInvalidClockTime),
		errors.Is(err, attendance.ErrInvalidDelay),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, settings.ErrInvalidCompanyName),
		errors.Is(err, settings.ErrInvalidCurrency),
		errors.Is(err, settings.ErrInvalidWorkingHours),
		errors.Is(err, settings.ErrInvalidAccountingPeriod):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
