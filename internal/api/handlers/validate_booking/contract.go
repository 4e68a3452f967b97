package validate_booking

import (
	"context"

	validateBooking "github.com/m04kA/TMS-SchedulingService/internal/usecase/validate_booking"
)

type ValidateBookingUseCase interface {
	Execute(ctx context.Context, req *validateBooking.Request) (*validateBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
