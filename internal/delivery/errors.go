package delivery

import (
	"errors"
	"fmt"
)

var (
	ErrDroneNotReady     = errors.New("drone not ready")
	ErrNotDelivering     = errors.New("order is not being delivered")
	ErrOutOfRange        = errors.New("drone is not close enough to confirm")
	ErrNotCancellable    = errors.New("only pending orders can be cancelled")
	ErrPartialCompletion = errors.New("partial completion: drone flight not marked complete")
)

// ConfirmError reports a confirmation where at least one of the two backend
// calls failed. Neither call is undone, so when only DroneErr is set the
// backend holds a completed order whose drone still flies.
type ConfirmError struct {
	OrderID  string
	DroneID  string
	OrderErr error
	DroneErr error
}

func (e *ConfirmError) Error() string {
	switch {
	case e.OrderErr != nil && e.DroneErr != nil:
		return fmt.Sprintf("confirm order %s: order: %v; drone %s: %v", e.OrderID, e.OrderErr, e.DroneID, e.DroneErr)
	case e.OrderErr != nil:
		return fmt.Sprintf("confirm order %s: order: %v", e.OrderID, e.OrderErr)
	default:
		return fmt.Sprintf("confirm order %s: %s: drone %s: %v", e.OrderID, ErrPartialCompletion, e.DroneID, e.DroneErr)
	}
}

// Is matches ErrPartialCompletion when the order call went through but the
// drone call did not.
func (e *ConfirmError) Is(target error) bool {
	return target == ErrPartialCompletion && e.OrderErr == nil && e.DroneErr != nil
}

func (e *ConfirmError) Unwrap() []error {
	var errs []error
	if e.OrderErr != nil {
		errs = append(errs, e.OrderErr)
	}
	if e.DroneErr != nil {
		errs = append(errs, e.DroneErr)
	}
	return errs
}
