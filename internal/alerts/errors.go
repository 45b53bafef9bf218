package alerts

import "errors"

var (
	ErrDeliveryFailed = errors.New("alert delivery failed")
	ErrQueueFull      = errors.New("alert queue full")
	ErrStopped        = errors.New("alert dispatcher stopped")
)
