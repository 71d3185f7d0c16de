package attendance

import "errors"

var (
	ErrSessionNotFound      = errors.New("attendance session not found")
	ErrSessionAlreadyClosed = errors.New("attendance session already clocked out")
	ErrSessionAlreadyOpen   = errors.New("an attendance session is already open")
	ErrClockOutBeforeIn     = errors.New("clock-out must not be earlier than clock-in")
)
