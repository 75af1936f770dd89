package repository

import "errors"

// ErrStaleStatus is returned when a conditional update matched no row because the
// record moved on since it was read
var ErrStaleStatus = errors.New("record state changed concurrently")
