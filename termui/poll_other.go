//go:build !linux && !darwin

package termui

import (
	"errors"
	"time"
)

func pollInput(fd int, timeout time.Duration) (bool, error) {
	return false, errors.New("terminal input is not supported on this platform")
}
