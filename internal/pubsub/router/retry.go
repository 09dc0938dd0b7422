package router

import (
	"net"

	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/socialdesk/socialdesk/internal/logger"
)

// shouldRetry reports whether a failed message is worth redelivering.
// Only local infrastructure failures are retried, calls to third parties are not.
func shouldRetry(logger *logger.Logger, err error) bool {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		logger.Debugw("retrying due to network timeout", "error", netErr)
		return true
	}

	if ierr.IsDatabase(err) {
		return true
	}

	return false
}
