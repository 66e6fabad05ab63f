package push

import "errors"

var (
	errClosed       = errors.New("push: manager is closed")
	errNotConnected = errors.New("push: connection is not established")
)
