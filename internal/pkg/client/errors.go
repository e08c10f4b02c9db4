package client

import "github.com/pkg/errors"

// ErrNotConnected indicates that Connect has not been called or the connection was closed.
var ErrNotConnected = errors.New("not connected")

// ErrUnexpectedResponse indicates that the server answered with a status the command does not expect.
var ErrUnexpectedResponse = errors.New("unexpected response")
