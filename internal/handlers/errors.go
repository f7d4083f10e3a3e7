package handlers

import "errors"

var (
	errGameNotFound       = errors.New("game not found")
	errNotYourTurn        = errors.New("not your turn")
	errUnknownMessageType = errors.New("unknown message type")
)
