package game

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room full")
	ErrNotAccepting   = errors.New("room not accepting guests")
	ErrBadFirstPacket = errors.New("expected join as first packet")
)
