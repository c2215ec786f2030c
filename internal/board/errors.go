package board

import (
	"errors"
	"fmt"
)

// Move rejections. Every one leaves the board untouched.
var (
	ErrNoSuchPiece       = errors.New("no such piece")
	ErrWrongColor        = errors.New("wrong color")
	ErrFriendlyFire      = errors.New("friendly fire")
	ErrCaptureMismatch   = errors.New("capture mismatch")
	ErrIllegalPath       = errors.New("illegal path")
	ErrIllegalCastle     = errors.New("illegal castle")
	ErrIllegalEnPassant  = errors.New("illegal en passant")
	ErrIllegalPromotion  = errors.New("illegal promotion")
	ErrLeavesKingInCheck = errors.New("leaves king in check")
	ErrGameOver          = errors.New("game over")
)

// ParseError reports a malformed square or piece code.
type ParseError struct {
	Kind  string // "square", "piece" or "fen"
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Input)
}
