package game

import (
	"errors"

	"github.com/hailam/chessarbiter/internal/board"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrDeadlineExceeded = errors.New("deadline exceeded")
)

// codes maps sentinel errors to the reason codes reported to callers.
var codes = []struct {
	err  error
	code string
}{
	{board.ErrNoSuchPiece, "NoSuchPiece"},
	{board.ErrWrongColor, "WrongColor"},
	{board.ErrFriendlyFire, "FriendlyFire"},
	{board.ErrCaptureMismatch, "CaptureMismatch"},
	{board.ErrIllegalPath, "IllegalPath"},
	{board.ErrIllegalCastle, "IllegalCastle"},
	{board.ErrIllegalEnPassant, "IllegalEnPassant"},
	{board.ErrIllegalPromotion, "IllegalPromotion"},
	{board.ErrLeavesKingInCheck, "LeavesKingInCheck"},
	{board.ErrGameOver, "GameOver"},
	{ErrInvalidRequest, "InvalidRequest"},
	{ErrDeadlineExceeded, "DeadlineExceeded"},
}

// Code returns the stable reason code for err: "Ok" for nil, "Internal"
// for anything not produced by the engine or the dispatcher.
func Code(err error) string {
	if err == nil {
		return "Ok"
	}
	var pe *board.ParseError
	if errors.As(err, &pe) {
		return "ParseError"
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "Internal"
}
