package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy for the sync layer. Every public operation either returns a
// result or an error wrapping exactly one of these sentinels.
var (
	// ErrRemoteRead reports a failed or malformed ledger read.
	ErrRemoteRead = errors.New("remote read failed")
	// ErrRemoteWrite reports a write call that failed, reverted or was not confirmed.
	ErrRemoteWrite = errors.New("remote write failed")
	// ErrNotAuthorized reports a caller lacking the admin role.
	ErrNotAuthorized = errors.New("caller is not an admin")
	// ErrInvalidArgument reports a client-side precondition violated before any remote call.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a ledger-side miss for the target campaign id.
	ErrNotFound = errors.New("campaign not found")
)

func remoteReadErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteRead, op, err)
}

// classifyWriteErr maps a ledger write failure onto the taxonomy. Existence is
// enforced remotely; a fault naming an unknown target is surfaced as ErrNotFound.
func classifyWriteErr(op string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist") || strings.Contains(msg, "invalid campaign") {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrRemoteWrite, op, err)
}
