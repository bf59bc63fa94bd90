package stream

import (
	"errors"
	"fmt"
)

var (
	ErrNotYourFile   = errors.New("file does not belong to this user")
	ErrNotStreamable = errors.New("folders cannot be streamed")
	ErrBadLocation   = errors.New("file record has malformed location metadata")
	ErrBadConfig     = errors.New("storage configuration has malformed credentials")
)

// DeniedError carries the authorization denial reason to the transport
// layer, which surfaces it as a 403 body.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}
