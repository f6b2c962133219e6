package contract

import "errors"

// Rejections raised by the registry. Callers match them with errors.Is; the
// returned errors wrap these with the proposal and caller involved.
var (
	ErrAlreadyVoted          = errors.New("already voted")
	ErrNoProposal            = errors.New("no such proposal")
	ErrVotingNotStarted      = errors.New("voting has not started")
	ErrVotingEnded           = errors.New("voting has ended")
	ErrProposalNotExecutable = errors.New("proposal not executable")

	ErrAlreadyInitialized = errors.New("registry already initialized")
	ErrNotInitialized     = errors.New("registry not initialized")
	ErrInvalidConfig      = errors.New("invalid registry config")
)
