package model

// ProposalStatus defines the possible states of a proposal.
type ProposalStatus string

const (
	StatusPending  ProposalStatus = "PENDING"  // Created, no accepted vote yet
	StatusActive   ProposalStatus = "ACTIVE"   // At least one accepted vote
	StatusExecuted ProposalStatus = "EXECUTED" // Quorum and window gates passed, terminal
)

var statusRank = map[ProposalStatus]int{
	StatusPending:  0,
	StatusActive:   1,
	StatusExecuted: 2,
}

// IsValid reports whether s is one of the known statuses.
func (s ProposalStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether a proposal in status s may move to next.
// Statuses only move forward; repeating the current status is allowed.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	if !okFrom || !okTo {
		return false
	}
	return to >= from
}

// Proposal is a vote-able record with a fixed voting window and a running tally.
// Times are Unix seconds taken from the transaction timestamp.
type Proposal struct {
	ObjectType    string         `json:"objectType"` // "Proposal"
	ID            uint64         `json:"id"`
	Title         string         `json:"title"`
	Creator       string         `json:"creator"`
	VoteCount     uint64         `json:"voteCount"`
	Status        ProposalStatus `json:"status"`
	StartTime     uint64         `json:"startTime"` // createdAt + waitingDelay
	EndTime       uint64         `json:"endTime"`   // startTime + votingDuration
	CreatedAt     uint64         `json:"createdAt"`
	LastUpdatedAt uint64         `json:"lastUpdatedAt"`
}

// RegistryConfig holds the parameters fixed when the registry is initialized.
// Durations are in seconds.
type RegistryConfig struct {
	ObjectType           string `json:"objectType"` // "RegistryConfig"
	VotingDuration       uint64 `json:"votingDuration"`
	MinimumVoteThreshold uint64 `json:"minimumVoteThreshold"`
	WaitingDelay         uint64 `json:"waitingDelay"`
}

// DefaultRegistryConfig returns the parameters used by the reference deployment:
// a two hour voting window opening ten minutes after creation, with a quorum of five.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		VotingDuration:       2 * 60 * 60,
		MinimumVoteThreshold: 5,
		WaitingDelay:         10 * 60,
	}
}

// VoteRecord marks that a voter has voted on a proposal. Write-once.
type VoteRecord struct {
	ObjectType string `json:"objectType"` // "Vote"
	ProposalID uint64 `json:"proposalId"`
	Voter      string `json:"voter"`
	VotedAt    uint64 `json:"votedAt"`
}
