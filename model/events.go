package model

// Chaincode event names. Fabric keeps one event per transaction, and every
// registry transaction emits at most one.
const (
	EventRegistryInitialized = "RegistryInitialized"
	EventProposalCreated     = "ProposalCreated"
	EventVoted               = "Voted"
	EventExecuted            = "Executed"
)

// ProposalCreatedEvent is the payload of EventProposalCreated.
type ProposalCreatedEvent struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Creator string `json:"creator"`
}

// VotedEvent is the payload of EventVoted.
type VotedEvent struct {
	ID    uint64 `json:"id"`
	Voter string `json:"voter"`
}

// ExecutedEvent is the payload of EventExecuted.
type ExecutedEvent struct {
	ID       uint64 `json:"id"`
	Executor string `json:"executor"`
}

// RegistryInitializedEvent is the payload of EventRegistryInitialized.
type RegistryInitializedEvent struct {
	VotingDuration       uint64 `json:"votingDuration"`
	MinimumVoteThreshold uint64 `json:"minimumVoteThreshold"`
	WaitingDelay         uint64 `json:"waitingDelay"`
	Initializer          string `json:"initializer"`
}
