package contract

import (
	"encoding/json"
	"errors"
	"fmt"

	"proposalregistry/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Lifecycle: Proposal Operations ---
// Each operation checks all of its preconditions before the first write, so a
// rejected call leaves no state and no event behind.

// CreateProposal issues the next sequential proposal ID and opens a voting
// window that starts waitingDelay after now and lasts votingDuration.
func (s *ProposalRegistryContract) CreateProposal(ctx contractapi.TransactionContextInterface, title string) (uint64, error) {
	creator, err := getCallerID(ctx)
	if err != nil {
		return 0, fmt.Errorf("CreateProposal: failed to get caller identity: %w", err)
	}
	cfg, err := getRegistryConfig(ctx)
	if err != nil {
		return 0, fmt.Errorf("CreateProposal: %w", err)
	}
	now, err := getCurrentTxTimestamp(ctx)
	if err != nil {
		return 0, fmt.Errorf("CreateProposal: %w", err)
	}
	count, err := getProposalCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("CreateProposal: %w", err)
	}

	startTime := now + cfg.WaitingDelay
	proposal := model.Proposal{
		ObjectType:    proposalObjectType,
		ID:            count + 1,
		Title:         title,
		Creator:       creator,
		VoteCount:     0,
		Status:        model.StatusPending,
		StartTime:     startTime,
		EndTime:       startTime + cfg.VotingDuration,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := putProposal(ctx, &proposal); err != nil {
		return 0, fmt.Errorf("CreateProposal: %w", err)
	}
	if err := putProposalCount(ctx, proposal.ID); err != nil {
		return 0, fmt.Errorf("CreateProposal: %w", err)
	}
	event := model.ProposalCreatedEvent{ID: proposal.ID, Title: proposal.Title, Creator: creator}
	if err := emitEvent(ctx, model.EventProposalCreated, event); err != nil {
		return 0, fmt.Errorf("CreateProposal: %w", err)
	}

	logger.Infof("Proposal %d created by '%s': window [%d, %d]", proposal.ID, creator, proposal.StartTime, proposal.EndTime)
	return proposal.ID, nil
}

// Vote records the caller's vote on a proposal. The checks run in a fixed
// order: already voted, unknown proposal, window not open, window closed.
func (s *ProposalRegistryContract) Vote(ctx contractapi.TransactionContextInterface, proposalID uint64) error {
	voter, err := getCallerID(ctx)
	if err != nil {
		return fmt.Errorf("Vote: failed to get caller identity: %w", err)
	}

	voted, err := hasVoted(ctx, proposalID, voter)
	if err != nil {
		return fmt.Errorf("Vote: %w", err)
	}
	if voted {
		logger.Debugf("Vote: '%s' already voted on proposal %d", voter, proposalID)
		return fmt.Errorf("Vote: %w: '%s' on proposal %d", ErrAlreadyVoted, voter, proposalID)
	}

	proposal, err := getProposalByID(ctx, proposalID)
	if err != nil {
		return fmt.Errorf("Vote: %w", err)
	}

	now, err := getCurrentTxTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("Vote: %w", err)
	}
	if now < proposal.StartTime {
		return fmt.Errorf("Vote: %w: proposal %d opens at %d, now %d", ErrVotingNotStarted, proposalID, proposal.StartTime, now)
	}
	if now > proposal.EndTime {
		return fmt.Errorf("Vote: %w: proposal %d closed at %d, now %d", ErrVotingEnded, proposalID, proposal.EndTime, now)
	}
	// Execution is allowed from endTime and voting until endTime, so a vote can
	// land on an EXECUTED proposal in that second. It counts; the status stays.
	if proposal.Status.CanTransitionTo(model.StatusActive) {
		proposal.Status = model.StatusActive
	}
	proposal.VoteCount++
	proposal.LastUpdatedAt = now

	voteKey, err := createVoteCompositeKey(ctx, proposalID, voter)
	if err != nil {
		return fmt.Errorf("Vote: failed to create vote key for proposal %d: %w", proposalID, err)
	}
	record := model.VoteRecord{ObjectType: voteObjectType, ProposalID: proposalID, Voter: voter, VotedAt: now}
	recordBytes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("Vote: failed to marshal vote record: %w", err)
	}
	if err := ctx.GetStub().PutState(voteKey, recordBytes); err != nil {
		return fmt.Errorf("Vote: failed to save vote record for proposal %d: %w", proposalID, err)
	}
	if err := putProposal(ctx, proposal); err != nil {
		return fmt.Errorf("Vote: %w", err)
	}
	if err := emitEvent(ctx, model.EventVoted, model.VotedEvent{ID: proposalID, Voter: voter}); err != nil {
		return fmt.Errorf("Vote: %w", err)
	}

	logger.Infof("Vote by '%s' on proposal %d accepted, count now %d", voter, proposalID, proposal.VoteCount)
	return nil
}

// ExecuteProposal marks a proposal EXECUTED once its window has closed and it
// has reached the vote threshold. Executing an EXECUTED proposal again is
// allowed while the gate still holds.
func (s *ProposalRegistryContract) ExecuteProposal(ctx contractapi.TransactionContextInterface, proposalID uint64) error {
	executor, err := getCallerID(ctx)
	if err != nil {
		return fmt.Errorf("ExecuteProposal: failed to get caller identity: %w", err)
	}
	cfg, err := getRegistryConfig(ctx)
	if err != nil {
		return fmt.Errorf("ExecuteProposal: %w", err)
	}

	proposal, err := getProposalByID(ctx, proposalID)
	if errors.Is(err, ErrNoProposal) {
		// A proposal that was never issued has no window and no votes, so it
		// never passes the gate. Nothing is written for it.
		return fmt.Errorf("ExecuteProposal: %w: %v", ErrProposalNotExecutable, err)
	}
	if err != nil {
		return fmt.Errorf("ExecuteProposal: %w", err)
	}

	now, err := getCurrentTxTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("ExecuteProposal: %w", err)
	}
	if now < proposal.EndTime || proposal.VoteCount < cfg.MinimumVoteThreshold {
		logger.Debugf("ExecuteProposal: proposal %d rejected (now %d, end %d, votes %d, threshold %d)",
			proposalID, now, proposal.EndTime, proposal.VoteCount, cfg.MinimumVoteThreshold)
		return fmt.Errorf("ExecuteProposal: %w: proposal %d has %d/%d votes, window ends at %d, now %d",
			ErrProposalNotExecutable, proposalID, proposal.VoteCount, cfg.MinimumVoteThreshold, proposal.EndTime, now)
	}
	if err := transitionStatus(proposal, model.StatusExecuted); err != nil {
		return fmt.Errorf("ExecuteProposal: %w", err)
	}
	proposal.LastUpdatedAt = now

	if err := putProposal(ctx, proposal); err != nil {
		return fmt.Errorf("ExecuteProposal: %w", err)
	}
	if err := emitEvent(ctx, model.EventExecuted, model.ExecutedEvent{ID: proposalID, Executor: executor}); err != nil {
		return fmt.Errorf("ExecuteProposal: %w", err)
	}

	logger.Infof("Proposal %d executed by '%s'", proposalID, executor)
	return nil
}
