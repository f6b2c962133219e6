package contract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"proposalregistry/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// getCurrentTxTimestamp returns the transaction timestamp in Unix seconds.
// Every endorser sees the same value, so it is the registry's only clock.
func getCurrentTxTimestamp(ctx contractapi.TransactionContextInterface) (uint64, error) {
	ts, err := ctx.GetStub().GetTxTimestamp()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction timestamp: %w", err)
	}
	if ts == nil || ts.GetSeconds() < 0 {
		return 0, fmt.Errorf("invalid transaction timestamp %v", ts)
	}
	return uint64(ts.GetSeconds()), nil
}

func createProposalCompositeKey(ctx contractapi.TransactionContextInterface, proposalID uint64) (string, error) {
	return ctx.GetStub().CreateCompositeKey(proposalObjectType, []string{strconv.FormatUint(proposalID, 10)})
}

func createVoteCompositeKey(ctx contractapi.TransactionContextInterface, proposalID uint64, voter string) (string, error) {
	return ctx.GetStub().CreateCompositeKey(voteObjectType, []string{strconv.FormatUint(proposalID, 10), voter})
}

// getRegistryConfig reads the config written by Initialize.
func getRegistryConfig(ctx contractapi.TransactionContextInterface) (*model.RegistryConfig, error) {
	configKey, err := ctx.GetStub().CreateCompositeKey(configObjectType, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create config key: %w", err)
	}
	cfgBytes, err := ctx.GetStub().GetState(configKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry config: %w", err)
	}
	if cfgBytes == nil {
		return nil, ErrNotInitialized
	}
	var cfg model.RegistryConfig
	if err := json.Unmarshal(cfgBytes, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry config: %w", err)
	}
	return &cfg, nil
}

// getProposalCount returns the highest issued proposal ID, 0 before the first proposal.
func getProposalCount(ctx contractapi.TransactionContextInterface) (uint64, error) {
	counterKey, err := ctx.GetStub().CreateCompositeKey(counterObjectType, []string{})
	if err != nil {
		return 0, fmt.Errorf("failed to create proposal counter key: %w", err)
	}
	counterBytes, err := ctx.GetStub().GetState(counterKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read proposal counter: %w", err)
	}
	if counterBytes == nil {
		return 0, nil
	}
	count, err := strconv.ParseUint(string(counterBytes), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt proposal counter '%s': %w", string(counterBytes), err)
	}
	return count, nil
}

func putProposalCount(ctx contractapi.TransactionContextInterface, count uint64) error {
	counterKey, err := ctx.GetStub().CreateCompositeKey(counterObjectType, []string{})
	if err != nil {
		return fmt.Errorf("failed to create proposal counter key: %w", err)
	}
	if err := ctx.GetStub().PutState(counterKey, []byte(strconv.FormatUint(count, 10))); err != nil {
		return fmt.Errorf("failed to save proposal counter: %w", err)
	}
	return nil
}

// getProposalByID loads a proposal, failing with ErrNoProposal when proposalID
// is 0 or greater than the highest issued ID.
func getProposalByID(ctx contractapi.TransactionContextInterface, proposalID uint64) (*model.Proposal, error) {
	count, err := getProposalCount(ctx)
	if err != nil {
		return nil, err
	}
	if proposalID == 0 || proposalID > count {
		return nil, fmt.Errorf("%w: id %d (highest issued %d)", ErrNoProposal, proposalID, count)
	}

	proposalKey, err := createProposalCompositeKey(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to create key for proposal %d: %w", proposalID, err)
	}
	proposalBytes, err := ctx.GetStub().GetState(proposalKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read proposal %d from ledger: %w", proposalID, err)
	}
	if proposalBytes == nil {
		// The counter says it was issued, so the record is missing from state.
		return nil, fmt.Errorf("%w: record for id %d missing from state", ErrNoProposal, proposalID)
	}

	var proposal model.Proposal
	if err := json.Unmarshal(proposalBytes, &proposal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proposal %d: %w", proposalID, err)
	}
	return &proposal, nil
}

func putProposal(ctx contractapi.TransactionContextInterface, proposal *model.Proposal) error {
	proposalKey, err := createProposalCompositeKey(ctx, proposal.ID)
	if err != nil {
		return fmt.Errorf("failed to create key for proposal %d: %w", proposal.ID, err)
	}
	proposalBytes, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal %d: %w", proposal.ID, err)
	}
	if err := ctx.GetStub().PutState(proposalKey, proposalBytes); err != nil {
		return fmt.Errorf("failed to save proposal %d to ledger: %w", proposal.ID, err)
	}
	return nil
}

// hasVoted reports whether a vote record exists for (proposalID, voter).
// It does not check that the proposal exists.
func hasVoted(ctx contractapi.TransactionContextInterface, proposalID uint64, voter string) (bool, error) {
	voteKey, err := createVoteCompositeKey(ctx, proposalID, voter)
	if err != nil {
		return false, fmt.Errorf("failed to create vote key for proposal %d: %w", proposalID, err)
	}
	voteBytes, err := ctx.GetStub().GetState(voteKey)
	if err != nil {
		return false, fmt.Errorf("failed to read vote record for proposal %d: %w", proposalID, err)
	}
	return voteBytes != nil, nil
}

// transitionStatus moves proposal to next, refusing backward moves.
func transitionStatus(proposal *model.Proposal, next model.ProposalStatus) error {
	if !proposal.Status.CanTransitionTo(next) {
		return fmt.Errorf("proposal %d cannot move from status '%s' to '%s'", proposal.ID, proposal.Status, next)
	}
	proposal.Status = next
	return nil
}

// emitEvent sets the transaction's chaincode event. Fabric keeps only the
// last event set in a transaction.
func emitEvent(ctx contractapi.TransactionContextInterface, eventName string, payload interface{}) error {
	eventBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for event '%s': %w", eventName, err)
	}
	if err := ctx.GetStub().SetEvent(eventName, eventBytes); err != nil {
		logger.Warningf("emitEvent: failed to set event '%s': %v", eventName, err)
		return fmt.Errorf("failed to set event '%s': %w", eventName, err)
	}
	return nil
}
