package contract

import (
	"fmt"

	"proposalregistry/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Query Functions ---

// GetProposal returns the proposal stored under proposalID.
func (s *ProposalRegistryContract) GetProposal(ctx contractapi.TransactionContextInterface, proposalID uint64) (*model.Proposal, error) {
	logger.Debugf("GetProposal: querying proposal %d", proposalID)
	proposal, err := getProposalByID(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("GetProposal: %w", err)
	}
	return proposal, nil
}

// HasVoted reports whether voter has voted on proposalID.
func (s *ProposalRegistryContract) HasVoted(ctx contractapi.TransactionContextInterface, proposalID uint64, voter string) (bool, error) {
	logger.Debugf("HasVoted: querying proposal %d for voter '%s'", proposalID, voter)
	if _, err := getProposalByID(ctx, proposalID); err != nil {
		return false, fmt.Errorf("HasVoted: %w", err)
	}
	if voter == "" {
		return false, nil
	}
	voted, err := hasVoted(ctx, proposalID, voter)
	if err != nil {
		return false, fmt.Errorf("HasVoted: %w", err)
	}
	return voted, nil
}

// GetProposalCount returns the highest proposal ID issued so far.
func (s *ProposalRegistryContract) GetProposalCount(ctx contractapi.TransactionContextInterface) (uint64, error) {
	count, err := getProposalCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("GetProposalCount: %w", err)
	}
	return count, nil
}
