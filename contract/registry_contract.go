package contract

import (
	"encoding/json"
	"fmt"
	"math"

	"proposalregistry/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var logger = flogging.MustGetLogger("proposalregistry.contract")

// Object types for composite keys, also stored as 'objectType' in the JSON values.
const (
	proposalObjectType = "Proposal"        // Attribute: proposal ID.
	voteObjectType     = "Vote"            // Attributes: proposal ID, voter ID.
	configObjectType   = "RegistryConfig"  // No attributes, single record.
	counterObjectType  = "ProposalCounter" // No attributes, highest issued proposal ID.
)

// Durations above this cannot be added to a Unix timestamp without overflow.
const maxDurationSeconds = math.MaxUint64 / 4

// ProposalRegistryContract manages time-boxed proposals and their votes.
// @contract:ProposalRegistryContract
type ProposalRegistryContract struct {
	contractapi.Contract
}

// Instantiate is called during chaincode instantiation.
func (s *ProposalRegistryContract) Instantiate(ctx contractapi.TransactionContextInterface) {
	logger.Info("ProposalRegistryContract Instantiated/Upgraded")
}

// InitLedger configures the registry with the reference deployment parameters.
func (s *ProposalRegistryContract) InitLedger(ctx contractapi.TransactionContextInterface) error {
	cfg := model.DefaultRegistryConfig()
	logger.Info("Chaincode Call: InitLedger with default registry config")
	return s.initialize(ctx, cfg)
}

// Initialize configures the registry. It can run only once per ledger; the
// parameters apply to every proposal for the lifetime of the registry.
func (s *ProposalRegistryContract) Initialize(ctx contractapi.TransactionContextInterface,
	votingDuration uint64, minimumVoteThreshold uint64, waitingDelay uint64) error {

	logger.Infof("Chaincode Call: Initialize votingDuration=%ds threshold=%d waitingDelay=%ds",
		votingDuration, minimumVoteThreshold, waitingDelay)
	return s.initialize(ctx, model.RegistryConfig{
		VotingDuration:       votingDuration,
		MinimumVoteThreshold: minimumVoteThreshold,
		WaitingDelay:         waitingDelay,
	})
}

func (s *ProposalRegistryContract) initialize(ctx contractapi.TransactionContextInterface, cfg model.RegistryConfig) error {
	if cfg.VotingDuration > maxDurationSeconds || cfg.WaitingDelay > maxDurationSeconds {
		return fmt.Errorf("Initialize: %w: durations must not exceed %d seconds", ErrInvalidConfig, uint64(maxDurationSeconds))
	}

	initializer, err := getCallerID(ctx)
	if err != nil {
		return fmt.Errorf("Initialize: failed to get caller identity: %w", err)
	}

	configKey, err := ctx.GetStub().CreateCompositeKey(configObjectType, []string{})
	if err != nil {
		return fmt.Errorf("Initialize: failed to create config key: %w", err)
	}
	existing, err := ctx.GetStub().GetState(configKey)
	if err != nil {
		return fmt.Errorf("Initialize: failed to check for existing config: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("Initialize: %w", ErrAlreadyInitialized)
	}

	cfg.ObjectType = configObjectType
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("Initialize: failed to marshal registry config: %w", err)
	}
	if err := ctx.GetStub().PutState(configKey, cfgBytes); err != nil {
		return fmt.Errorf("Initialize: failed to save registry config: %w", err)
	}

	event := model.RegistryInitializedEvent{
		VotingDuration:       cfg.VotingDuration,
		MinimumVoteThreshold: cfg.MinimumVoteThreshold,
		WaitingDelay:         cfg.WaitingDelay,
		Initializer:          initializer,
	}
	if err := emitEvent(ctx, model.EventRegistryInitialized, event); err != nil {
		return fmt.Errorf("Initialize: %w", err)
	}
	logger.Infof("Registry initialized by '%s': votingDuration=%ds threshold=%d waitingDelay=%ds",
		initializer, cfg.VotingDuration, cfg.MinimumVoteThreshold, cfg.WaitingDelay)
	return nil
}

// GetRegistryConfig returns the parameters the registry was initialized with.
func (s *ProposalRegistryContract) GetRegistryConfig(ctx contractapi.TransactionContextInterface) (*model.RegistryConfig, error) {
	logger.Debug("Chaincode Call: GetRegistryConfig")
	return getRegistryConfig(ctx)
}

// GetCallerIdentity returns the identity votes by the caller are recorded under.
func (s *ProposalRegistryContract) GetCallerIdentity(ctx contractapi.TransactionContextInterface) (string, error) {
	return getCallerID(ctx)
}
