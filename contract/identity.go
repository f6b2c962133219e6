package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var idLogger = flogging.MustGetLogger("proposalregistry.identity")

func isValidX509ID(id string) bool {
	// "eDUwOTo6" is "x509::" base64 encoded, which is what cid.GetID returns.
	return strings.HasPrefix(id, "x509::") || strings.HasPrefix(id, "eDUwOTo6")
}

// getCallerID returns the identity the registry records for the transaction invoker.
// The registry does not resolve it any further; it is compared as an opaque string.
func getCallerID(ctx contractapi.TransactionContextInterface) (string, error) {
	clientIdentity := ctx.GetClientIdentity()
	if clientIdentity == nil {
		return "", errors.New("client identity is nil from context")
	}
	id, err := clientIdentity.GetID()
	if err != nil {
		return "", fmt.Errorf("failed to get client identity ID from context: %w", err)
	}
	if id == "" {
		return "", errors.New("client identity ID from context is empty")
	}
	if !isValidX509ID(id) {
		idLogger.Debugf("Caller ID '%s' does not appear to be a standard X.509 ID.", id)
	}
	return id, nil
}
