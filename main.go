package main

import (
	"os"

	"proposalregistry/config"
	"proposalregistry/contract"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var logger = flogging.MustGetLogger("proposalregistry")

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic("Error loading chaincode config: " + err.Error())
	}
	if err := flogging.Global.ActivateSpec(cfg.LoggingSpec); err != nil {
		logger.Warningf("Invalid logging spec %q, keeping defaults: %v", cfg.LoggingSpec, err)
	}
	if cfg.EnvFileLoaded != "" {
		logger.Infof("Loaded chaincode settings from %s", cfg.EnvFileLoaded)
	}

	cc, err := contractapi.NewChaincode(&contract.ProposalRegistryContract{})
	if err != nil {
		panic("Error creating ProposalRegistryContract: " + err.Error())
	}

	if !cfg.ExternalServer() {
		if err := cc.Start(); err != nil {
			panic("Error starting chaincode: " + err.Error())
		}
		return
	}

	tlsProps, err := loadTLSProperties(cfg)
	if err != nil {
		panic("Error loading chaincode TLS material: " + err.Error())
	}
	server := &shim.ChaincodeServer{
		CCID:     cfg.CCID,
		Address:  cfg.Address,
		CC:       cc,
		TLSProps: tlsProps,
	}
	logger.Infof("Starting chaincode server %s on %s", cfg.CCID, cfg.Address)
	if err := server.Start(); err != nil {
		panic("Error starting chaincode server: " + err.Error())
	}
}

func loadTLSProperties(cfg config.Config) (shim.TLSProperties, error) {
	if cfg.TLSDisabled {
		return shim.TLSProperties{Disabled: true}, nil
	}
	key, err := os.ReadFile(cfg.TLSKeyFile)
	if err != nil {
		return shim.TLSProperties{}, err
	}
	cert, err := os.ReadFile(cfg.TLSCertFile)
	if err != nil {
		return shim.TLSProperties{}, err
	}
	var clientCA []byte
	if cfg.TLSClientCA != "" {
		if clientCA, err = os.ReadFile(cfg.TLSClientCA); err != nil {
			return shim.TLSProperties{}, err
		}
	}
	return shim.TLSProperties{Disabled: false, Key: key, Cert: cert, ClientCACerts: clientCA}, nil
}
