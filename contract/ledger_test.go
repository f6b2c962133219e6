package contract

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	alice = "x509::CN=alice,OU=client::CN=ca.org1.example.com"
	bob   = "x509::CN=bob,OU=client::CN=ca.org1.example.com"
	carol = "x509::CN=carol,OU=client::CN=ca.org1.example.com"
)

// fakeClientIdentity satisfies cid.ClientIdentity with a fixed ID.
type fakeClientIdentity struct {
	id    string
	mspID string
}

func (f *fakeClientIdentity) GetID() (string, error)    { return f.id, nil }
func (f *fakeClientIdentity) GetMSPID() (string, error) { return f.mspID, nil }
func (f *fakeClientIdentity) GetAttributeValue(string) (string, bool, error) {
	return "", false, nil
}
func (f *fakeClientIdentity) AssertAttributeValue(string, string) error { return nil }
func (f *fakeClientIdentity) GetX509Certificate() (*x509.Certificate, error) {
	return nil, nil
}

// testLedger drives the contract against a MockStub, one transaction per call
// to tx, with the transaction timestamp under test control.
type testLedger struct {
	t        *testing.T
	stub     *shimtest.MockStub
	contract *ProposalRegistryContract
	txSeq    int
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()
	return &testLedger{
		t:        t,
		stub:     shimtest.NewMockStub("proposalregistry", nil),
		contract: new(ProposalRegistryContract),
	}
}

// newInitializedLedger returns a ledger configured with the given parameters at t=0.
func newInitializedLedger(t *testing.T, votingDuration, threshold, waitingDelay uint64) *testLedger {
	t.Helper()
	l := newTestLedger(t)
	require.NoError(t, l.contract.Initialize(l.tx(0, alice), votingDuration, threshold, waitingDelay))
	l.drainEvents()
	return l
}

// tx starts a new mock transaction at Unix second `at` invoked by caller.
func (l *testLedger) tx(at uint64, caller string) contractapi.TransactionContextInterface {
	l.txSeq++
	l.stub.MockTransactionStart(fmt.Sprintf("tx-%d", l.txSeq))
	l.stub.TxTimestamp = timestamppb.New(time.Unix(int64(at), 0))

	ctx := new(contractapi.TransactionContext)
	ctx.SetStub(l.stub)
	ctx.SetClientIdentity(&fakeClientIdentity{id: caller, mspID: "Org1MSP"})
	return ctx
}

type recordedEvent struct {
	name    string
	payload []byte
}

func (l *testLedger) drainEvents() []recordedEvent {
	var events []recordedEvent
	for {
		select {
		case ev := <-l.stub.ChaincodeEventsChannel:
			events = append(events, recordedEvent{name: ev.EventName, payload: ev.Payload})
		default:
			return events
		}
	}
}

// requireSingleEvent asserts exactly one event was emitted since the last drain
// and decodes its payload into out.
func (l *testLedger) requireSingleEvent(name string, out interface{}) {
	l.t.Helper()
	events := l.drainEvents()
	require.Len(l.t, events, 1)
	require.Equal(l.t, name, events[0].name)
	require.NoError(l.t, json.Unmarshal(events[0].payload, out))
}

func (l *testLedger) requireNoEvent() {
	l.t.Helper()
	require.Empty(l.t, l.drainEvents())
}

// snapshot copies the raw world state so tests can assert a rejected call wrote nothing.
func (l *testLedger) snapshot() map[string]string {
	state := make(map[string]string, len(l.stub.State))
	for k, v := range l.stub.State {
		state[k] = string(v)
	}
	return state
}
