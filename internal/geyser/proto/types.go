// Package proto defines the Geyser streaming subscription's wire types: the
// subscribe request and the SubscribeUpdate sum type
// (Account/Slot/Transaction/TransactionStatus/Entry/BlockMeta/Block/Ping/Pong)
// the upstream yellowstone-grpc-shaped feed pushes. The client consumes only
// a small slice of that schema, so this package hand-authors the fields it
// actually reads, encoded with the google.golang.org/protobuf wire-format
// primitives in wire.go, instead of carrying full generated bindings.
package proto

// CommitmentLevel mirrors the subset of Solana commitment levels the
// subscription can pin. The robot's own subscription always leaves this
// unset (no commitment override).
type CommitmentLevel int32

const (
	CommitmentProcessed CommitmentLevel = 0
	CommitmentConfirmed CommitmentLevel = 1
	CommitmentFinalized CommitmentLevel = 2
)

// SubscribeRequestFilterTransactions selects which transactions a
// subscription slot receives. An empty value matches everything.
type SubscribeRequestFilterTransactions struct {
	Vote           bool
	Failed         bool
	AccountInclude []string
}

// SubscribeRequestFilterAccounts selects which accounts a subscription slot
// receives. An empty value matches everything.
type SubscribeRequestFilterAccounts struct {
	Account []string
}

// SubscribeRequest is sent once at the start of a subscription. The
// supervisor's Geyser client always sends one filter slot of each kind with
// no inclusion list and no commitment override, i.e. "everything".
type SubscribeRequest struct {
	Transactions map[string]*SubscribeRequestFilterTransactions
	Accounts     map[string]*SubscribeRequestFilterAccounts
	Commitment   *CommitmentLevel
}

// RawInstruction is one compiled instruction as it appears on the wire.
type RawInstruction struct {
	ProgramIDIndex uint32
	Accounts       []uint32
	Data           []byte
}

// RawInnerInstructionGroup is one inner-instruction group as it appears on
// the wire.
type RawInnerInstructionGroup struct {
	Index        uint32
	Instructions []RawInstruction
}

// AccountUpdate is the Account variant of UpdateOneof.
type AccountUpdate struct {
	Pubkey []byte
	Data   []byte
}

// TransactionUpdate is the Transaction variant of UpdateOneof.
type TransactionUpdate struct {
	Signature         []byte
	AccountKeys       [][]byte
	Instructions      []RawInstruction
	Err               []byte // nil/empty means the transaction succeeded
	InnerInstructions []RawInnerInstructionGroup
	LogMessages       []string
}

// UpdateOneof is the sum type every SubscribeUpdate carries. Exactly one
// field is non-nil; the rest are present only so the receive loop can log
// and ignore variants the core does not act on.
type UpdateOneof struct {
	Account           *AccountUpdate
	Transaction       *TransactionUpdate
	Slot              *struct{}
	TransactionStatus *struct{}
	Entry             *struct{}
	BlockMeta         *struct{}
	Block             *struct{}
	Ping              *struct{}
	Pong              *struct{}
}

// SubscribeUpdate is one message received over the subscription stream.
type SubscribeUpdate struct {
	Update UpdateOneof
}
