package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers for SubscribeRequest. Map entries themselves are encoded as
// length-delimited key/value submessages per the standard protobuf map
// encoding (field 1 = key, field 2 = value).
const (
	fieldRequestTransactions = 1
	fieldRequestAccounts     = 2
	fieldRequestCommitment   = 3

	fieldFilterTxVote           = 1
	fieldFilterTxFailed         = 2
	fieldFilterTxAccountInclude = 3

	fieldFilterAcctAccount = 1

	fieldUpdateAccount           = 1
	fieldUpdateSlot              = 2
	fieldUpdateTransaction       = 3
	fieldUpdateTransactionStatus = 4
	fieldUpdateEntry             = 5
	fieldUpdateBlockMeta         = 6
	fieldUpdateBlock             = 7
	fieldUpdatePing              = 8
	fieldUpdatePong              = 9

	fieldAccountPubkey = 1
	fieldAccountData   = 2

	fieldTxSignature    = 1
	fieldTxAccountKeys  = 2
	fieldTxInstructions = 3
	fieldTxErr          = 4
	fieldTxInner        = 5
	fieldTxLogMessages  = 6

	fieldInstrProgramIDIndex = 1
	fieldInstrAccounts       = 2
	fieldInstrData           = 3

	fieldInnerIndex        = 1
	fieldInnerInstructions = 2
)

// Marshal encodes a SubscribeRequest using the real protobuf wire format.
func Marshal(req *SubscribeRequest) ([]byte, error) {
	var b []byte
	for name, filter := range req.Transactions {
		entry := marshalMapEntryString(name, marshalFilterTransactions(filter))
		b = protowire.AppendTag(b, fieldRequestTransactions, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	for name, filter := range req.Accounts {
		entry := marshalMapEntryString(name, marshalFilterAccounts(filter))
		b = protowire.AppendTag(b, fieldRequestAccounts, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	if req.Commitment != nil {
		b = protowire.AppendTag(b, fieldRequestCommitment, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*req.Commitment))
	}
	return b, nil
}

func marshalMapEntryString(key string, value []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, key)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, value)
	return b
}

func marshalFilterTransactions(f *SubscribeRequestFilterTransactions) []byte {
	if f == nil {
		return nil
	}
	var b []byte
	b = protowire.AppendTag(b, fieldFilterTxVote, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(f.Vote))
	b = protowire.AppendTag(b, fieldFilterTxFailed, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(f.Failed))
	for _, acct := range f.AccountInclude {
		b = protowire.AppendTag(b, fieldFilterTxAccountInclude, protowire.BytesType)
		b = protowire.AppendString(b, acct)
	}
	return b
}

func marshalFilterAccounts(f *SubscribeRequestFilterAccounts) []byte {
	if f == nil {
		return nil
	}
	var b []byte
	for _, acct := range f.Account {
		b = protowire.AppendTag(b, fieldFilterAcctAccount, protowire.BytesType)
		b = protowire.AppendString(b, acct)
	}
	return b
}

func boolToVarint(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// Unmarshal decodes one SubscribeUpdate from the wire format written by an
// upstream Geyser server.
func Unmarshal(data []byte) (*SubscribeUpdate, error) {
	upd := &SubscribeUpdate{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		switch num {
		case fieldUpdateAccount:
			payload, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = rest
			acct, err := unmarshalAccountUpdate(payload)
			if err != nil {
				return nil, err
			}
			upd.Update.Account = acct
		case fieldUpdateTransaction:
			payload, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = rest
			tx, err := unmarshalTransactionUpdate(payload)
			if err != nil {
				return nil, err
			}
			upd.Update.Transaction = tx
		case fieldUpdateSlot, fieldUpdateTransactionStatus, fieldUpdateEntry,
			fieldUpdateBlockMeta, fieldUpdateBlock, fieldUpdatePing, fieldUpdatePong:
			_, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = rest
			markEmptyVariant(upd, num)
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return upd, nil
}

func markEmptyVariant(upd *SubscribeUpdate, num protowire.Number) {
	empty := &struct{}{}
	switch num {
	case fieldUpdateSlot:
		upd.Update.Slot = empty
	case fieldUpdateTransactionStatus:
		upd.Update.TransactionStatus = empty
	case fieldUpdateEntry:
		upd.Update.Entry = empty
	case fieldUpdateBlockMeta:
		upd.Update.BlockMeta = empty
	case fieldUpdateBlock:
		upd.Update.Block = empty
	case fieldUpdatePing:
		upd.Update.Ping = empty
	case fieldUpdatePong:
		upd.Update.Pong = empty
	}
}

func consumeBytes(data []byte, typ protowire.Type) ([]byte, []byte, error) {
	if typ != protowire.BytesType {
		return nil, nil, fmt.Errorf("geyser proto: expected length-delimited field, got wire type %d", typ)
	}
	payload, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, nil, protowire.ParseError(n)
	}
	return payload, data[n:], nil
}

func unmarshalAccountUpdate(data []byte) (*AccountUpdate, error) {
	acct := &AccountUpdate{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldAccountPubkey:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			acct.Pubkey = append([]byte(nil), v...)
			data = rest
		case fieldAccountData:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			acct.Data = append([]byte(nil), v...)
			data = rest
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return acct, nil
}

func unmarshalTransactionUpdate(data []byte) (*TransactionUpdate, error) {
	tx := &TransactionUpdate{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldTxSignature:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			tx.Signature = append([]byte(nil), v...)
			data = rest
		case fieldTxAccountKeys:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			tx.AccountKeys = append(tx.AccountKeys, append([]byte(nil), v...))
			data = rest
		case fieldTxInstructions:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			instr, err := unmarshalInstruction(v)
			if err != nil {
				return nil, err
			}
			tx.Instructions = append(tx.Instructions, *instr)
			data = rest
		case fieldTxErr:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			tx.Err = append([]byte(nil), v...)
			data = rest
		case fieldTxInner:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			group, err := unmarshalInnerGroup(v)
			if err != nil {
				return nil, err
			}
			tx.InnerInstructions = append(tx.InnerInstructions, *group)
			data = rest
		case fieldTxLogMessages:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			tx.LogMessages = append(tx.LogMessages, string(v))
			data = rest
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return tx, nil
}

func unmarshalInstruction(data []byte) (*RawInstruction, error) {
	instr := &RawInstruction{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldInstrProgramIDIndex:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			instr.ProgramIDIndex = uint32(v)
			data = data[n:]
		case fieldInstrAccounts:
			// Repeated varints arrive packed from proto3 encoders; accept
			// the unpacked form as well.
			if typ == protowire.BytesType {
				packed, rest, err := consumeBytes(data, typ)
				if err != nil {
					return nil, err
				}
				for len(packed) > 0 {
					v, n := protowire.ConsumeVarint(packed)
					if n < 0 {
						return nil, protowire.ParseError(n)
					}
					instr.Accounts = append(instr.Accounts, uint32(v))
					packed = packed[n:]
				}
				data = rest
				continue
			}
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			instr.Accounts = append(instr.Accounts, uint32(v))
			data = data[n:]
		case fieldInstrData:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			instr.Data = append([]byte(nil), v...)
			data = rest
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return instr, nil
}

func unmarshalInnerGroup(data []byte) (*RawInnerInstructionGroup, error) {
	group := &RawInnerInstructionGroup{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case fieldInnerIndex:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			group.Index = uint32(v)
			data = data[n:]
		case fieldInnerInstructions:
			v, rest, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			instr, err := unmarshalInstruction(v)
			if err != nil {
				return nil, err
			}
			group.Instructions = append(group.Instructions, *instr)
			data = rest
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return group, nil
}
