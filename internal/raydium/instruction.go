package raydium

import (
	bin "github.com/gagliardetto/binary"

	"raydiumsentry/internal/errs"
)

// initializeInstructionTag is the single supported tag for the initialize2
// instruction's leading byte.
const initializeInstructionTag = 1

// initializeInstructionMinLen is tag(1) + nonce(1) + open_time(8) +
// init_pc_amount(8) + init_coin_amount(8).
const initializeInstructionMinLen = 1 + 1 + 8 + 8 + 8

// InitializeInstruction2 is the decoded payload of a Raydium v4 initialize2
// instruction: the pool's starting reserves and bookkeeping fields.
type InitializeInstruction2 struct {
	Nonce          uint8
	OpenTime       uint64
	InitPcAmount   uint64
	InitCoinAmount uint64
}

// UnpackInitializeInstruction2 decodes a raw initialize2 instruction payload.
// It requires input[0] == 1 and then reads, little-endian: u8 nonce, u64
// open_time, u64 init_pc_amount, u64 init_coin_amount. Trailing bytes are
// ignored. Any tag mismatch or truncation fails with MalformedBinary.
func UnpackInitializeInstruction2(input []byte) (*InitializeInstruction2, error) {
	if len(input) == 0 || input[0] != initializeInstructionTag {
		return nil, errs.New(errs.MalformedBinary)
	}
	if len(input) < initializeInstructionMinLen {
		return nil, errs.New(errs.MalformedBinary)
	}

	decoder := bin.NewBinDecoder(input[1:])
	nonce, err := decoder.ReadUint8()
	if err != nil {
		return nil, errs.New(errs.MalformedBinary)
	}
	openTime, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return nil, errs.New(errs.MalformedBinary)
	}
	initPcAmount, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return nil, errs.New(errs.MalformedBinary)
	}
	initCoinAmount, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return nil, errs.New(errs.MalformedBinary)
	}

	return &InitializeInstruction2{
		Nonce:          nonce,
		OpenTime:       openTime,
		InitPcAmount:   initPcAmount,
		InitCoinAmount: initCoinAmount,
	}, nil
}
