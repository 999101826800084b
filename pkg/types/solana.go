// Package types provides base Solana types and structures used throughout the relay.
// It wraps and extends the solana-go library types for consistency and convenience.
package types

import (
	"github.com/gagliardetto/solana-go"
)

// Pubkey is a Solana public key (32 bytes).
type Pubkey = solana.PublicKey

// Signature is a Solana transaction signature (64 bytes).
type Signature = solana.Signature

// Hash is a Solana hash (32 bytes), typically used for blockhashes.
type Hash = solana.Hash

// Account represents a Solana account with its data and metadata.
type Account struct {
	// Lamports is the number of lamports owned by this account.
	Lamports uint64 `json:"lamports"`

	// Data is the data held in this account.
	Data []byte `json:"data"`

	// Owner is the program that owns this account.
	Owner Pubkey `json:"owner"`

	// Executable indicates if the account contains a program.
	Executable bool `json:"executable"`

	// RentEpoch is the epoch at which this account will next owe rent.
	RentEpoch uint64 `json:"rent_epoch"`
}

// AccountMeta describes a single account involved in an instruction.
type AccountMeta struct {
	// Pubkey is the public key of the account.
	Pubkey Pubkey `json:"pubkey"`

	// IsSigner indicates if the account is a signer.
	IsSigner bool `json:"is_signer"`

	// IsWritable indicates if the account is writable.
	IsWritable bool `json:"is_writable"`
}

// ToSolanaAccountMeta converts to solana-go AccountMeta.
func (am *AccountMeta) ToSolanaAccountMeta() *solana.AccountMeta {
	return &solana.AccountMeta{
		PublicKey:  am.Pubkey,
		IsSigner:   am.IsSigner,
		IsWritable: am.IsWritable,
	}
}

// Meta creates an AccountMeta for a readonly, non-signing account.
func Meta(pubkey Pubkey) AccountMeta {
	return AccountMeta{Pubkey: pubkey}
}

// WritableMeta creates an AccountMeta for a writable, non-signing account.
func WritableMeta(pubkey Pubkey) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsWritable: true}
}

// SignerMeta creates an AccountMeta for a writable signing account.
func SignerMeta(pubkey Pubkey) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: true, IsWritable: true}
}

// Instruction represents a Solana instruction.
type Instruction struct {
	// ProgramID is the program that will process this instruction.
	ProgramID Pubkey `json:"program_id"`

	// Accounts is the list of accounts to pass to the program.
	Accounts []AccountMeta `json:"accounts"`

	// Data is the instruction data.
	Data []byte `json:"data"`
}

// ToSolanaInstruction converts to a solana-go generic instruction.
func (ix *Instruction) ToSolanaInstruction() solana.Instruction {
	metas := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
	for i := range ix.Accounts {
		metas = append(metas, ix.Accounts[i].ToSolanaAccountMeta())
	}
	return solana.NewInstruction(ix.ProgramID, metas, ix.Data)
}

// LamportsPerSOL is the number of lamports per SOL.
const LamportsPerSOL uint64 = 1_000_000_000

// LamportsToSOL converts lamports to SOL.
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(LamportsPerSOL)
}
