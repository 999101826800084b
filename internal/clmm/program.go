// Package clmm is the boundary to the Raydium CLMM execution engine.
//
// It knows the engine's account layouts, deterministic address-derivation
// scheme, and instruction wire format, and exposes an Engine interface the
// relay forwards validated calls through. The engine owns all pool, tick,
// and fee math; this package never reimplements any of it.
package clmm

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/clmm-relay/pkg/types"
)

// DefaultProgramID is the mainnet Raydium CLMM program id.
var DefaultProgramID = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")

// MetadataProgramID is the Metaplex token metadata program id.
var MetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// PDA seeds used by the engine's address-derivation scheme.
const (
	PositionSeed  = "position"
	TickArraySeed = "tick_array"
	MetadataSeed  = "metadata"
)

// InstructionDiscriminator computes the 8-byte Anchor discriminator for a
// global instruction: sha256("global:{name}")[..8].
func InstructionDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("global:" + name))
	var disc [8]byte
	copy(disc[:], hash[:8])
	return disc
}

// AccountDiscriminator computes the 8-byte Anchor discriminator for an
// account type: sha256("account:{Name}")[..8].
func AccountDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var disc [8]byte
	copy(disc[:], hash[:8])
	return disc
}

// DeriveProtocolPosition derives the engine's protocol position PDA for a
// pool and tick range. Tick indexes are encoded big-endian, matching the
// engine's seed layout.
func DeriveProtocolPosition(programID, pool types.Pubkey, tickLower, tickUpper int32) (types.Pubkey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		[]byte(PositionSeed),
		pool.Bytes(),
		tickIndexSeed(tickLower),
		tickIndexSeed(tickUpper),
	}, programID)
	return addr, err
}

// DerivePersonalPosition derives the engine's personal position PDA for a
// position receipt mint.
func DerivePersonalPosition(programID, positionNFTMint types.Pubkey) (types.Pubkey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		[]byte(PositionSeed),
		positionNFTMint.Bytes(),
	}, programID)
	return addr, err
}

// DeriveTickArray derives the engine's tick array PDA for a pool and start
// tick index.
func DeriveTickArray(programID, pool types.Pubkey, startIndex int32) (types.Pubkey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		[]byte(TickArraySeed),
		pool.Bytes(),
		tickIndexSeed(startIndex),
	}, programID)
	return addr, err
}

// DeriveMetadataAccount derives the Metaplex metadata PDA for a mint.
func DeriveMetadataAccount(mint types.Pubkey) (types.Pubkey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		[]byte(MetadataSeed),
		MetadataProgramID.Bytes(),
		mint.Bytes(),
	}, MetadataProgramID)
	return addr, err
}

func tickIndexSeed(index int32) []byte {
	seed := make([]byte, 4)
	binary.BigEndian.PutUint32(seed, uint32(index))
	return seed
}
