package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/lugondev/clmm-relay/pkg/types"
)

// Client wraps the Solana RPC client
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
}

// NewClient creates a new Solana client
func NewClient(endpoint string) *Client {
	return &Client{
		rpc:        rpc.New(endpoint),
		commitment: rpc.CommitmentConfirmed,
	}
}

// WithCommitment sets the commitment level used for reads and sends.
func (c *Client) WithCommitment(commitment string) *Client {
	switch commitment {
	case "processed":
		c.commitment = rpc.CommitmentProcessed
	case "finalized":
		c.commitment = rpc.CommitmentFinalized
	default:
		c.commitment = rpc.CommitmentConfirmed
	}
	return c
}

// GetAccount fetches an account and returns it in the relay's account shape.
// Returns nil if the account does not exist.
func (c *Client) GetAccount(ctx context.Context, pubkey solana.PublicKey) (*types.Account, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account info: %w", err)
	}
	if result.Value == nil {
		return nil, nil
	}

	return convertAccount(result.Value), nil
}

// convertAccount converts a solana-go rpc account to the relay's account shape.
func convertAccount(acc *rpc.Account) *types.Account {
	var rentEpoch uint64
	if acc.RentEpoch != nil {
		rentEpoch = acc.RentEpoch.Uint64()
	}

	return &types.Account{
		Lamports:   acc.Lamports,
		Data:       acc.Data.GetBinary(),
		Owner:      acc.Owner,
		Executable: acc.Executable,
		RentEpoch:  rentEpoch,
	}
}

// GetBalance returns the balance of an account in lamports
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	result, err := c.rpc.GetBalance(ctx, pubkey, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return result.Value, nil
}

// GetLatestBlockhash returns the latest blockhash
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return result.Value.Blockhash, nil
}

// SendTransaction sends a signed transaction
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	// RPC client doesn't have a close method, but we include this for future use
	return nil
}
