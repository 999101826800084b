package solana

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func TestConvertAccount(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	t.Run("carries every field over", func(t *testing.T) {
		got := convertAccount(&rpc.Account{
			Lamports:  2_039_280,
			Data:      rpc.DataBytesOrJSONFromBytes([]byte{1, 2, 3}),
			Owner:     owner,
			RentEpoch: big.NewInt(361),
		})

		if got.Lamports != 2_039_280 {
			t.Errorf("lamports = %d, want 2039280", got.Lamports)
		}
		if !bytes.Equal(got.Data, []byte{1, 2, 3}) {
			t.Errorf("data = %v, want [1 2 3]", got.Data)
		}
		if !got.Owner.Equals(owner) {
			t.Errorf("owner = %s, want %s", got.Owner, owner)
		}
		if got.RentEpoch != 361 {
			t.Errorf("rent epoch = %d, want 361", got.RentEpoch)
		}
	})

	t.Run("missing rent epoch defaults to zero", func(t *testing.T) {
		got := convertAccount(&rpc.Account{
			Lamports: 1,
			Data:     rpc.DataBytesOrJSONFromBytes(nil),
			Owner:    owner,
		})
		if got.RentEpoch != 0 {
			t.Errorf("rent epoch = %d, want 0", got.RentEpoch)
		}
	})
}
