package txbuilder

import (
	"errors"
	"fmt"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

var ErrNoSigner = errors.New("transaction requires at least one signer")

// BuildTransaction 编译 legacy 消息并签名。signers[0] 为手续费支付方。
func BuildTransaction(signers []sdktypes.Account, recentBlockhash string, ixs []sdktypes.Instruction) (sdktypes.Transaction, error) {
	if len(signers) == 0 {
		return sdktypes.Transaction{}, ErrNoSigner
	}
	if recentBlockhash == "" {
		return sdktypes.Transaction{}, errors.New("recent blockhash is empty")
	}

	tx, err := sdktypes.NewTransaction(sdktypes.NewTransactionParam{
		Message: sdktypes.NewMessage(sdktypes.NewMessageParam{
			FeePayer:        signers[0].PublicKey,
			RecentBlockhash: recentBlockhash,
			Instructions:    ixs,
		}),
		Signers: signers,
	})
	if err != nil {
		return sdktypes.Transaction{}, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}
