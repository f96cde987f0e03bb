package service

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/rpc"
	sdktypes "github.com/blocto/solana-go-sdk/types"

	"token-launcher-sol/internal/config"
	"token-launcher-sol/internal/consts"
	"token-launcher-sol/internal/logic/confirm"
	"token-launcher-sol/internal/logic/metaplex"
	"token-launcher-sol/internal/logic/txbuilder"
	"token-launcher-sol/internal/logic/txstatus"
	"token-launcher-sol/internal/types"
	"token-launcher-sol/internal/utils"
	"token-launcher-sol/pkg/logger"
)

// BurnCloseReport 销毁并关闭账户的执行结果
type BurnCloseReport struct {
	TokenAccount types.Pubkey
	Balance      uint64
	Signature    string
	Result       confirm.Result
}

// BurnCloseService 销毁 payer 在 mint 下 ATA 的全部余额，并关闭账户回收租金
type BurnCloseService struct {
	cfg      config.LaunchConfig
	programs consts.ProgramSet
	chain    ChainClient
	poller   Confirmer
	sink     outcomeSink
}

func NewBurnCloseService(cfg config.LaunchConfig, programs consts.ProgramSet, chain ChainClient, poller Confirmer, store StatusStore, publisher OutcomePublisher) *BurnCloseService {
	return &BurnCloseService{
		cfg:      cfg,
		programs: programs,
		chain:    chain,
		poller:   poller,
		sink:     outcomeSink{store: store, publisher: publisher},
	}
}

func (s *BurnCloseService) Run(ctx context.Context) (*BurnCloseReport, error) {
	payer, err := sdktypes.AccountFromBase58(s.cfg.PayerPriv)
	if err != nil {
		return nil, fmt.Errorf("decode payer keypair: %w", err)
	}
	mintAcc, err := sdktypes.AccountFromBase58(s.cfg.MintPriv)
	if err != nil {
		return nil, fmt.Errorf("decode mint keypair: %w", err)
	}
	owner := types.PubkeyFromCommon(payer.PublicKey)
	mint := types.PubkeyFromCommon(mintAcc.PublicKey)

	ata, err := metaplex.FindAssociatedTokenAddress(s.programs, owner, mint)
	if err != nil {
		return nil, err
	}
	report := &BurnCloseReport{TokenAccount: ata}
	logger.Infof("[BurnClose] token 账户: %s", ata)

	params := txbuilder.BurnCloseParams{
		Programs:     s.programs,
		Owner:        owner,
		TokenAccount: ata,
		Budget:       s.cfg.ComputeBudget.Close(),
	}

	// 余额查询失败按 0 处理，只关闭账户
	if bal, err := s.chain.GetTokenAccountBalance(ctx, ata.String()); err != nil {
		logger.Warnf("[BurnClose] 查询余额失败，按 0 处理: %v", err)
	} else {
		report.Balance = bal.Amount
	}
	logger.Infof("[BurnClose] token 余额: %d", report.Balance)

	if report.Balance > 0 {
		program, accountMint, err := s.inspectTokenAccount(ctx, ata)
		if err != nil {
			return report, err
		}
		params.Balance = report.Balance
		params.TokenProgram = program
		params.Mint = accountMint
	}

	ixs, err := txbuilder.BurnClosePlan(params)
	if err != nil {
		return report, err
	}
	logger.Infof("[BurnClose] 交易计划: %s", txbuilder.DescribePlan(s.programs, ixs))
	blockhash, err := s.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return report, fmt.Errorf("get latest blockhash: %w", err)
	}
	tx, err := txbuilder.BuildTransaction([]sdktypes.Account{payer}, blockhash.Blockhash, ixs)
	if err != nil {
		return report, err
	}

	logger.Infof("[BurnClose] 发送交易...")
	sig, err := s.chain.SendTransactionWithConfig(ctx, tx, client.SendTransactionConfig{
		SkipPreflight:       true,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return report, fmt.Errorf("send transaction: %w", err)
	}
	report.Signature = sig
	logger.Infof("[BurnClose] 交易签名: %s", sig)
	s.sink.markPending(ctx, sig, txstatus.KindBurnClose)

	res, pollErr := s.poller.Poll(ctx, sig)
	report.Result = res
	s.sink.record(ctx, txstatus.KindBurnClose, utils.EventTypeBurnCloseOutcome, mint.String(), res, pollErr)
	return report, pollErr
}

// inspectTokenAccount 读取 token 账户的 owner 程序和 mint
func (s *BurnCloseService) inspectTokenAccount(ctx context.Context, account types.Pubkey) (types.Pubkey, types.Pubkey, error) {
	info, err := s.chain.GetAccountInfo(ctx, account.String())
	if err != nil {
		return types.Pubkey{}, types.Pubkey{}, fmt.Errorf("get token account %s: %w", account, err)
	}
	program := types.PubkeyFromCommon(info.Owner)

	// Token-2022 账户可能带扩展数据，解析失败时直接取前 32 字节的 mint
	if parsed, err := token.TokenAccountFromData(info.Data); err == nil {
		return program, types.PubkeyFromCommon(parsed.Mint), nil
	}
	if len(info.Data) < types.PubkeySize {
		return types.Pubkey{}, types.Pubkey{}, fmt.Errorf("token account %s: data too short (%d bytes)", account, len(info.Data))
	}
	var mint types.Pubkey
	copy(mint[:], info.Data[:types.PubkeySize])
	return program, mint, nil
}
