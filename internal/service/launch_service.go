package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
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

// LaunchReport 一次发行的执行结果
type LaunchReport struct {
	Signature   string
	Mint        types.Pubkey
	Payer       types.Pubkey
	Metadata    types.Pubkey
	SupplyMinor uint64
	Simulation  *client.SimulateTransaction
	Result      confirm.Result
	OnChain     *metaplex.MetadataAccount // 确认后回读的元数据，读取失败时为 nil
	ReceiptPath string
}

// LaunchService 发行同质化 token：创建元数据、铸造全部供应量、回收铸币权和冻结权
type LaunchService struct {
	cfg      config.LaunchConfig
	programs consts.ProgramSet
	chain    ChainClient
	poller   Confirmer
	sink     outcomeSink
}

func NewLaunchService(cfg config.LaunchConfig, programs consts.ProgramSet, chain ChainClient, poller Confirmer, store StatusStore, publisher OutcomePublisher) *LaunchService {
	return &LaunchService{
		cfg:      cfg,
		programs: programs,
		chain:    chain,
		poller:   poller,
		sink:     outcomeSink{store: store, publisher: publisher},
	}
}

// Run simulate 为 true 时只做模拟，不发送交易
func (s *LaunchService) Run(ctx context.Context, simulate bool) (*LaunchReport, error) {
	payer, err := sdktypes.AccountFromBase58(s.cfg.PayerPriv)
	if err != nil {
		return nil, fmt.Errorf("decode payer keypair: %w", err)
	}
	mint, err := sdktypes.AccountFromBase58(s.cfg.MintPriv)
	if err != nil {
		return nil, fmt.Errorf("decode mint keypair: %w", err)
	}

	supply, err := s.cfg.SupplyMinorUnits()
	if err != nil {
		return nil, err
	}

	report := &LaunchReport{
		Mint:        types.PubkeyFromCommon(mint.PublicKey),
		Payer:       types.PubkeyFromCommon(payer.PublicKey),
		SupplyMinor: supply,
	}
	if report.Metadata, err = metaplex.FindMetadataPDA(s.programs, report.Mint); err != nil {
		return nil, err
	}

	args := metaplex.DefaultCreateV1Args(s.cfg.Name, s.cfg.Symbol, s.cfg.URI, report.Payer, s.cfg.Decimal)
	ixs, err := txbuilder.LaunchPlan(txbuilder.LaunchParams{
		Programs: s.programs,
		Args:     args,
		Payer:    report.Payer,
		Mint:     report.Mint,
		Amount:   supply,
		Budget:   s.cfg.ComputeBudget.Launch(),
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("[Launch] 编译交易: mint=%s, payer=%s, supply=%d", report.Mint, report.Payer, supply)
	logger.Debugf("[Launch] 交易计划: %s", txbuilder.DescribePlan(s.programs, ixs))
	blockhash, err := s.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	tx, err := txbuilder.BuildTransaction([]sdktypes.Account{payer, mint}, blockhash.Blockhash, ixs)
	if err != nil {
		return nil, err
	}

	if simulate {
		sim, err := s.chain.SimulateTransaction(ctx, tx)
		if err != nil {
			return nil, fmt.Errorf("simulate transaction: %w", err)
		}
		report.Simulation = &sim
		logger.Infof("[Launch] 模拟结果: err=%v\n%s", sim.Err, strings.Join(sim.Logs, "\n"))
		return report, nil
	}

	logger.Infof("[Launch] 发送交易...")
	sig, err := s.chain.SendTransactionWithConfig(ctx, tx, client.SendTransactionConfig{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}
	report.Signature = sig
	logger.Infof("[Launch] 交易签名: %s", sig)
	s.sink.markPending(ctx, sig, txstatus.KindLaunch)

	res, pollErr := s.poller.Poll(ctx, sig)
	report.Result = res
	s.sink.record(ctx, txstatus.KindLaunch, utils.EventTypeLaunchOutcome, report.Mint.String(), res, pollErr)

	if res.Outcome == confirm.OutcomeConfirmed {
		report.OnChain = s.verifyMetadata(ctx, report.Metadata, args, report.Mint)
	}
	s.writeReceipt(report, args, pollErr)
	return report, pollErr
}

// verifyMetadata 回读元数据账户并与发行参数比对，失败只记日志
func (s *LaunchService) verifyMetadata(ctx context.Context, metadata types.Pubkey, args metaplex.CreateV1Args, mint types.Pubkey) *metaplex.MetadataAccount {
	info, err := s.chain.GetAccountInfo(ctx, metadata.String())
	if err != nil {
		logger.Warnf("[Launch] 读取元数据账户失败: %s, err=%v", metadata, err)
		return nil
	}
	acc, err := metaplex.ParseMetadataAccount(info.Data)
	if err != nil {
		logger.Warnf("[Launch] 解析元数据账户失败: %s, err=%v", metadata, err)
		return nil
	}
	if err := acc.Matches(args, mint); err != nil {
		logger.Errorf("[Launch] 链上元数据与发行参数不一致: %v", err)
	} else {
		logger.Infof("[Launch] 元数据已核对: name=%s, symbol=%s", acc.Name, acc.Symbol)
	}
	return acc
}

func (s *LaunchService) writeReceipt(r *LaunchReport, args metaplex.CreateV1Args, pollErr error) {
	if s.cfg.ReceiptDir == "" {
		return
	}
	receipt := utils.LaunchReceipt{
		Signature:   r.Signature,
		Outcome:     r.Result.Outcome.String(),
		Slot:        r.Result.Slot,
		Attempts:    len(r.Result.Attempts),
		Mint:        r.Mint.String(),
		Payer:       r.Payer.String(),
		Metadata:    r.Metadata.String(),
		Name:        args.Name,
		Symbol:      args.Symbol,
		URI:         args.URI,
		Decimals:    s.cfg.Decimal,
		SupplyMinor: r.SupplyMinor,
	}
	if pollErr != nil && !errors.Is(pollErr, context.Canceled) {
		receipt.Error = describeErr(r.Result, pollErr)
	}
	path, err := utils.WriteReceipt(s.cfg.ReceiptDir, receipt)
	if err != nil {
		logger.Warnf("[Launch] 写入回执失败: %v", err)
		return
	}
	r.ReceiptPath = path
	logger.Infof("[Launch] 回执已写入: %s", path)
}
