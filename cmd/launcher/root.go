package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"token-launcher-sol/internal/config"
	"token-launcher-sol/internal/logic/confirm"
	"token-launcher-sol/internal/svc"
	"token-launcher-sol/pkg/logger"
)

// 退出码：确认失败与结果未知需要区分处理
const (
	exitError         = 1
	exitFailed        = 2
	exitIndeterminate = 3
)

var (
	configFile     string
	serviceContext *svc.ServiceContext
)

var rootCmd = &cobra.Command{
	Use:           "launcher",
	Short:         "Solana 同质化 token 发行工具",
	Long:          "创建带 Metaplex 元数据的 SPL token、铸造全部供应量并回收权限，或销毁余额并关闭 token 账户",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
			return fmt.Errorf("初始化日志: %w", err)
		}
		serviceContext, err = svc.NewServiceContext(c)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if serviceContext != nil {
			serviceContext.Close()
		}
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "file", "f", "etc/token.json", "the config file")
	rootCmd.AddCommand(createCmd, burnCloseCmd, confirmCmd)
}

// Execute 执行根命令，SIGINT / SIGTERM 取消正在进行的轮询
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, confirm.ErrConfirmationFailed):
		return exitFailed
	case errors.Is(err, confirm.ErrConfirmationIndeterminate):
		return exitIndeterminate
	default:
		return exitError
	}
}
