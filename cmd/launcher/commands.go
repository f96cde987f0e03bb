package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var simulate bool

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "发行 token",
	Long:  "CreateV1 + Mint + 回收铸币权和冻结权，一笔交易完成；--sim 时只模拟",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := serviceContext.LaunchService().Run(cmd.Context(), simulate)
		if report != nil {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mint: %s\nmetadata: %s\n", report.Mint, report.Metadata)
			if report.Simulation != nil {
				fmt.Fprintf(out, "simulation err: %v\n", report.Simulation.Err)
				for _, line := range report.Simulation.Logs {
					fmt.Fprintln(out, line)
				}
			}
			if report.Signature != "" {
				fmt.Fprintf(out, "signature: %s\noutcome: %s\n", report.Signature, report.Result.Outcome)
			}
			if report.ReceiptPath != "" {
				fmt.Fprintf(out, "receipt: %s\n", report.ReceiptPath)
			}
		}
		return err
	},
}

var burnCloseCmd = &cobra.Command{
	Use:   "burn-close",
	Short: "销毁余额并关闭 token 账户",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := serviceContext.BurnCloseService().Run(cmd.Context())
		if report != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "token account: %s\nbalance: %d\n", report.TokenAccount, report.Balance)
			if report.Signature != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "signature: %s\noutcome: %s\n", report.Signature, report.Result.Outcome)
			}
		}
		return err
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm <signature>",
	Short: "轮询已发送交易的确认结果",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := serviceContext.ConfirmService().Run(cmd.Context(), args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "signature: %s\noutcome: %s\nattempts: %d\n", args[0], res.Outcome, len(res.Attempts))
		return err
	},
}

func init() {
	createCmd.Flags().BoolVar(&simulate, "sim", false, "只模拟，不发送交易")
}
