// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// configPath 配置文件或所在目录.
	configPath string
	// debug 打印配置时同时输出 viper 的调试信息.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "hazopvault",
		Short: "P&ID upload, analysis and HAZOP report service",
		// 不带子命令时直接启动服务
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "config file or directory")
	registerServeCommands()
	registerSweepCommands()
	registerConfigsCommands()
	registerDBCommands()
	registerBackendsCommands()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
