package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/hazopvault/pkg/app"
	"github.com/yeisme/hazopvault/pkg/internal/storage/db"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database related commands",
	}

	// 创建或更新分析结果与报告表.
	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "create or update the analysis and report tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Bootstrap(configPath)
			if err != nil {
				return err
			}

			client, err := db.New(cmd.Context(), &cfg.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Migrate(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s migrated\n", cfg.DB.GetDBType())

			return nil
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbMigrateCmd)
}
