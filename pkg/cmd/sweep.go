package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/hazopvault/pkg/app"
	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/storage"
)

// sweepCmd 立即执行一次孤立报告对象清理.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "remove report blobs that no report record references",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.Bootstrap(configPath)
		if err != nil {
			return err
		}

		mgr, err := storage.Init(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer mgr.Close()

		ctx := ctxPkg.WithStorageManager(cmd.Context(), mgr)

		svc, err := service.NewSweepService(ctx)
		if err != nil {
			return err
		}

		res, err := svc.Run(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "scanned %d report blobs, removed %d, failed %d\n", res.Scanned, len(res.Removed), res.Failed)

		for _, id := range res.Removed {
			fmt.Fprintln(out, "   - "+id)
		}

		return nil
	},
}

// registerSweepCommands 注册清理命令.
func registerSweepCommands() {
	rootCmd.AddCommand(sweepCmd)
}
