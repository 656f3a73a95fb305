package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/internal/storage/db"
	"github.com/yeisme/hazopvault/pkg/internal/storage/kv"
	"github.com/yeisme/hazopvault/pkg/internal/storage/mq"
)

// backendsCmd 列出编译进二进制的存储后端，当前配置选中的后端标 *.
var backendsCmd = &cobra.Command{
	Use:     "backends",
	Short:   "list compiled-in storage backends and mark the configured ones",
	Aliases: []string{"backend"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configs.InitConfig(configPath)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configs.GetConfig()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LAYER\tBACKENDS")
		fmt.Fprintf(w, "db\t%s\n", joinMarked(db.Types(), cfg.DB.Type))
		fmt.Fprintf(w, "blob\t%s\n", joinMarked(blob.Types(), cfg.Blob.Type))
		fmt.Fprintf(w, "kv\t%s\n", joinMarked(kv.Types(), cfg.KV.Type))
		fmt.Fprintf(w, "mq\t%s\n", joinMarked(mq.Types(), cfg.MQ.Type))

		return w.Flush()
	},
}

func joinMarked[T ~string](types []T, current T) string {
	out := ""

	for i, t := range types {
		if i > 0 {
			out += " "
		}

		out += string(t)
		if t == current {
			out += "*"
		}
	}

	return out
}

func registerBackendsCommands() {
	rootCmd.AddCommand(backendsCmd)
}
