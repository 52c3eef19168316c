package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chorus-network/chorus/internal/config"
	"github.com/chorus-network/chorus/internal/domain"
	"github.com/chorus-network/chorus/internal/infra/sqlite"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent synthesis runs",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := sqlite.Open(config.Home())
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tINPUT\tOUTPUT\tWORDS\tCHUNKS\tRESULT\tTOOK")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.InputFile,
			r.OutputFile,
			r.Words,
			r.Chunks,
			runResult(r),
			r.Duration.Round(100*time.Millisecond),
		)
	}
	return w.Flush()
}

func runResult(r domain.Run) string {
	if r.Succeeded() {
		return "ok"
	}
	if r.Error != "" {
		return "error: " + truncate(r.Error, 40)
	}
	return string(r.Phase)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
