package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docrank/config"
	"docrank/internal/adapter/store"
	"docrank/internal/port"
)

var (
	historyLimit int
	historyShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or show previous analysis runs",
	Long: `List runs recorded by 'docrank analyze', newest first, or print the full
output of one run.

Examples:
  docrank history
  docrank history --limit 5
  docrank history --show 20260504T083000.000000000Z-000001`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyShow, "show", "", "print the stored output of a run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dbPath := cfg.HistoryDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no history found. Run 'docrank analyze' first")
	}

	st, err := openRunStore(cfg, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if historyShow != "" {
		run, err := st.Get(historyShow)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(run)
	}

	runs, err := st.List(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tPERSONA\tDOCS\tSECTIONS\tPARAGRAPHS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Persona, r.Documents, r.Sections, r.Fragments)
	}
	return tw.Flush()
}

func openRunStore(cfg *config.Config, dbPath string) (port.RunStore, error) {
	st, err := store.NewBoltRunStore(dbPath, cfg)
	if err != nil {
		return nil, err
	}
	return st, nil
}
