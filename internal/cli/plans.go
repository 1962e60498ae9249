package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ynishioka/shindan/internal/model"
	"github.com/ynishioka/shindan/internal/plan"
)

// plansCmd represents the plans command
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List the recommendable plan catalog",
	Long: `Display every plan the engine can recommend, with price, data and
call allowances. The reserved entry tier is not part of the catalog and
never appears here.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tDATA/DAY\tCALLS")
		for _, p := range plan.Catalog() {
			calls := fmt.Sprintf("%d分/回", p.CallAllowanceMinutes)
			if p.CallAllowanceMinutes == model.CallAllowanceUnlimited {
				calls = "24時間かけ放題"
			}
			fmt.Fprintf(w, "%s\t%s\t¥%d\t%dGB\t%s\n",
				p.ID, p.Name, p.MonthlyPrice, p.DataAllowanceGBPerDay, calls)
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
}
