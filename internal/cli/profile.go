package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/internal/segment"
)

var (
	profileInput  string
	profileOutput string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile the customer segments",
	Long: `Summarize each cluster by its mean Recency/Frequency/Monetary
values, name segments by spending rank, and write the final per-customer
segment table.

Example:
  retail-dw profile
  retail-dw profile --in rfm_clusters_with_scores.csv --out final_customer_segments.csv`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileInput, "in", "",
		"clustered CSV input path")
	profileCmd.Flags().StringVar(&profileOutput, "out", "final_customer_segments.csv",
		"named segment CSV output path")
}

func runProfile(cmd *cobra.Command, args []string) error {
	input := profileInput
	if input == "" {
		input = cfg.Segment.Output
	}

	rows, err := segment.ReadClusters(input)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cluster file not found at %s; run the segment stage first", input)
		}
		return err
	}

	profiles := segment.Profile(rows)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "cluster\tcustomers\trecency\tfrequency\tmonetary\tsegment")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%d\t%d\t%.0f\t%.1f\t%.2f\t%s\n",
			p.Cluster, p.Customers, p.MeanRecency, p.MeanFrequency, p.MeanMonetary, p.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := segment.WriteNamed(profileOutput, rows, profiles); err != nil {
		return err
	}

	logging.Info().
		Str("output", profileOutput).
		Int("segments", len(profiles)).
		Msg("Segment profile written")

	return nil
}
