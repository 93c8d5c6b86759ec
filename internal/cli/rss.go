package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TADSTech/financial-news-classifier/internal/usecase"
)

func newRSSCmd(a *app) *cobra.Command {
	var (
		maxEntries int
		output     string
		format     string
		device     string
	)

	cmd := &cobra.Command{
		Use:   "rss <url>",
		Short: "Fetch and classify RSS feed headlines",
		Example: `  fnc rss https://feeds.bloomberg.com/markets/news.rss
  fnc rss https://example.com/feed.rss --max 30 --output results.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.uc.ClassifyFeed(cmd.Context(), &usecase.FeedInput{
				URL:        args[0],
				MaxEntries: maxEntries,
				OutputPath: output,
				Format:     format,
				Device:     device,
			})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("\nFeed has no entries")
				return nil
			}

			printResults(records, true)
			if output != "" {
				fmt.Printf("Results saved to %s\n\n", output)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxEntries, "max", "m", 20, "max headlines to fetch")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save results to file")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv, json, txt")
	cmd.Flags().StringVar(&device, "device", "", "compute device: cpu or cuda")
	return cmd
}
