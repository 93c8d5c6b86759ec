package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
)

func newClassifyCmd(a *app) *cobra.Command {
	var (
		detailed bool
		device   string
	)

	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify sentiment of a single text",
		Example: `  fnc classify "The stock market looks bullish today."
  fnc classify --detailed "Fed signals rate cuts ahead"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.uc.ClassifyText(cmd.Context(), args[0], device)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (%.2f%%)\n", record.Sentiment, record.Confidence*100)
			if detailed {
				fmt.Println("\nSentiment scores:")
				printScores(record.Scores)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "show all sentiment scores")
	cmd.Flags().StringVar(&device, "device", "", "compute device: cpu or cuda")
	return cmd
}

// printScores renders one bar per class, highest first.
func printScores(scores map[entity.Sentiment]float64) {
	type labelScore struct {
		label entity.Sentiment
		score float64
	}
	ordered := make([]labelScore, 0, len(scores))
	for label, score := range scores {
		ordered = append(ordered, labelScore{label, score})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].score > ordered[j].score })

	for _, ls := range ordered {
		filled := int(ls.score * 20)
		bar := strings.Repeat("#", filled) + strings.Repeat(".", 20-filled)
		fmt.Printf("  %-8s [%s] %6.2f%%\n", ls.label, bar, ls.score*100)
	}
}
