package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
	"github.com/TADSTech/financial-news-classifier/internal/usecase"
)

// previewRows caps how many results the batch and rss tables print.
const previewRows = 20

func newBatchCmd(a *app) *cobra.Command {
	var (
		column    string
		output    string
		format    string
		batchSize int
		device    string
	)

	cmd := &cobra.Command{
		Use:   "batch <path>",
		Short: "Classify texts from a file (CSV, JSON, TXT, MD)",
		Example: `  fnc batch data.csv --output results.csv
  fnc batch headlines.csv --column headline --format json --output out.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.uc.ClassifyFile(cmd.Context(), &usecase.BatchInput{
				Path:       args[0],
				Column:     column,
				BatchSize:  batchSize,
				OutputPath: output,
				Format:     format,
				Device:     device,
			})
			if err != nil {
				return err
			}

			printResults(records, false)
			if output != "" {
				fmt.Printf("Results saved to %s\n\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "CSV column name (auto-detected when omitted)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save results to file")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv, json, txt")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "inference batch size (default 32)")
	cmd.Flags().StringVar(&device, "device", "", "compute device: cpu or cuda")
	return cmd
}

// printResults renders a preview table of classified records on stdout.
func printResults(records []*entity.Prediction, withSource bool) {
	fmt.Printf("\nClassified %d texts\n\n", len(records))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	if withSource {
		fmt.Fprintln(w, "#\tTEXT\tSENTIMENT\tCONFIDENCE\tSOURCE")
	} else {
		fmt.Fprintln(w, "#\tTEXT\tSENTIMENT\tCONFIDENCE")
	}

	for i, record := range records {
		if i >= previewRows {
			break
		}
		if withSource {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f%%\t%s\n",
				i+1, truncate(record.Text, 50), record.Sentiment,
				record.Confidence*100, truncate(record.Source, 20))
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f%%\n",
				i+1, truncate(record.Text, 50), record.Sentiment, record.Confidence*100)
		}
	}
	w.Flush()

	if len(records) > previewRows {
		fmt.Printf("\nShowing %d of %d results\n", previewRows, len(records))
	}
	fmt.Println()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
