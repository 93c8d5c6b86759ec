package sink

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/domain/entity"
	"github.com/TADSTech/financial-news-classifier/internal/domain/service"
)

func sampleRecords() []*entity.Prediction {
	return []*entity.Prediction{
		{
			Text:       "Stock market hits all-time high",
			Sentiment:  entity.SentimentBullish,
			Confidence: 0.9231,
			Scores: map[entity.Sentiment]float64{
				entity.SentimentBullish: 0.9231,
				entity.SentimentBearish: 0.0312,
				entity.SentimentNeutral: 0.0457,
			},
		},
		{
			Text:       "Factory orders fall for third month",
			Sentiment:  entity.SentimentBearish,
			Confidence: 0.8114,
		},
	}
}

func newTestWriter() *Writer {
	return NewWriter(zap.NewNop())
}

func TestSaveCSV(t *testing.T) {
	t.Run("writes header and rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		require.NoError(t, newTestWriter().Save(sampleRecords(), path, FormatCSV))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"text", "sentiment", "confidence"}, rows[0])
		assert.Equal(t, []string{"Stock market hits all-time high", "Bullish", "0.9231"}, rows[1])
	})

	t.Run("adds metadata columns for feed records", func(t *testing.T) {
		records := sampleRecords()
		records[0].Source = "Example Markets"
		records[0].Published = time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)
		path := filepath.Join(t.TempDir(), "out.csv")

		require.NoError(t, newTestWriter().Save(records, path, FormatCSV))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"text", "sentiment", "confidence", "source", "published"}, rows[0])
		assert.Equal(t, "Example Markets", rows[1][3])
		assert.Equal(t, "2025-01-06T09:30:00Z", rows[1][4])
		assert.Equal(t, "", rows[2][4]) // record without metadata stays blank
	})
}

func TestSaveJSONRoundTrip(t *testing.T) {
	records := sampleRecords()
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, newTestWriter().Save(records, path, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []*entity.Prediction
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, len(records))

	for i, record := range records {
		assert.Equal(t, record.Text, decoded[i].Text)
		assert.Equal(t, record.Sentiment, decoded[i].Sentiment)
		assert.Equal(t, record.Confidence, decoded[i].Confidence)
	}
}

func TestSaveTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, newTestWriter().Save(sampleRecords(), path, FormatTXT))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Text: Stock market hits all-time high")
	assert.Contains(t, content, "Sentiment: Bullish")
	assert.Contains(t, content, "Confidence: 0.9231")
	assert.Equal(t, 2, strings.Count(content, strings.Repeat("-", 80)))
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.json")

	require.NoError(t, newTestWriter().Save(sampleRecords(), path, FormatJSON))

	assert.FileExists(t, path)
}

func TestSaveUnsupportedFormat(t *testing.T) {
	err := newTestWriter().Save(sampleRecords(), filepath.Join(t.TempDir(), "out.xml"), "xml")

	assert.ErrorIs(t, err, service.ErrUnsupportedFormat)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, IsValidFormat("csv"))
	assert.True(t, IsValidFormat("json"))
	assert.True(t, IsValidFormat("txt"))
	assert.False(t, IsValidFormat("xml"))
	assert.False(t, IsValidFormat(""))
}
