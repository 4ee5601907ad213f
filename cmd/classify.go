package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/surveylens/brandcheck/internal/model"
)

var (
	classifyImages      []string
	classifyLanguage    string
	classifyCategory    string
	classifyResultsPath string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Validate one respondent answer",
	Long:  "Collects evidence for the answer text, fuses it and prints the decision as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, "classify")
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.ResponseRequest{
			Text:         args[0],
			Images:       classifyImages,
			LanguageCode: classifyLanguage,
			Category:     classifyCategory,
		}

		if classifyResultsPath != "" {
			results, err := loadSearchResults(classifyResultsPath)
			if err != nil {
				return err
			}
			req.SearchResults = results
		}

		decision, err := env.Engine.ClassifyResponse(ctx, req)
		if err != nil {
			return err
		}

		return printJSON(decision)
	},
}

// loadSearchResults reads pre-fetched search results from a JSON file, either
// a bare array or an object with a "results" key.
func loadSearchResults(path string) ([]model.SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read search results %s", path)
	}

	var results []model.SearchResult
	if err := json.Unmarshal(data, &results); err == nil {
		return results, nil
	}

	var wrapped struct {
		Results []model.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, eris.Wrapf(err, "parse search results %s", path)
	}
	return wrapped.Results, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}

func init() {
	classifyCmd.Flags().StringArrayVar(&classifyImages, "image", nil, "respondent image URL (repeatable)")
	classifyCmd.Flags().StringVar(&classifyLanguage, "language", "", "respondent language code (BCP-47)")
	classifyCmd.Flags().StringVar(&classifyCategory, "category", "", "declared survey category")
	classifyCmd.Flags().StringVar(&classifyResultsPath, "results", "", "JSON file with pre-fetched search results")
	rootCmd.AddCommand(classifyCmd)
}
