package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/agent"
	"github.com/pable/go-cricket-metrics/internal/config"
	"github.com/pable/go-cricket-metrics/internal/llm"
	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var askLocal bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a tactical question grounded in the stored metrics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askLocal, "local", false, "skip the hosted model and answer from the local templates")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	store, closeDB, err := loadStore()
	if err != nil {
		return err
	}
	defer closeDB()

	var client llm.Client
	if !askLocal {
		client, err = buildLLMClient(cmd, cfg.LLM)
		if err != nil {
			// A missing key degrades to the local path; the pipeline still
			// answers.
			slog.Warn("model backend unavailable, answering locally", "err", err)
		}
	}

	extractor := query.NewExtractor(store.Players())
	bundle := extractor.Extract(question)
	actions := query.Plan(bundle, cfg.MaxProfileActions)
	executor := query.NewExecutor(store, cfg.MinMatches, cfg.TopN)
	obs := executor.Observe(bundle, actions)

	ag := agent.New(client, cfg.LLM.Timeout, slog.Default())
	resp := ag.Respond(cmd.Context(), question, bundle, obs)
	report.PrintResponse(os.Stdout, resp)
	return nil
}

func buildLLMClient(cmd *cobra.Command, c config.LLMConfig) (llm.Client, error) {
	switch strings.ToLower(c.Provider) {
	case "", "none":
		return nil, nil
	case "anthropic":
		client, err := llm.NewAnthropicClient(c.APIKey, c.Model, c.MaxTokens)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gemini":
		client, err := llm.NewGeminiClient(cmd.Context(), c.APIKey, c.Model)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", c.Provider)
}
