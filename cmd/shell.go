package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/agent"
	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the stored metrics. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	store, closeDB, err := loadStore()
	if err != nil {
		return err
	}
	defer closeDB()

	client, err := buildLLMClient(cmd, cfg.LLM)
	if err != nil {
		cWarn.Fprintf(os.Stderr, "model backend unavailable, answering locally: %v\n", err)
	}
	ag := agent.New(client, cfg.LLM.Timeout, slog.Default())

	cGreeting.Println("cricmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	return shellLoop(cmd, store, ag, os.Stdin)
}

func shellLoop(cmd *cobra.Command, store *metrics.Store, ag *agent.Agent, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		cPrompt.Print("cricmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			report.PrintPlayers(os.Stdout, store)
		case "phase":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: phase <powerplay|middle|death|overall>")
				continue
			}
			shellPhase(store, args[0])
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			shellPlayer(store, strings.Join(args, " "))
		case "ask":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: ask <question>")
				continue
			}
			shellAsk(cmd, store, ag, strings.Join(args, " "))
		default:
			// Bare text is a question.
			shellAsk(cmd, store, ag, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"ask <question>", "answer a tactical question from the data"},
		{"player <name>", "cross-match profile for a player"},
		{"phase <name>", "strike-rate ranking for an entry phase"},
		{"list", "list all players"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
	cMuted.Println("  any other input is treated as a question")
	fmt.Println()
}

func shellPhase(store *metrics.Store, arg string) {
	phase, err := parsePhase(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	standings := store.TopPerformers(phase, cfg.MinMatches, cfg.TopN)
	report.PrintStandings(os.Stdout, phase, standings, cfg.MinMatches)
}

func shellPlayer(store *metrics.Store, name string) {
	extractor := query.NewExtractor(store.Players())
	keys := []string{name}
	if _, err := store.Profile(name); err != nil {
		bundle := extractor.Extract(name)
		if len(bundle.Players) == 0 {
			cError.Fprintf(os.Stderr, "no player matching %q\n", name)
			return
		}
		keys = bundle.Players
	}
	for _, key := range keys {
		p, err := store.Profile(key)
		if err != nil {
			cError.Fprintf(os.Stderr, "profile %s: %v\n", key, err)
			continue
		}
		report.PrintProfile(os.Stdout, p)
	}
}

func shellAsk(cmd *cobra.Command, store *metrics.Store, ag *agent.Agent, question string) {
	extractor := query.NewExtractor(store.Players())
	bundle := extractor.Extract(question)
	actions := query.Plan(bundle, cfg.MaxProfileActions)
	executor := query.NewExecutor(store, cfg.MinMatches, cfg.TopN)
	obs := executor.Observe(bundle, actions)
	resp := ag.Respond(cmd.Context(), question, bundle, obs)
	report.PrintResponse(os.Stdout, resp)
}
