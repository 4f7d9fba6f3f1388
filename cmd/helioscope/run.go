package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sunwardlabs/helioscope/internal/agent"
)

// demoQueries exercise the main tool paths: coordinate analysis, delivery
// cost, and market research.
var demoQueries = []struct {
	description string
	query       string
}{
	{
		description: "Coordinate-based feasibility",
		query:       "Is it feasible to build a 20 MW solar farm at 37.2 N, -121.9 W?",
	},
	{
		description: "Power delivery cost",
		query:       "What would it cost to deliver power from a 20 MW plant at 37.2, -121.9 to San Jose, CA (37.3, -122.0)?",
	},
	{
		description: "Market research",
		query:       "What are the current California solar incentives and PPA rates?",
	},
}

func runQuery(cmd *cobra.Command, a *agent.Agent, q string) error {
	res, err := a.Analyze(cmd.Context(), q)
	if err != nil {
		return err
	}
	printResult(cmd, res)
	return nil
}

func runDemo(cmd *cobra.Command, a *agent.Agent) error {
	for i, d := range demoQueries {
		cmd.Printf("\n%s\nDemo %d: %s\n%s\n", strings.Repeat("=", 70), i+1, d.description, strings.Repeat("=", 70))
		cmd.Printf("Question: %s\n\n", d.query)

		res, err := a.Analyze(cmd.Context(), d.query)
		if err != nil {
			return err
		}
		printResult(cmd, res)
	}
	return nil
}

func runInteractive(cmd *cobra.Command, a *agent.Agent) error {
	cmd.Println("Welcome to helioscope (interactive mode).")
	cmd.Println("The model selects and calls data tools based on your queries.")
	cmd.Println("Type 'quit' or 'exit' to end the session.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cmd.Print("\nYour query: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			continue
		}
		if low := strings.ToLower(q); low == "quit" || low == "exit" {
			return nil
		}

		res, err := a.Analyze(cmd.Context(), q)
		if err != nil {
			return err
		}
		printResult(cmd, res)
	}
}

// printResult shows the executed tool calls, then the answer rendered as
// terminal markdown. Rendering failures fall back to plain text.
func printResult(cmd *cobra.Command, res *agent.Result) {
	for _, step := range res.Steps {
		cmd.Printf("[tool] %s %s\n", step.Tool, step.Args)
	}
	if len(res.Steps) > 0 {
		cmd.Println()
	}
	cmd.Println(renderMarkdown(res.Answer))
}

func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
