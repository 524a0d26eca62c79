// Package main is the entry point for the cricmetrics CLI tool, which turns
// ball-by-ball cricket logs into per-player situational metrics and answers
// tactical questions grounded in them.
package main

import "github.com/pable/go-cricket-metrics/cmd"

func main() {
	cmd.Execute()
}
