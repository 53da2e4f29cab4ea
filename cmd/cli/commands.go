package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(matchDetailsCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(retryQueueCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <matchID>",
	Short: "Search and enrich a live match, streaming status updates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/search?matchID=" + url.QueryEscape(args[0]))
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <matchID>",
	Short: "Show the cached enrichment for a match, if any",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/match?matchID=" + url.QueryEscape(args[0]))
	},
}

var matchDetailsCmd = &cobra.Command{
	Use:   "match-details <matchID> <accountID>",
	Short: "Show a player's final build and stats for a past match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/match-details?matchID=" + url.QueryEscape(args[0]) + "&accountID=" + url.QueryEscape(args[1]))
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show the remaining spectator-lookup budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/budget")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the recent search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/history")
	},
}

var retryQueueCmd = &cobra.Command{
	Use:   "retry-queue",
	Short: "Show the metadata retry queue size",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/retry-queue")
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [matchID]",
	Short: "Clear the match cache, or a single match entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/clear"
		if len(args) == 1 {
			endpoint += "?matchID=" + url.QueryEscape(args[0])
		}
		return performGetRequest(endpoint)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
