package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	apiKey  string
)

var rootCmd = &cobra.Command{
	Use:   "cachectl",
	Short: "administrative maintenance for the satellite image cache",
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "clear the satellite image cache on a running server",
	RunE:  runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	resolvedBase := baseURL
	if resolvedBase == "" {
		resolvedBase = os.Getenv("CACHE_ADMIN_BASE_URL")
	}
	if resolvedBase == "" {
		resolvedBase = "http://localhost:8080/api/v1"
	}
	resolvedBase = strings.TrimSuffix(resolvedBase, "/")

	resolvedKey := apiKey
	if resolvedKey == "" {
		resolvedKey = os.Getenv("CACHE_ADMIN_API_KEY")
	}

	endpoint := resolvedBase + "/satellite-image/cache/clear"

	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if resolvedKey != "" {
		req.Header.Set("x-api-key", resolvedKey)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	fmt.Println("Satellite image cache cleared successfully.")
	fmt.Println(strings.TrimSpace(string(body)))
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&baseURL, "base-url", "b", "", "API base URL (default http://localhost:8080/api/v1)")
	rootCmd.PersistentFlags().StringVarP(&apiKey, "api-key", "k", "", "administrative API key")
	rootCmd.AddCommand(clearCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
