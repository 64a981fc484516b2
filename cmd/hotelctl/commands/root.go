// Package commands implements the hotelctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"hotelcms/internal/client"
)

var (
	// Global flags
	serverURL  string
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hotelctl",
	Short: "Command line client for the hotel CMS API",
	Long: `hotelctl reads room categories, prices and gallery items from a hotel CMS
server and runs admin operations against it.

Admin commands sign in first with --username and --password (or the
HOTELCTL_USERNAME and HOTELCTL_PASSWORD environment variables).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("HOTELCTL_SERVER", "http://localhost:8080"), "API server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Timeout for each request attempt")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", client.DefaultRetries, "Retries for transient failures")
	rootCmd.PersistentFlags().DurationVar(&retryDelay, "retry-delay", client.DefaultRetryDelay, "Fixed delay between retries")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// newClient builds an API client from the global flags.
func newClient() (*client.Client, error) {
	return client.New(serverURL,
		client.WithTimeout(timeout),
		client.WithRetries(retries),
		client.WithRetryDelay(retryDelay),
	)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
