package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	healthcheckCmd = &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is ready",
		Long: `Performs a readiness check by calling the /readyz endpoint.

Used by container HEALTHCHECK directives. Exits non-zero when the server
is unreachable or reports itself unhealthy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := healthcheckURL
			if url == "" {
				port := os.Getenv("SERVER_PORT")
				if port == "" {
					port = "8080"
				}
				url = fmt.Sprintf("http://localhost:%s/readyz", port)
			}
			return runHealthcheck(cmd.Context(), cmd.OutOrStdout(), url, healthcheckTimeout)
		},
	}

	healthcheckTimeout time.Duration
	healthcheckURL     string
)

func init() {
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", 5*time.Second, "request timeout")
	healthcheckCmd.Flags().StringVar(&healthcheckURL, "url", "", "readiness URL (default: http://localhost:{SERVER_PORT}/readyz)")
}

// healthResponse matches the body served by the readiness handler.
type healthResponse struct {
	Status string                    `json:"status"`
	Checks map[string]map[string]any `json:"checks,omitempty"`
}

func runHealthcheck(ctx context.Context, out io.Writer, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("invalid health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || health.Status != "healthy" {
		return fmt.Errorf("server unhealthy: status %d (%s)", resp.StatusCode, health.Status)
	}

	fmt.Fprintf(out, "Server is %s\n", health.Status)
	return nil
}
