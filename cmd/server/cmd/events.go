package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/campus-events/server/internal/domain/events"
	"github.com/spf13/cobra"
)

type eventsQuery struct {
	server  string
	search  string
	branch  string
	status  string
	limit   int
	format  string
	timeout time.Duration
}

var eventsOpts eventsQuery

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Query events from a running server",
	Long: `Query and list events from a running server.

Filters are combined: search matches the event name or description
case-insensitively, branch must match exactly, and status is one of
upcoming, ongoing or completed.

Examples:
  # Upcoming tech events
  server events --q tech --status upcoming

  # Everything in the CSE branch as JSON
  server events --branch cse --format json

  # Query a remote server
  server events --server https://events.example.edu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEventsQuery(cmd.Context(), cmd.OutOrStdout(), eventsOpts)
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsOpts.server, "server", "http://localhost:8080", "server URL")
	eventsCmd.Flags().StringVar(&eventsOpts.search, "q", "", "search text")
	eventsCmd.Flags().StringVar(&eventsOpts.branch, "branch", "", "branch id")
	eventsCmd.Flags().StringVar(&eventsOpts.status, "status", "", "event status")
	eventsCmd.Flags().IntVarP(&eventsOpts.limit, "limit", "n", 50, "maximum number of events")
	eventsCmd.Flags().StringVar(&eventsOpts.format, "format", "table", "output format (table, json)")
	eventsCmd.Flags().DurationVar(&eventsOpts.timeout, "timeout", 10*time.Second, "request timeout")
}

func runEventsQuery(ctx context.Context, out io.Writer, q eventsQuery) error {
	params := url.Values{}
	if q.search != "" {
		params.Set("q", q.search)
	}
	if q.branch != "" {
		params.Set("branch", q.branch)
	}
	if q.status != "" {
		params.Set("status", q.status)
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	endpoint := strings.TrimRight(q.server, "/") + "/api/v1/events"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		Items []events.Event `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if q.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Items)
	}

	if len(result.Items) == 0 {
		fmt.Fprintln(out, "No events found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tBRANCH\tSTATUS\tREGISTERED")
	for _, ev := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\n",
			ev.ID, ev.Name, ev.Date, ev.BranchID, ev.Status, len(ev.RegisteredStudents), ev.Capacity)
	}
	return tw.Flush()
}
