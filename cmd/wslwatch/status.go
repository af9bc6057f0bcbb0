package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hamed0406/wslwatch/internal/domain"
)

var (
	statusURL  string
	statusJSON bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the labels of a running watcher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		base := statusURL
		if base == "" {
			base = os.Getenv("API_BASE")
		}
		if base == "" {
			base = "http://127.0.0.1:8080"
		}
		if !strings.Contains(base, "://") {
			base = "http://" + base
		}

		snap, err := fetchStatus(cmd, strings.TrimRight(base, "/")+"/api/status")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if statusJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		return renderStatus(out, snap)
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusURL, "url", "", "watcher base URL (default $API_BASE or http://127.0.0.1:8080)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the raw snapshot")
}

func fetchStatus(cmd *cobra.Command, url string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return snap, err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return snap, fmt.Errorf("contacting watcher: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("watcher returned status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode status: %w", err)
	}
	return snap, nil
}

func renderStatus(w io.Writer, snap domain.Snapshot) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	table.Append([]string{"Title", snap.Title})
	table.Append([]string{"Service", snap.Service})
	table.Append([]string{"Status", snap.Status.Text})
	table.Append([]string{"Level", string(snap.Status.Level)})
	table.Append([]string{"Clock", snap.Clock})
	if snap.LastSuccess != nil {
		table.Append([]string{"Last active", snap.LastSuccess.Local().Format(time.RFC3339)})
	}
	return table.Render()
}
