package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/converter/internal/journal"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the conversion history of a running server",
	}
	cmd.AddCommand(newHistoryExportCmd(a))
	return cmd
}

func newHistoryExportCmd(a *app) *cobra.Command {
	var (
		server string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export conversion history as Parquet, YAML or JSON",
		Long: `Fetches the run history from a converter server and writes it locally.
History holds metadata only (feature, file name, size, pages, status, timing).`,
		Example: `  converter history export --format parquet -o history.parquet
  converter history export --server http://converter:8888 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = fmt.Sprintf("http://localhost:%d", a.cfg.Server.Port)
			}

			entries, err := fetchHistory(cmd, strings.TrimRight(server, "/")+"/api/history")
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "parquet":
				err = journal.WriteParquet(w, entries)
			case "yaml":
				err = journal.WriteYAML(w, entries)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				err = enc.Encode(entries)
			default:
				return fmt.Errorf("unsupported format: %s (supported: parquet, yaml, json)", format)
			}
			if err != nil {
				return err
			}

			slog.Info("History exported", "entries", len(entries), "format", format, "output", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (default: http://localhost:<server.port>)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (parquet, yaml, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func fetchHistory(cmd *cobra.Command, url string) ([]journal.Entry, error) {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("failed to fetch history: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []journal.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return entries, nil
}
