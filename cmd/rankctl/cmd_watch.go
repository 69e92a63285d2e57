package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Ranker/internal/hermes"
)

type watchOptions struct {
	url     string
	subject string
	raw     bool
}

func newWatchCommand(root *rootOptions) *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow ranking run events",
		Long: `Subscribe to ranking run events on NATS and print one line per event
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "nats-url", "", "NATS server URL (defaults to the configured hermes url)")
	cmd.Flags().StringVar(&opts.subject, "subject", hermes.SubjectRunWildcard, "subject to subscribe to")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print event payloads unformatted")

	return cmd
}

func runWatch(cmd *cobra.Command, root *rootOptions, opts *watchOptions) error {
	url := opts.url
	if url == "" {
		cfg, err := root.load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		url = cfg.Hermes.URL
	}

	ctx := cmd.Context()
	client, err := hermes.NewNATSClient(ctx, url, "rankctl", root.logger(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", url, err)
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	err = client.Subscribe(opts.subject, func(subject string, data []byte) {
		line := string(data)
		if !opts.raw {
			line = formatEvent(subject, data)
		}
		mu.Lock()
		fmt.Fprintln(out, line)
		mu.Unlock()
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", opts.subject, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s on %s\n", opts.subject, url)
	<-ctx.Done()
	return nil
}

// formatEvent renders a run event as one human readable line. Payloads that
// do not decode are printed as-is.
func formatEvent(subject string, data []byte) string {
	switch {
	case subject == hermes.SubjectRunFailed:
		var ev hermes.RunFailedEvent
		if json.Unmarshal(data, &ev) == nil {
			return fmt.Sprintf("%s FAILED   %s/%s %s: %s",
				ev.Timestamp.Format("15:04:05"), ev.Kind, ev.Mode, ev.Reason, ev.Error)
		}
	case strings.HasSuffix(subject, ".completed"):
		var ev hermes.RunCompletedEvent
		if json.Unmarshal(data, &ev) == nil {
			return fmt.Sprintf("%s DONE     %s %s (%s, %d candidates, %.2fs) best=%s %q %.4f",
				ev.Timestamp.Format("15:04:05"), ev.Kind, ev.RunID, ev.Method, ev.CandidatesCount,
				ev.ExecutionTime, ev.BestID, ev.BestName, ev.BestScore)
		}
	case strings.HasSuffix(subject, ".progress"):
		var ev hermes.RunProgressEvent
		if json.Unmarshal(data, &ev) == nil {
			return fmt.Sprintf("%s PROGRESS %s %d/%d",
				ev.Timestamp.Format("15:04:05"), ev.Kind, ev.Processed, ev.Total)
		}
	}
	return subject + " " + string(data)
}
