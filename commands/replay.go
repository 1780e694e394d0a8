package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/penwyp/go-agent-meter/internal/application/meter"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/data/events"
	"github.com/penwyp/go-agent-meter/internal/metrics"
	"github.com/penwyp/go-agent-meter/internal/presentation/display"
	"github.com/penwyp/go-agent-meter/internal/presentation/formatter"
	"github.com/penwyp/go-agent-meter/internal/util"
	"github.com/spf13/cobra"
)

var (
	replayFollow      bool
	replayOutput      string
	replayMetricsAddr string
)

var replayCmd = &cobra.Command{
	Use:   "replay <events.jsonl>",
	Short: "Price and track an agent event file",
	Long: `Feeds an agent event file into a fresh ledger and step tracker, then
prints a per-model cost report.

Each line is one JSON event:
  {"type":"record","service":"openai","model":"gpt-4","input":1200,"output":300}
  {"type":"record","service":"clearbit","model":"enrich","cost":0.05}
  {"type":"start","task":"Research","total":3}
  {"type":"step","label":"search"}
  {"type":"current","label":"enrich"}
  {"type":"complete"}

With --follow the file is watched and new events are applied as they are
appended, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayFollow, "follow", "f", false,
		"Keep watching the file for new events")
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "table",
		"Report format (table, json, csv, summary)")
	replayCmd.Flags().StringVar(&replayMetricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g. :9464)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	report, err := formatter.NewFormatter(replayOutput)
	if err != nil {
		return err
	}

	config, err := meterConfig()
	if err != nil {
		return err
	}
	config.MetricsAddr = replayMetricsAddr

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	terminal := newTerminal(cmd.OutOrStdout())
	session, err := meter.NewSession(ctx, config, terminal, terminal, config.MetricsAddr != "")
	if err != nil {
		return err
	}

	if session.Collector != nil {
		shutdown := serveMetrics(config.MetricsAddr, session.Collector)
		defer shutdown()
	}

	path := expandPath(args[0])
	if replayFollow {
		err = followEvents(ctx, path, session.Orchestrator)
	} else {
		err = replayEvents(cmd.ErrOrStderr(), path, session.Orchestrator)
	}
	if err != nil {
		return err
	}

	applied, ignored := session.Orchestrator.Counts()
	util.LogInfof("Replay finished: applied=%d ignored=%d total_cost=%.6f",
		applied, ignored, session.Orchestrator.Ledger().TotalCost())

	return report.Format(cmd.OutOrStdout(), session.Orchestrator.Report())
}

func replayEvents(errOut io.Writer, path string, orchestrator *meter.Orchestrator) error {
	result, err := events.ReadFile(path)
	if err != nil {
		return err
	}
	if result.Skipped > 0 {
		fmt.Fprintf(errOut, "Skipped %d invalid event lines\n", result.Skipped)
	}

	for _, event := range result.Events {
		orchestrator.Apply(event)
	}
	return nil
}

func followEvents(ctx context.Context, path string, orchestrator *meter.Orchestrator) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	feed := make(chan model.Event, 64)
	followErr := make(chan error, 1)
	go func() {
		followErr <- events.NewFollower(path).Run(ctx, feed)
		cancel()
	}()

	err := orchestrator.Run(ctx, feed)
	cancel()
	if ferr := <-followErr; ferr != nil {
		return ferr
	}

	// Apply what the follower emitted after Run stopped, including a
	// trailing line without a newline
	for drained := false; !drained; {
		select {
		case event := <-feed:
			orchestrator.Apply(event)
		default:
			drained = true
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// newTerminal uses the real terminal when w is a file and a plain line
// writer otherwise
func newTerminal(w io.Writer) *display.Terminal {
	if f, ok := w.(*os.File); ok {
		return display.NewTerminal(f)
	}
	return display.NewWriterTerminal(w, false, 0)
}

func serveMetrics(addr string, collector *metrics.Collector) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		util.LogInfof("Serving metrics on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.LogErrorf("Metrics server failed: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
