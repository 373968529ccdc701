package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"starlog/internal/classifier"
	"starlog/internal/hub"
	"starlog/internal/journal"
	"starlog/internal/metrics"
	"starlog/internal/model"
	"starlog/internal/output"
	"starlog/internal/server"
	"starlog/internal/store"
)

var (
	port           string
	pollInterval   time.Duration
	bufferCapacity int
	checkpointPath string
	retentionHours int
	noFeed         bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [journal-dir]",
	Short: "Watch a journal directory and serve state and history",
	Long: `Watch the game's journal directory, follow the active journal file across
rotation, and serve the derived game state, event history, and a live
event stream over HTTP.

Examples:
  starlog watch ~/.local/share/EliteDangerous/Journals
  starlog watch "C:\Users\cmdr\Saved Games\Frontier Developments\Elite Dangerous"
  starlog watch ./journals --port 8787 --capacity 50000`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&port, "port", "p", "8787", "HTTP port for the query API")
	watchCmd.Flags().DurationVar(&pollInterval, "poll-interval", journal.DefaultPollInterval, "journal poll interval")
	watchCmd.Flags().IntVar(&bufferCapacity, "capacity", store.DefaultCapacity, "event buffer capacity")
	watchCmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "checkpoint file for resuming offsets (empty disables)")
	watchCmd.Flags().IntVar(&retentionHours, "retention-hours", 0, "periodically drop events older than this (0 disables)")
	watchCmd.Flags().BoolVar(&noFeed, "no-feed", false, "disable the terminal event feed")

	_ = viper.BindPFlag("port", watchCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("capacity", watchCmd.Flags().Lookup("capacity"))
	_ = viper.BindPFlag("retention_hours", watchCmd.Flags().Lookup("retention-hours"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	log, err := buildLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	journalDir := args[0]
	if fi, err := os.Stat(journalDir); err != nil || !fi.IsDir() {
		return fmt.Errorf("journal directory %q is not accessible", journalDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cancel()
	}()

	m := metrics.New()

	// --- Tailer: journal lines -> raw records ---
	records := make(chan model.RawRecord, 512)
	tailerOpts := []journal.TailerOption{
		journal.WithPollInterval(pollInterval),
		journal.WithTailerLogger(log.Named("journal")),
		journal.WithLineObserver(m.LinesDelivered.Inc, m.DecodeErrors.Inc),
	}
	if checkpointPath != "" {
		ckpt, err := journal.NewCheckpoint(checkpointPath)
		if err != nil {
			return fmt.Errorf("loading checkpoint: %w", err)
		}
		tailerOpts = append(tailerOpts, journal.WithCheckpoint(ckpt))
	}
	tailer := journal.NewTailer(journalDir, tailerOpts...)
	tailer.SetSink(func(r model.RawRecord) { records <- r })

	// --- Hub: raw records -> classified events, fanned out ---
	cls := classifier.New()
	h := hub.New(records, cls, log.Named("hub"))

	// --- Store: classified events -> state + history ---
	st := store.New(
		store.WithCapacity(bufferCapacity),
		store.WithLogger(log.Named("store")),
		store.WithObserver(func(ev model.ProcessedEvent, evicted int) {
			m.EventsStored.Inc()
			m.EventsByCat.WithLabelValues(string(ev.Category)).Inc()
			if !ev.IsValid {
				m.InvalidEvents.Inc()
			}
			m.EventsEvicted.Add(float64(evicted))
		}),
	)

	// The hub runs until the records channel closes, not until ctx is
	// cancelled: the tailer's final drain must still find a consumer.
	go h.Start(context.Background())

	ingested := h.Subscribe()
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		for ev := range ingested {
			if err := st.StoreEvent(ev); err != nil {
				log.Error("event ingestion failed", zap.Error(err))
			}
			m.BufferOccupancy.Set(float64(st.Statistics().BufferSize))
		}
	}()

	// --- Terminal feed ---
	if !noFeed {
		var renderer output.Renderer
		switch strings.ToLower(outputFmt) {
		case "json":
			renderer = output.NewJSONRenderer()
		default:
			renderer = output.NewTextRenderer()
		}
		feed := h.Subscribe()
		go func() {
			for ev := range feed {
				if err := renderer.Render(ev); err != nil {
					log.Warn("render error", zap.Error(err))
				}
			}
		}()
	}

	// --- Periodic retention cleanup ---
	if retentionHours > 0 {
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					st.CleanupOlderThan(retentionHours)
				}
			}
		}()
	}

	// --- Tailer ---
	if err := tailer.Start(ctx); err != nil {
		return fmt.Errorf("starting tailer: %w", err)
	}

	// --- Query server ---
	srv := server.New(st, h, m, log.Named("server"), port)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error("query server stopped", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	tailer.Stop()
	close(records)
	<-ingestDone
	return nil
}

func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
