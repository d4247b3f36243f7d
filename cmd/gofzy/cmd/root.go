// Package cmd provides the CLI commands for gofzy.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/gofzy/internal/async"
	"github.com/Aman-CERP/gofzy/internal/config"
	"github.com/Aman-CERP/gofzy/internal/control"
	"github.com/Aman-CERP/gofzy/internal/history"
	"github.com/Aman-CERP/gofzy/internal/logging"
	"github.com/Aman-CERP/gofzy/internal/preflight"
	"github.com/Aman-CERP/gofzy/internal/profiling"
	"github.com/Aman-CERP/gofzy/internal/query"
	"github.com/Aman-CERP/gofzy/internal/reader"
	"github.com/Aman-CERP/gofzy/internal/telemetry"
	"github.com/Aman-CERP/gofzy/internal/tui"
	"github.com/Aman-CERP/gofzy/internal/ui"
	"github.com/Aman-CERP/gofzy/internal/walker"
	"github.com/Aman-CERP/gofzy/internal/watcher"
	"github.com/Aman-CERP/gofzy/pkg/version"
)

// Profiling flags.
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     = profiling.NewProfiler()
	cpuCleanup   func()
	traceCleanup func()
)

// Debug logging flag.
var (
	debugMode      bool
	loggingCleanup func()
)

// finderFlags holds every flag that shapes one finder session, mirroring
// the breadth of the root command's flag set the teacher registers
// directly on its root cobra.Command.
type finderFlags struct {
	cmdProducer string
	useWalker   bool
	read0       bool
	delimiter   string
	nth         string
	multi       bool
	noMulti     bool
	algorithm   string
	caseMode    string
	normalize   bool
	regex       bool
	previewCmd  string
	previewDelim string
	bindings    []string
	workers     int
	limit       int

	filter      string
	hasFilter   bool
	select1     bool
	exitZero    bool
	printQuery  bool
	printCmd    bool
	print0      bool
	outputFmt   string

	sync      bool
	noTUI     bool
	noColor   bool
	listen    string
	remote    string
	watch     bool
	history   bool
	stats     bool
}

// NewRootCmd creates the root command for gofzy.
func NewRootCmd() *cobra.Command {
	var flags finderFlags

	cmd := &cobra.Command{
		Use:   "gofzy",
		Short: "Interactive command-line fuzzy finder",
		Long: `gofzy is a general-purpose interactive filter: it reads lines from
stdin (or a producer command given with --cmd, or its own built-in
--walker directory listing), lets you fuzzy/exact/regex search them
live in a terminal UI, and writes the selected lines back to stdout.

Just pipe something into 'gofzy' to get started.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.hasFilter = cmd.Flags().Changed("filter")
			return runFinder(cmd.Context(), cmd, flags)
		},
	}

	cmd.SetVersionTemplate("gofzy version {{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	registerFinderFlags(cmd, &flags)

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.gofzy/logs/")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func registerFinderFlags(cmd *cobra.Command, f *finderFlags) {
	cmd.Flags().StringVar(&f.cmdProducer, "cmd", "", "Shell command whose stdout supplies the candidate list (default: read stdin)")
	cmd.Flags().BoolVar(&f.useWalker, "walker", false, "Use the built-in gitignore-aware directory walker as the producer")
	cmd.Flags().BoolVar(&f.read0, "read0", false, "Read NUL-separated records instead of newline-separated")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "Field delimiter for --nth and preview {k}/{a..b} (default: runs of whitespace)")
	cmd.Flags().StringVar(&f.nth, "nth", "", "Restrict matching to these fields, e.g. \"1,3..5,-1\"")
	cmd.Flags().BoolVar(&f.multi, "multi", false, "Allow selecting more than one item")
	cmd.Flags().BoolVar(&f.noMulti, "no-multi", false, "Disable multi-selection (default)")
	cmd.Flags().StringVar(&f.algorithm, "algo", "fuzzy", "Match algorithm: fuzzy, exact, or regex")
	cmd.Flags().StringVar(&f.caseMode, "case", "smart", "Case sensitivity: smart, respect, or ignore")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "Fold Latin diacritics before matching")
	cmd.Flags().BoolVar(&f.regex, "regex", false, "Start in regex match mode")
	cmd.Flags().StringVar(&f.previewCmd, "preview", "", "Shell command template for the preview pane ({}, {q}, {+}, {n}, {k}, {a..b})")
	cmd.Flags().StringVar(&f.previewDelim, "preview-delimiter", "", "Field delimiter for preview {k}/{a..b} (default: --delimiter)")
	cmd.Flags().StringArrayVar(&f.bindings, "bind", nil, "Custom key binding \"key:action\", repeatable")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Matcher worker pool size (0 = runtime.NumCPU())")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Cap the number of ranked results kept (0 = unlimited)")

	cmd.Flags().StringVar(&f.filter, "filter", "", "Non-interactive mode: print matches for this query and exit")
	cmd.Flags().BoolVar(&f.select1, "select-1", false, "Automatically select the only match, skipping interactive mode")
	cmd.Flags().BoolVar(&f.exitZero, "exit-0", false, "Exit with status 1 immediately if there are no matches")
	cmd.Flags().BoolVar(&f.printQuery, "print-query", false, "Print the final query before the selection")
	cmd.Flags().BoolVar(&f.printCmd, "print-cmd", false, "Print the final interactive command before the selection")
	cmd.Flags().BoolVar(&f.print0, "print0", false, "Separate output items with NUL instead of newline")
	cmd.Flags().StringVar(&f.outputFmt, "output-format", "", "Template expanding {}, {q}, {+}, {n} for each selected item")

	cmd.Flags().BoolVar(&f.sync, "sync", false, "Wait for the producer stream to fully drain before showing the UI")
	cmd.Flags().BoolVar(&f.noTUI, "no-tui", false, "Force the plain-text progress renderer for --sync (no ANSI)")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable ANSI color in the UI")
	cmd.Flags().StringVar(&f.listen, "listen", "", "Accept remote-control action chains on this Unix socket path")
	cmd.Flags().StringVar(&f.remote, "remote", "", "Send one action chain (\"accept\", \"down+down\", ...) to a --listen socket and exit")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "With --walker, re-run the directory listing when files change")
	cmd.Flags().BoolVar(&f.history, "history", false, "Browse past selections ranked by relevance, frequency, and recency instead of a fresh producer")
	cmd.Flags().BoolVar(&f.stats, "stats", false, "Record per-query latency and result-count telemetry, written to .gofzy/telemetry.json on exit")
}

// startProfilingAndLogging starts CPU/trace profiling and debug logging if flags are set.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error

	if debugMode {
		logCfg := logging.DebugConfig()
		logCfg.WriteToStderr = false // stderr belongs to the TUI while it runs
		logger, cleanup, err := logging.Setup(logCfg)
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	}

	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}

	if profileTrace != "" {
		traceCleanup, err = profiler.StartTrace(profileTrace)
		if err != nil {
			if cpuCleanup != nil {
				cpuCleanup()
			}
			return fmt.Errorf("failed to start trace: %w", err)
		}
	}

	return nil
}

// stopProfilingAndLogging stops profiling and logging, writes memory profile if requested.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}
	if loggingCleanup != nil {
		slog.Info("debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// exitError carries a specific process exit code up through cobra,
// the way the teacher's doctorError signals a non-zero exit without
// cobra printing its own usage text.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// ExitCode satisfies main's exitCoder interface.
func (e *exitError) ExitCode() int { return e.code }

// runFinder implements the default "just pipe something in" flow: build
// the producer, optionally remote-send a single action chain, optionally
// drain the producer synchronously under --sync, then hand off to either
// the non-interactive filter path or the interactive TUI.
func runFinder(ctx context.Context, cmd *cobra.Command, f finderFlags) error {
	if f.remote != "" {
		return runRemote(ctx, f)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}
	dataDir := filepath.Join(root, ".gofzy")

	producer, cleanup, err := buildProducer(ctx, f, dataDir)
	if err != nil {
		return fmt.Errorf("gofzy: %w", err)
	}
	defer cleanup()

	if err := preflightProjectRoot(ctx, root); err != nil {
		return err
	}

	if f.sync {
		producer, err = drainSync(ctx, producer, dataDir, f)
		if err != nil {
			return fmt.Errorf("gofzy: sync drain: %w", err)
		}
	}

	opts, err := buildFinderOptions(f, producer)
	if err != nil {
		return fmt.Errorf("gofzy: %w", err)
	}

	cmd.SetIn(nil) // the producer, not cobra, owns stdin from here on

	if f.hasFilter || f.select1 || f.exitZero {
		return runFilterMode(ctx, cmd, opts, f)
	}

	return runInteractive(ctx, cmd, opts, f, dataDir)
}

// buildProducer resolves --history/--cmd/--walker/stdin into a single byte
// stream. dataDir locates the project's history store for --history.
func buildProducer(ctx context.Context, f finderFlags, dataDir string) (io.Reader, func(), error) {
	noop := func() {}

	switch {
	case f.history:
		h, err := history.Open(dataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("history: %w", err)
		}
		defer func() { _ = h.Close() }()
		entries := h.All(0)
		var buf bytes.Buffer
		for _, e := range entries {
			buf.WriteString(e.Raw)
			buf.WriteByte('\n')
		}
		return &buf, noop, nil

	case f.cmdProducer != "":
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		c := exec.CommandContext(ctx, shell, "-c", f.cmdProducer)
		c.Stderr = os.Stderr
		out, err := c.StdoutPipe()
		if err != nil {
			return nil, noop, fmt.Errorf("producer command: %w", err)
		}
		if err := c.Start(); err != nil {
			return nil, noop, fmt.Errorf("producer command: %w", err)
		}
		return out, func() { _ = c.Wait() }, nil

	case f.useWalker:
		file, err := walkOnce(ctx)
		if err != nil {
			return nil, noop, err
		}
		return file, func() { _ = file.Close() }, nil

	default:
		return os.Stdin, noop, nil
	}
}

// walkOnce runs the built-in gitignore-aware directory walker over the
// current working directory. It is also the rescan producer for
// --watch mode: each filesystem change re-runs it from scratch.
func walkOnce(ctx context.Context) (*os.File, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	file, err := walker.New().Walk(ctx, walker.Options{Root: root, RespectGitignore: true})
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	return file, nil
}

// watchAndRescan runs a HybridWatcher over the working directory and
// calls model.Rescan on every debounced batch of filesystem events,
// re-triggering the Reader over a fresh walker pass exactly as
// internal/watcher's HybridWatcher/Debouncer pair does for the
// teacher's index reconciliation, generalized from reindexing chunks
// to re-walking the candidate list.
func watchAndRescan(ctx context.Context, model *tui.Model) {
	root, err := os.Getwd()
	if err != nil {
		slog.Error("watch: resolve working directory", slog.String("error", err.Error()))
		return
	}

	w, err := watcher.NewHybridWatcher(watcher.Options{})
	if err != nil {
		slog.Error("watch: start watcher", slog.String("error", err.Error()))
		return
	}
	if err := w.Start(ctx, root); err != nil {
		slog.Error("watch: start watcher", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.Events():
			if !ok {
				return
			}
			file, err := walkOnce(ctx)
			if err != nil {
				slog.Error("watch: rescan walker", slog.String("error", err.Error()))
				continue
			}
			model.Rescan(ctx, file)
		case err, ok := <-w.Errors():
			if !ok {
				continue
			}
			slog.Warn("watch: event error", slog.String("error", err.Error()))
		}
	}
}

// drainSync fully reads producer into memory, showing a read-progress
// UI while it runs, and returns a fresh reader over the buffered bytes
// so the finder's own reader.Reader replays it instantly — giving
// --sync's "no UI before EOF" guarantee without a second pass over the
// producer.
func drainSync(ctx context.Context, producer io.Reader, dataDir string, f finderFlags) (io.Reader, error) {
	if async.HasIncompleteLock(dataDir) {
		slog.Warn("previous --sync run appears to have crashed mid-drain", slog.String("data_dir", dataDir))
	}

	cfg := ui.NewConfig(os.Stderr, ui.WithForcePlain(f.noTUI), ui.WithNoColor(f.noColor))
	renderer := ui.NewRenderer(cfg)
	if err := renderer.Start(ctx); err != nil {
		return nil, err
	}

	bgReader := async.NewBackgroundReader(async.ReaderConfig{DataDir: dataDir})
	var buf bytes.Buffer
	start := time.Now()
	lines := 0

	bgReader.ReadFunc = func(_ context.Context, progress *async.ReadProgress) error {
		progress.SetStage(async.StageReading, 0)
		chunk := make([]byte, 64*1024)
		for {
			n, err := producer.Read(chunk)
			if n > 0 {
				buf.Write(chunk[:n])
				lines += bytes.Count(chunk[:n], []byte{'\n'})
				progress.UpdateItems(lines)
				renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageReading, Current: lines})
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}

	bgReader.Start(ctx)
	err := bgReader.Wait()

	renderer.Complete(ui.CompletionStats{
		Items:    lines,
		Duration: time.Since(start),
		Producer: ui.ProducerInfo{Source: producerSource(f)},
	})
	_ = renderer.Stop()

	if err != nil {
		return nil, err
	}
	return &buf, nil
}

func producerSource(f finderFlags) string {
	switch {
	case f.cmdProducer != "":
		return "command"
	case f.useWalker:
		return "walker"
	default:
		return "stdin"
	}
}

// buildFinderOptions turns parsed flags into tui.Options.
func buildFinderOptions(f finderFlags, producer io.Reader) (tui.Options, error) {
	mode, err := parseAlgorithm(f.algorithm, f.regex)
	if err != nil {
		return tui.Options{}, err
	}
	casePolicy, err := parseCasePolicy(f.caseMode)
	if err != nil {
		return tui.Options{}, err
	}

	bindings, err := parseBindings(f.bindings)
	if err != nil {
		return tui.Options{}, err
	}

	delim := byte('\n')
	if f.read0 {
		delim = 0
	}

	field := query.FieldRestriction{Delimiter: f.delimiter}
	if f.nth != "" {
		field.Ranges = reader.ParseFieldSpec(f.nth)
	}

	previewDelim := f.previewDelim
	if previewDelim == "" {
		previewDelim = f.delimiter
	}

	return tui.Options{
		Producer:       producer,
		Delimiter:      delim,
		Field:          field,
		DefaultMode:    mode,
		CasePolicy:     casePolicy,
		Normalize:      f.normalize,
		Multi:          f.multi && !f.noMulti,
		PreviewCommand: f.previewCmd,
		PreviewDelim:   previewDelim,
		Workers:        f.workers,
		Bindings:       bindings,
		Limit:          f.limit,
		PrintQuery:     f.printQuery,
		PrintCmd:       f.printCmd,
		NoColor:        f.noColor,
		Stats:          f.stats,
	}, nil
}

func parseAlgorithm(algo string, regex bool) (query.Mode, error) {
	if regex {
		return query.ModeRegex, nil
	}
	switch strings.ToLower(algo) {
	case "", "fuzzy":
		return query.ModeFuzzy, nil
	case "exact":
		return query.ModeExact, nil
	case "regex":
		return query.ModeRegex, nil
	default:
		return 0, fmt.Errorf("--algo must be fuzzy, exact, or regex, got %q", algo)
	}
}

func parseCasePolicy(mode string) (query.CasePolicy, error) {
	switch strings.ToLower(mode) {
	case "", "smart":
		return query.CaseSmart, nil
	case "respect":
		return query.CaseRespect, nil
	case "ignore":
		return query.CaseIgnore, nil
	default:
		return 0, fmt.Errorf("--case must be smart, respect, or ignore, got %q", mode)
	}
}

// parseBindings turns repeated "key:action" --bind flags into the map
// tui.Options.Bindings expects.
func parseBindings(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, b := range raw {
		key, action, ok := strings.Cut(b, ":")
		if !ok {
			return nil, fmt.Errorf("--bind %q: expected \"key:action\"", b)
		}
		out[key] = action
	}
	return out, nil
}

// runInteractive launches the bubbletea program and, once it exits,
// writes the selection to stdout per spec.md's output contract.
func runInteractive(ctx context.Context, cmd *cobra.Command, opts tui.Options, f finderFlags, dataDir string) error {
	root := cmd.OutOrStdout()

	model, err := tui.New(ctx, opts)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	model.AttachProgram(program)

	if f.listen != "" {
		pidFile := control.NewPIDFile(filepath.Join(dataDir, "gofzy.pid"))
		if err := pidFile.Write(); err != nil {
			slog.Warn("control: write PID file", slog.String("error", err.Error()))
		}
		defer func() { _ = pidFile.Remove() }()

		srv := control.NewServer("unix", f.listen, model)
		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				slog.Error("control socket stopped", slog.String("error", err.Error()))
			}
		}()
	}

	if f.watch && f.useWalker {
		go watchAndRescan(ctx, model)
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("gofzy: %w", err)
	}

	if f.stats {
		writeTelemetrySnapshot(dataDir, model.TelemetrySnapshot())
	}

	result := model.Result()
	recordHistory(dataDir, result.Selected)
	return writeResult(root, result, f)
}

// writeTelemetrySnapshot persists the session's --stats snapshot to the
// project's data directory, best-effort: a failure to write it must
// never block the finder from returning its result.
func writeTelemetrySnapshot(dataDir string, snapshot *telemetry.QueryMetricsSnapshot) {
	if snapshot == nil {
		return
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		slog.Warn("stats: marshal telemetry snapshot", slog.String("error", err.Error()))
		return
	}
	path := filepath.Join(dataDir, "telemetry.json")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		slog.Warn("stats: create data directory", slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("stats: write telemetry snapshot", slog.String("error", err.Error()))
		return
	}
	slog.Info("stats: wrote telemetry snapshot", slog.String("path", path), slog.Int64("total_queries", snapshot.TotalQueries))
}

// recordHistory notes each accepted selection against the history store,
// best-effort: a history store that fails to open (no project root, no
// writable data dir) must never block the finder from returning its result.
func recordHistory(dataDir string, selected []string) {
	if len(selected) == 0 {
		return
	}
	h, err := history.Open(dataDir)
	if err != nil {
		slog.Debug("history: open for recording", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = h.Close() }()
	for _, sel := range selected {
		if err := h.Record(sel); err != nil {
			slog.Debug("history: record selection", slog.String("error", err.Error()))
		}
	}
}

// writeResult writes the finder's Result to out per spec.md §6's output
// contract, then returns a process-exit-code-carrying error for
// no-match/abort/fatal outcomes.
func writeResult(out io.Writer, result tui.Result, f finderFlags) error {
	sep := "\n"
	if f.print0 {
		sep = "\x00"
	}

	if f.printQuery {
		_, _ = fmt.Fprint(out, result.Query, sep)
	}
	if f.printCmd {
		_, _ = fmt.Fprint(out, result.Command, sep)
	}

	if result.Aborted {
		return &exitError{code: 130, msg: "aborted"}
	}
	if result.Err != nil {
		return &exitError{code: 2, msg: result.Err.Error()}
	}
	if len(result.Selected) == 0 {
		return &exitError{code: 1, msg: "no match"}
	}

	for i, sel := range result.Selected {
		if f.outputFmt != "" {
			_, _ = fmt.Fprint(out, expandOutput(f.outputFmt, sel, result.Query, result.Selected, i), sep)
			continue
		}
		_, _ = fmt.Fprint(out, sel, sep)
	}
	return nil
}

// expandOutput substitutes {}, {q}, {+}, {n} in template, unquoted — the
// output-format case differs from preview.Expand's shell-quoting
// placeholders because the result is printed, not passed to a shell.
func expandOutput(template, focus, queryText string, selected []string, index int) string {
	var out strings.Builder
	for i := 0; i < len(template); {
		if template[i] != '{' {
			out.WriteByte(template[i])
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			out.WriteString(template[i:])
			break
		}
		end += i
		switch template[i+1 : end] {
		case "":
			out.WriteString(focus)
		case "q":
			out.WriteString(queryText)
		case "+":
			out.WriteString(strings.Join(selected, " "))
		case "n":
			out.WriteString(fmt.Sprintf("%d", index))
		default:
			out.WriteString(template[i : end+1])
		}
		i = end + 1
	}
	return out.String()
}

// runRemote sends a single action chain to a running --listen socket
// and exits, per spec.md §6's --remote contract.
func runRemote(ctx context.Context, f finderFlags) error {
	if f.listen == "" {
		return fmt.Errorf("gofzy: --remote requires --listen to name the socket path")
	}
	client := control.NewClient("unix", f.listen, 5*time.Second)
	reply, err := client.SendChain(ctx, f.remote)
	if err != nil {
		return fmt.Errorf("gofzy: remote: %w", err)
	}
	fmt.Println(reply)
	return nil
}

// preflightProjectRoot runs preflight checks silently the first time a
// data directory is seen, mirroring the teacher's smart-default flow.
func preflightProjectRoot(ctx context.Context, root string) error {
	dataDir := filepath.Join(root, ".gofzy")
	if !preflight.NeedsCheck(dataDir) {
		return nil
	}
	checker := preflight.New(preflight.WithOutput(io.Discard))
	results := checker.RunAll(ctx, root)
	if checker.HasCriticalFailures(results) {
		return fmt.Errorf("system check failed - run 'gofzy doctor' for diagnostics")
	}
	if err := preflight.MarkPassed(dataDir); err != nil {
		slog.Debug("failed to mark preflight as passed", slog.String("error", err.Error()))
	}
	return nil
}
