package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/google/uuid"
	"github.com/pfrederiksen/raid-report/internal/config"
	"github.com/pfrederiksen/raid-report/internal/logger"
	"github.com/pfrederiksen/raid-report/internal/metrics"
	"github.com/pfrederiksen/raid-report/internal/notifier"
	"github.com/pfrederiksen/raid-report/internal/raid"
	"github.com/pfrederiksen/raid-report/internal/report"
	"github.com/pfrederiksen/raid-report/internal/scraper"
	"github.com/pfrederiksen/raid-report/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitSendFailed = 2
)

const pushTimeout = 10 * time.Second

const noTableMessage = "Could not find raid results table in the HTML file."


// options holds flag values for one invocation
type options struct {
	root        string
	configFile  string
	envFile     string
	file        string
	rowSelector string
	format      string
	open        bool
	wait        bool
	waitTimeout time.Duration
	dryRun      bool
	verbose     bool
}

// app carries the I/O and collaborators of one invocation
type app struct {
	opts *options

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	openURL     func(url string)
	newNotifier func(webhookURL string) (notifier.Notifier, error)
	now         func() time.Time

	format   OutputFormat
	exitCode int
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		opts:        &options{},
		in:          bufio.NewReader(in),
		out:         out,
		errOut:      errOut,
		openURL:     launcher.Open,
		newNotifier: notifier.New,
		now:         time.Now,
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp(os.Stdin, os.Stdout, os.Stderr))
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raid-report [raid-id]",
		Short: "Report guild members with no raid score",
		Long: `A CLI tool to report guild members who did not contribute to a raid.

Reads the raid page saved from swgoh.gg (html_files/<raid-id>.html), lists
members whose score is "--", and posts the report to the Discord webhook
configured as DISCORD_WEBHOOK_URL in the environment or the project's .env file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.run(cmd.Context(), args)
			a.exitCode = code
			return err
		},
	}

	o := a.opts
	cmd.Flags().StringVar(&o.root, "root", ".", "Project root holding .env and the html folder")
	cmd.Flags().StringVar(&o.configFile, "config", "", "Optional YAML config file")
	cmd.Flags().StringVar(&o.envFile, "env-file", "", "Path to .env file (default <root>/.env)")
	cmd.Flags().StringVar(&o.file, "file", "", "Read this saved HTML page instead of <html-dir>/<raid-id>.html")
	cmd.Flags().StringVar(&o.rowSelector, "row-selector", scraper.DefaultRowSelector, "CSS selector for result rows")
	cmd.Flags().StringVar(&o.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&o.open, "open", false, "Open the raid page in the default browser (needs RAID_HISTORY_URL)")
	cmd.Flags().BoolVar(&o.wait, "wait", false, "Watch the html folder for the saved page instead of prompting")
	cmd.Flags().DurationVar(&o.waitTimeout, "timeout", 10*time.Minute, "How long --wait waits for the page")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the report instead of posting it")
	cmd.Flags().BoolVar(&o.verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// run is the main command logic. It returns the exit code; a non-nil error is
// reserved for failures that should also be printed as "Error: ...".
func (a *app) run(ctx context.Context, args []string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	format := OutputFormat(strings.ToLower(a.opts.format))
	if format != FormatText && format != FormatJSON {
		return ExitError, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.opts.format)
	}
	a.format = format
	st := newStyles(a.out)

	cfg, err := config.Load(config.Options{
		Root:           a.opts.root,
		ConfigFile:     a.opts.configFile,
		EnvFile:        a.opts.envFile,
		RequireWebhook: !a.opts.dryRun,
	})
	if err != nil {
		if errors.Is(err, config.ErrMissingWebhook) {
			fmt.Fprintln(a.errOut, st.err.Render("ERROR: Could not find "+config.KeyWebhookURL))
			fmt.Fprintf(a.errOut, "Expected .env at: %s\n", a.envPath())
			return ExitError, nil
		}
		return ExitError, fmt.Errorf("loading config: %w", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if a.opts.verbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, a.errOut).With(logger.Fields{"run_id": uuid.NewString()})
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileFound {
		log.Warn(".env file not found", logger.Fields{"path": cfg.EnvFile})
	}

	raidID, err := a.resolveRaidID(args)
	if err != nil {
		return ExitError, err
	}
	if raidID == "" {
		fmt.Fprintln(a.console(), "No raid ID entered. Exiting.")
		return ExitError, nil
	}

	run := metrics.NewRun()
	defer a.pushMetrics(ctx, cfg, run)

	html, source, code := a.loadPage(ctx, cfg, raidID, st, log)
	if code != ExitSuccess {
		return code, nil
	}

	log.Debug("Parsing raid HTML", logger.Fields{"raid_id": raidID, "source": source})
	if format == FormatText {
		fmt.Fprintln(a.out, "\nParsing raid HTML...")
	}

	ext, err := scraper.New(scraper.WithRowSelector(a.opts.rowSelector)).Extract(strings.NewReader(html))
	if err != nil {
		log.Error("Failed to parse raid page", logger.Fields{"source": source}, err)
		return ExitError, fmt.Errorf("parsing %s: %w", source, err)
	}
	run.ObserveExtraction(len(ext.Records), ext.RowsSkipped)

	if !ext.TableFound {
		log.Warn("Raid results table not found", logger.Fields{"source": source})
		fmt.Fprintln(a.console(), st.err.Render("ERROR: "+noTableMessage))
		if format == FormatJSON {
			result := &OutputResult{
				RaidID:          raidID,
				Source:          source,
				CheckedAt:       a.now().UTC(),
				Participants:    []raid.Record{},
				NonContributors: []string{},
				Error:           noTableMessage,
			}
			if err := WriteOutput(a.out, result, format, a.opts.verbose); err != nil {
				return ExitError, fmt.Errorf("writing output: %w", err)
			}
		}
		return ExitSuccess, nil
	}

	names := raid.NonContributors(ext.Records)
	run.ObserveNonContributors(len(names))

	result := &OutputResult{
		RaidID:          raidID,
		Source:          source,
		CheckedAt:       a.now().UTC(),
		Participants:    ext.Records,
		NonContributors: names,
		Summary:         raid.Summarize(ext.Records),
		Message:         report.FormatRaid(raidID, names),
		DryRun:          a.opts.dryRun,
	}

	log.Info("Raid parsed", logger.Fields{
		"raid_id":          raidID,
		"participants":     result.Summary.Participants,
		"non_contributors": result.Summary.NonContributors,
		"rows_skipped":     ext.RowsSkipped,
		"median_score":     result.Summary.MedianScore,
	})

	if format == FormatText {
		if err := WriteOutput(a.out, result, format, a.opts.verbose); err != nil {
			return ExitError, fmt.Errorf("writing output: %w", err)
		}
	}

	code = a.send(ctx, cfg, result, format, run, log, st)

	if format == FormatJSON {
		if err := WriteOutput(a.out, result, format, a.opts.verbose); err != nil {
			return ExitError, fmt.Errorf("writing output: %w", err)
		}
	}

	run.Finish(a.now())
	return code, nil
}

// console is where prompts and instructions go; stdout stays valid JSON in json mode
func (a *app) console() io.Writer {
	if a.format == FormatJSON {
		return a.errOut
	}
	return a.out
}

// envPath is the .env location reported when the webhook is missing
func (a *app) envPath() string {
	if a.opts.envFile != "" {
		return a.opts.envFile
	}
	root := a.opts.root
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(filepath.Join(root, ".env")); err == nil {
		return abs
	}
	return filepath.Join(root, ".env")
}

// resolveRaidID takes the raid ID from args, the --file name, or a stdin prompt
func (a *app) resolveRaidID(args []string) (string, error) {
	if len(args) > 0 {
		return raid.NormalizeID(args[0]), nil
	}

	if a.opts.file != "" {
		base := filepath.Base(a.opts.file)
		return raid.NormalizeID(strings.TrimSuffix(base, filepath.Ext(base))), nil
	}

	fmt.Fprintln(a.console(), "Enter the raid ID (the part after /raid-history/), e.g. bb0ea6749c:")
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading raid ID: %w", err)
	}
	return raid.NormalizeID(line), nil
}

// loadPage finds the saved page and returns its contents and path
func (a *app) loadPage(ctx context.Context, cfg *config.Config, raidID string, st styles, log *logger.Logger) (string, string, int) {
	if a.opts.file != "" {
		html, err := storage.ReadPage(a.opts.file)
		if err != nil {
			a.reportMissingPage(a.opts.file, err, st, log)
			return "", "", ExitError
		}
		return html, a.opts.file, ExitSuccess
	}

	store, err := storage.New(cfg.HTMLDir)
	if err != nil {
		log.Error("Failed to prepare html folder", logger.Fields{"dir": cfg.HTMLDir}, err)
		fmt.Fprintf(a.errOut, "ERROR: %v\n", err)
		return "", "", ExitError
	}
	if store.Created() {
		fmt.Fprintf(a.console(), "Created folder: %s\n", store.Dir())
	}

	path := store.PagePath(raidID)

	if a.opts.open {
		a.openRaidPage(cfg, raidID)
	}

	if _, err := os.Stat(path); err != nil {
		a.printSaveInstructions(raidID, store.Dir())

		if a.opts.wait {
			waitCtx, cancel := context.WithTimeout(ctx, a.opts.waitTimeout)
			defer cancel()

			fmt.Fprintf(a.console(), "\nWaiting for %s ...\n", path)
			if _, err := store.WaitForPage(waitCtx, raidID); err != nil {
				log.Warn("Stopped waiting for raid page", logger.Fields{"path": path, "error": err.Error()})
			}
		} else {
			fmt.Fprintln(a.console(), "\nPress ENTER here once you've saved the file...")
			_, _ = a.in.ReadString('\n')
		}
	}

	html, err := store.LoadPage(raidID)
	if err != nil {
		a.reportMissingPage(path, err, st, log)
		return "", "", ExitError
	}
	return html, path, ExitSuccess
}

func (a *app) reportMissingPage(path string, err error, st styles, log *logger.Logger) {
	log.Error("Raid page not available", logger.Fields{"path": path}, err)
	if errors.Is(err, storage.ErrPageNotFound) {
		fmt.Fprintln(a.errOut, st.err.Render("ERROR: File not found: "+path))
		fmt.Fprintln(a.errOut, "Did you save it with the correct name and in the correct folder?")
		return
	}
	fmt.Fprintf(a.errOut, "ERROR: %v\n", err)
}

func (a *app) openRaidPage(cfg *config.Config, raidID string) {
	pageURL := raid.PageURL(cfg.RaidHistoryURL, raidID)
	if pageURL == "" {
		logger.Warn("Cannot open raid page without a raid history URL", logger.Fields{"key": config.KeyRaidHistoryURL})
		return
	}
	fmt.Fprintf(a.console(), "\nOpening raid page in your default browser:\n%s\n", pageURL)
	a.openURL(pageURL)
}

func (a *app) printSaveInstructions(raidID, dir string) {
	w := a.console()
	fmt.Fprintln(w, "When the page finishes loading:")
	fmt.Fprintln(w, "  1) Press CTRL+S in your browser")
	fmt.Fprintf(w, "  2) Save the page as: %s%s\n", raidID, storage.PageExt)
	fmt.Fprintf(w, "  3) Save it into this folder:\n     %s\n", dir)
}

// send posts the report once. A failed send is reported, not retried.
func (a *app) send(ctx context.Context, cfg *config.Config, result *OutputResult, format OutputFormat, run *metrics.Run, log *logger.Logger, st styles) int {
	var n notifier.Notifier
	if a.opts.dryRun {
		// Keep stdout valid JSON
		dryOut := a.out
		if format == FormatJSON {
			dryOut = a.errOut
		}
		n = notifier.NewDryRunNotifier(dryOut)
	} else {
		var err error
		n, err = a.newNotifier(cfg.WebhookURL)
		if err != nil {
			log.Error("Invalid webhook URL", nil, err)
			result.SendError = err.Error()
			fmt.Fprintln(a.errOut, st.err.Render("ERROR: "+err.Error()))
			return ExitError
		}
	}

	if format == FormatText {
		fmt.Fprintln(a.out, "\nSending report...")
	}

	if err := n.Notify(ctx, result.Message); err != nil {
		run.ObserveSend(metrics.ResultFailure)
		log.Error("Failed to send report", logger.Fields{"raid_id": result.RaidID}, err)
		result.SendError = err.Error()
		fmt.Fprintln(a.errOut, st.err.Render("Failed to send message:"))
		fmt.Fprintln(a.errOut, err.Error())
		return ExitSendFailed
	}

	if a.opts.dryRun {
		run.ObserveSend(metrics.ResultDryRun)
		return ExitSuccess
	}

	run.ObserveSend(metrics.ResultSuccess)
	result.Sent = true
	log.Info("Report posted", logger.Fields{"raid_id": result.RaidID})
	if format == FormatText {
		fmt.Fprintln(a.out, st.ok.Render("Posted report!"))
	}
	return ExitSuccess
}

// pushMetrics pushes run metrics when a Pushgateway is configured
func (a *app) pushMetrics(ctx context.Context, cfg *config.Config, run *metrics.Run) {
	if cfg.PushgatewayURL == "" {
		return
	}

	pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	if err := run.Push(pushCtx, cfg.PushgatewayURL, metrics.DefaultJob); err != nil {
		logger.Warn("Failed to push metrics", logger.Fields{"gateway": cfg.PushgatewayURL, "error": err.Error()})
	}
}

// Execute runs the CLI
func Execute() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if a.exitCode == ExitSuccess {
			a.exitCode = ExitError
		}
	}
	os.Exit(a.exitCode)
}
