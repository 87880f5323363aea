package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/NoBugNinja/Skill-Sync/internal/analyzer"
	"github.com/NoBugNinja/Skill-Sync/internal/extract"
	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/logger"
	"github.com/NoBugNinja/Skill-Sync/internal/report"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
	"github.com/NoBugNinja/Skill-Sync/internal/secrets"
	"github.com/NoBugNinja/Skill-Sync/internal/shortlist"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExportCSV     = "Export CSV"
	PromptReportBySkill = "Report by skill"
	PromptShowResume    = "Show résumé with highlights"
	PromptResultsToFile = "Dump results to file"
	PromptExit          = "Exit"
	PromptBack          = "back"

	defaultCSVFile = "skill-sync-results.csv"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptExportCSV, PromptReportBySkill, PromptShowResume, PromptResultsToFile, PromptExit},
}

var screenCmd = &cobra.Command{
	Use:   "screen [files or directories...]",
	Short: "Screen résumés against the configured skills and rank the candidates",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		screen(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringP("must-have", "m", "", "comma or newline separated must-have skills, overrides the config")
	screenCmd.Flags().StringP("nice-to-have", "n", "", "comma or newline separated nice-to-have skills, overrides the config")
	screenCmd.Flags().IntP("concurrency", "c", 0, "how many résumés are read and scored at once")
	screenCmd.Flags().String("remote", "", "score with a remote analyze endpoint instead of in process")
	screenCmd.Flags().BoolP("auto-approve", "y", false, "do not prompt, export the csv if configured and exit")
	screenCmd.Flags().String("csv", "", "csv file for the export action")
	screenCmd.Flags().StringP("exclude-file", "e", "", "json file with candidates to exclude. Default is unset.")
	screenCmd.Flags().Int("min-percentage", 0, "drop candidates below this match percentage")
	screenCmd.Flags().Bool("require-all-must-have", false, "drop candidates missing any must-have skill")

	viper.BindPFlag("screening.concurrency", screenCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("analyzer.url", screenCmd.Flags().Lookup("remote"))
	viper.BindPFlag("export.csv", screenCmd.Flags().Lookup("csv"))
	viper.BindPFlag("shortlist.exclude-file", screenCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("shortlist.minimum-percentage", screenCmd.Flags().Lookup("min-percentage"))
	viper.BindPFlag("shortlist.require-all-must-have", screenCmd.Flags().Lookup("require-all-must-have"))
}

// screen is the main command for the cli.
func screen(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), zap.String("command", "screen"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the skill-sync", zap.String("version", version))

	applyKeywordFlags(cmd, config)

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := config.Keywords.Validate(); err != nil {
		logger.Fatal("validating keywords",
			zap.Error(err),
			zap.String("hint", "use --must-have or the 'keywords.must-have' key in the configuration file"),
		)
	}

	paths, err := collectPaths(args)
	if err != nil {
		logger.Fatal("collecting résumés", zap.Error(err))
	}

	if len(paths) == 0 {
		logger.Info("exiting", zap.String("reason", "please upload at least one resume"))
		return
	}

	a, err := newAnalyzer(config, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	docs, err := extract.New(logger).ExtractAll(ctx, paths, config.Screening.Concurrency)
	if err != nil {
		logger.Fatal("reading résumés", zap.Error(err))
	}

	logger.Info("read résumés", zap.Int("count", len(docs)))

	batch, err := screening.NewRunner(a, config.Keywords,
		screening.WithConcurrency(config.Screening.Concurrency),
		screening.WithTopSkills(config.Screening.TopSkills),
		screening.WithLogger(logger),
	).Run(ctx, docs)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	if retry := batch.Retryable(); len(retry) > 0 {
		logger.Warn("analyzer unavailable for some résumés", zap.Strings("retryable", retry))
	}

	shortlisted, err := shortlistBatch(ctx, config, batch, logger)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	if err := report.Table(out, batch.Results, batch.Keywords); err != nil {
		logger.Fatal("rendering results", zap.Error(err))
	}
	if err := report.Summary(out, batch.Summary); err != nil {
		logger.Fatal("rendering summary", zap.Error(err))
	}

	if len(shortlisted.Results) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if config.Export.CSV == "" {
			return
		}
		if err := handleAction(PromptExportCSV, out, logger, config, shortlisted); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of candidates", zap.Int("count", len(shortlisted.Results)))

		if err := handleAction(action, out, logger, config, shortlisted); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, logger *zap.Logger, config *Config, batch *screening.Batch) error {
	switch action {
	case PromptExportCSV:
		path, err := csvPath(config)
		if err != nil {
			return err
		}
		if err := report.ExportCSV(path, batch); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.Info("exported results", zap.String("filename", path), zap.Int("candidates", len(batch.Successes())))
		return nil
	case PromptReportBySkill:
		pretty, _ := json.MarshalIndent(report.BySkill(batch.Results), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", len(batch.Successes())))
		return nil
	case PromptShowResume:
		return showResumes(out, batch)
	case PromptResultsToFile:
		filename, err := report.DumpToTmpFile(batch)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func csvPath(config *Config) (string, error) {
	if config.Export.CSV != "" {
		return config.Export.CSV, nil
	}

	pathPrompt := promptui.Prompt{
		Label:   "CSV file",
		Default: defaultCSVFile,
	}

	path, err := pathPrompt.Run()
	if err != nil {
		return "", err
	}

	config.Export.CSV = strings.TrimSpace(path)
	return config.Export.CSV, nil
}

func showResumes(out io.Writer, batch *screening.Batch) error {
	style := promptui.Styler(promptui.FGBold, promptui.FGYellow)
	mark := func(s string) string { return style(s) }

	successes := batch.Successes()

	for {
		items := make([]string, 0, len(successes)+1)
		for _, r := range successes {
			items = append(items, fmt.Sprintf("%s (%d%%)", r.FileName, r.Percentage()))
		}

		resumePrompt := promptui.Select{
			Label: "Choose a résumé and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := resumePrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		writeResume(out, batch.Keywords, successes[idx], mark)
	}
}

func writeResume(out io.Writer, spec keywords.Spec, r screening.Result, mark func(string) string) {
	missing := report.Missing(spec, *r.Record)

	fmt.Fprintf(out, "\n%s: %d%% (%d/%d)\n\n", r.FileName, r.Percentage(), r.Record.WeightedScore, r.Record.MaxScore)
	fmt.Fprintln(out, report.Highlight(r.RawText, spec.All(), mark))
	fmt.Fprintf(out, "\nMissing must-haves: %s\n", joinOrNone(missing.MustHave))
	fmt.Fprintf(out, "Missing nice-to-haves: %s\n\n", joinOrNone(missing.NiceToHave))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// applyKeywordFlags replaces configured keywords with the ones given on the command line.
func applyKeywordFlags(cmd *cobra.Command, config *Config) {
	if cmd == nil {
		return
	}

	if flag := cmd.Flags().Lookup("must-have"); flag != nil && flag.Changed {
		config.Keywords.MustHave = keywords.Parse(flag.Value.String())
	}
	if flag := cmd.Flags().Lookup("nice-to-have"); flag != nil && flag.Changed {
		config.Keywords.NiceToHave = keywords.Parse(flag.Value.String())
	}
}

// collectPaths expands directories into the supported files they contain.
// Files named explicitly are kept whatever their extension.
func collectPaths(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() || !extract.Supported(entry.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}

	return paths, nil
}

func shortlistBatch(ctx context.Context, config *Config, batch *screening.Batch, logger *zap.Logger) (*screening.Batch, error) {
	steps := shortlist.Default(config.Shortlist)

	for _, status := range shortlist.Describe(steps) {
		if !status.Enabled {
			logger.Debug("filter disabled", zap.String("filter", status.Name), zap.String("reason", status.Reason))
		}
	}

	results, err := shortlist.Run(ctx, config.Shortlist, shortlist.Deps{Logger: logger, Spec: batch.Keywords}, steps, batch)
	if err != nil {
		return nil, err
	}

	shortlisted := *batch
	shortlisted.Results = results

	return &shortlisted, nil
}

func newAnalyzer(config *Config, logger *zap.Logger) (analyzer.Analyzer, error) {
	if config.Analyzer.URL == "" {
		return analyzer.NewLocal(config.Weights), nil
	}

	token, err := secrets.LoadOptional(secrets.Source{
		Name: "analyzer token",
		File: config.Analyzer.TokenFile,
		Env:  envPrefix + "_ANALYZER_TOKEN",
	})
	if err != nil {
		return nil, err
	}

	logger.Info("using remote analyzer", zap.String("url", config.Analyzer.URL))

	return analyzer.NewClient(config.Analyzer.URL, token, config.Analyzer.Timeout, config.Analyzer.MaxRetries, logger), nil
}
