package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maraval/veogallery/internal/apperrors"
	"github.com/maraval/veogallery/internal/cleanup"
	"github.com/maraval/veogallery/internal/files"
	"github.com/maraval/veogallery/internal/gemini"
	"github.com/maraval/veogallery/internal/logger"
	"github.com/maraval/veogallery/internal/metadata"
	"github.com/maraval/veogallery/internal/prompt"
	"github.com/maraval/veogallery/internal/veo"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	modelName    string
	count        int
	aspect       string
	outPath      string
	refine       bool
	refinerModel string
	pollInterval time.Duration
	yes          bool
	logFilePath  string
	allowEnv     bool
	envOnly      bool
	debug        bool
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate videos from a text prompt using Veo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("a prompt is required")
			}
			return runGenerate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addGenerateFlags(cmd, &opts)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	cmd.Flags().StringVar(&opts.modelName, "model", metadata.DefaultVeoModel, "Veo model name")
	cmd.Flags().IntVar(&opts.count, "count", 1, "Number of videos to generate (1-4)")
	cmd.Flags().StringVar(&opts.aspect, "aspect", string(veo.AspectWide), "Aspect ratio (16:9, 9:16, 1:1, 4:3, 3:4)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "remix.mp4", "Output file path (.mp4)")
	cmd.Flags().BoolVar(&opts.refine, "refine", false, "Rewrite the prompt with Gemini before generating")
	cmd.Flags().StringVar(&opts.refinerModel, "refiner-model", metadata.DefaultRefinerModel, "Gemini model for prompt refinement")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", veo.DefaultPollInterval, "Delay between operation polls")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output files without asking")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API key from environment variables")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for the API key")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func runGenerate(cmd *cobra.Command, args []string, opts *generateOptions) error {
	promptText := strings.TrimSpace(strings.Join(args, " "))
	if promptText == "" {
		return fmt.Errorf("a prompt is required")
	}
	if err := validateOutputPath(opts.outPath); err != nil {
		return err
	}
	aspect, err := veo.ParseAspectRatio(opts.aspect)
	if err != nil {
		return err
	}

	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		if err := files.RejectSymlinkPath(opts.logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)

	if !metadata.IsVeoModel(opts.modelName) {
		logger.Warn("Unknown model, trying anyway", "model", opts.modelName)
	}

	startTime := time.Now()

	key, source, err := resolveAPIKey(opts.allowEnv, opts.envOnly)
	if err != nil {
		return err
	}
	logger.Info("Using API Key", "source", source)

	ctx, stop := signalContext()
	defer stop()

	finalPrompt := promptText
	if opts.refine {
		refined, err := refinePrompt(ctx, key, opts.refinerModel, promptText)
		if err != nil {
			logger.Warn("Prompt refinement failed, using original", "error", err)
		} else {
			finalPrompt = refined
			logger.Info("Prompt refined", "model", opts.refinerModel)
		}
	}

	client := veo.NewClient(key, opts.modelName)
	cfg := veo.GenerateConfig{VariantCount: opts.count, AspectRatio: aspect}

	op, err := client.Submit(ctx, finalPrompt, cfg)
	if err != nil {
		return generationError(err)
	}
	logger.Info("Generation submitted", "operation", op.Name, "model", opts.modelName, "count", opts.count)

	op, err = veo.Await(ctx, client, op, opts.pollInterval)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Generation canceled", "error", err)
			return nil
		}
		return generationError(err)
	}
	refs, err := veo.Results(op)
	if err != nil {
		return generationError(err)
	}
	logger.Info("Generation complete", "videos", len(refs))

	written, err := downloadAll(ctx, client, refs, opts)
	if err != nil {
		return generationError(err)
	}

	printGenerateStats(cmd.OutOrStdout(), opts.modelName, written, time.Since(startTime))
	return nil
}

// generationError annotates failures that are worth retrying before the
// command exits with them.
func generationError(err error) error {
	if apperrors.IsRetryable(err) {
		logger.Warn("This failure is usually temporary, retrying in a minute often succeeds")
	}
	return err
}

func refinePrompt(ctx context.Context, key, model, promptText string) (string, error) {
	refiner, err := gemini.NewClient(ctx, key, model)
	if err != nil {
		return "", err
	}
	defer func() { _ = refiner.Close() }()
	return refiner.Refine(ctx, promptText)
}

// downloadAll fetches every generated sample and writes each one to disk,
// returning the paths actually written.
func downloadAll(ctx context.Context, client *veo.Client, refs []veo.VideoRef, opts *generateOptions) ([]string, error) {
	paths := outputPaths(opts.outPath, len(refs))
	confirmer := prompt.DefaultConfirmer()

	written := make([]string, 0, len(refs))
	for i, ref := range refs {
		payload, err := client.FetchVideo(ctx, ref)
		if err != nil {
			return written, err
		}

		path := paths[i]
		if _, statErr := os.Stat(path); statErr == nil {
			confirmed, err := confirmer.ConfirmOverwrite(path, opts.yes)
			if err != nil {
				return written, err
			}
			if !confirmed {
				alt, renamed, err := files.SafePath(path)
				if err != nil {
					return written, err
				}
				if renamed {
					logger.Info("Output exists, writing alternative", "path", alt)
				}
				path = alt
			}
		}
		if err := files.AtomicWrite(path, payload.Data, 0644); err != nil {
			return written, err
		}
		logger.Info("Video saved", "path", path, "bytes", len(payload.Data))
		written = append(written, path)
	}
	return written, nil
}

// outputPaths derives one path per variant: the base path as-is for a single
// video, numbered siblings otherwise.
func outputPaths(out string, n int) []string {
	if n <= 1 {
		return []string{out}
	}
	ext := filepath.Ext(out)
	base := strings.TrimSuffix(out, ext)
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s_%d%s", base, i+1, ext)
	}
	return paths
}

func printGenerateStats(w io.Writer, model string, written []string, duration time.Duration) {
	fmt.Fprintln(w, "\n--- Execution Stats ---")
	fmt.Fprintf(w, "Time: %s\n", duration)
	fmt.Fprintf(w, "Model: %s\n", model)
	fmt.Fprintf(w, "Videos: %d\n", len(written))
	for _, p := range written {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

const supportedOutputExtensionsLabel = ".mp4, .webm"

var supportedOutputExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
}

func validateOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedOutputExtensions[ext]; ok {
		return nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("unsupported output extension %q (supported: %s)", ext, supportedOutputExtensionsLabel)
}
