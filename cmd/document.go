package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/converter/internal/bridge"
	"github.com/lehigh-university-libraries/converter/internal/intake"
	"github.com/spf13/cobra"
)

var documentUsage = map[bridge.Feature]struct{ use, short, example string }{
	bridge.FeatureLatex: {
		use:     "latex <file>...",
		short:   "Convert PDF or .tex documents into a LaTeX study guide",
		example: "  converter latex lecture.pdf\n  converter latex week1.pdf week2.pdf --output-dir guides --concurrency 2",
	},
	bridge.FeatureSolver: {
		use:     "solve <file>...",
		short:   "Generate step-by-step LaTeX solutions for exercise sheets",
		example: "  converter solve exercises.tex --language vi\n  converter solve sheet.pdf -o solutions.tex",
	},
}

func newDocumentCmd(a *app, feature bridge.Feature) *cobra.Command {
	var (
		output      string
		outputDir   string
		concurrency int
	)
	usage := documentUsage[feature]

	cmd := &cobra.Command{
		Use:   usage.use,
		Short: usage.short,
		Long: usage.short + `.

Each file is sent once to the configured model together with a fixed instruction
template. A single input is written to ` + bridge.Filename + ` unless --output is
given; several inputs are written as <name>.tex in --output-dir.`,
		Example: usage.example,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := outputTargets(args, output, outputDir)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				concurrency = 1
			}
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			svc, err := a.newBridge()
			if err != nil {
				return err
			}
			lang := bridge.ParseLanguage(a.cfg.Language)

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				failures  []error
				semaphore = make(chan struct{}, concurrency)
			)
			for i, path := range args {
				target := targets[i]

				wg.Add(1)
				go func(idx int, path, target string) {
					defer wg.Done()
					semaphore <- struct{}{}        // Acquire
					defer func() { <-semaphore }() // Release

					slog.Info("Processing file", "file", path, "progress", fmt.Sprintf("%d/%d", idx+1, len(args)))
					if err := convertFile(cmd, svc, feature, lang, path, target); err != nil {
						slog.Error("Conversion failed", "file", path, "err", err)
						mu.Lock()
						failures = append(failures, fmt.Errorf("%s: %w", path, err))
						mu.Unlock()
					}
				}(i, path, target)
			}
			wg.Wait()

			return errors.Join(failures...)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file for a single input")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for generated .tex files")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "Number of files converted in parallel")

	return cmd
}

// outputTargets resolves one output path per input and refuses inputs that
// would write the same file, such as lecture.pdf and lecture.tex.
func outputTargets(args []string, output, outputDir string) ([]string, error) {
	if output != "" {
		if len(args) > 1 {
			return nil, errors.New("--output can only be used with a single input file")
		}
		return []string{output}, nil
	}

	targets := make([]string, 0, len(args))
	seen := make(map[string]string, len(args))
	for _, path := range args {
		target := filepath.Join(outputDir, outputName(path, len(args)))
		if prev, ok := seen[target]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, path, target)
		}
		seen[target] = path
		targets = append(targets, target)
	}
	return targets, nil
}

func outputName(path string, inputs int) string {
	if inputs == 1 {
		return bridge.Filename
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".tex"
}

func convertFile(cmd *cobra.Command, svc *bridge.Service, feature bridge.Feature, lang bridge.Language, path, target string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	upload, ok := intake.SelectDocument([]intake.Upload{{
		Name:     filepath.Base(path),
		MIMEType: intake.MIMEFromName(path),
		Data:     data,
	}})
	if !ok {
		return fmt.Errorf("%w: expected a .pdf or .tex file", bridge.ErrUnsupportedFile)
	}
	if !intake.IsLaTeX(upload.MIMEType) {
		slog.Debug("PDF input", "file", path, "pages", intake.PDFPageCount(upload.Data))
	}

	start := time.Now()
	result, err := svc.Convert(cmd.Context(), bridge.Request{
		Feature:  feature,
		Language: lang,
		File:     bridge.File{Name: upload.Name, MIMEType: upload.MIMEType, Data: upload.Data},
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(target, []byte(result.LaTeX+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	slog.Info("LaTeX written", "file", path, "path", target, "duration", time.Since(start))
	return nil
}
