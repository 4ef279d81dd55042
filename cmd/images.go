package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/converter/internal/imagepdf"
	"github.com/lehigh-university-libraries/converter/internal/intake"
	"github.com/spf13/cobra"
)

func newImagesCmd(a *app) *cobra.Command {
	var (
		orientation string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "images <image>...",
		Short: "Assemble PNG and WEBP images into an A4 PDF",
		Long: `Renders each image on its own A4 page, in argument order, scaled to fit
inside the page margin and centered. Files that are not PNG or WEBP are skipped.`,
		Example: `  converter images cover.png page1.webp page2.png
  converter images scans/*.png --orientation landscape -o scans.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := imagepdf.ParseOrientation(orientation)
			if err != nil {
				return err
			}

			uploads := make([]intake.Upload, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				uploads = append(uploads, intake.Upload{
					Name:     filepath.Base(path),
					MIMEType: intake.MIMEFromName(path),
					Data:     data,
				})
			}

			kept := intake.FilterImages(uploads)
			if skipped := len(uploads) - len(kept); skipped > 0 {
				slog.Warn("Skipped unsupported files", "count", skipped)
			}

			images := make([]imagepdf.SourceImage, 0, len(kept))
			for i, u := range kept {
				images = append(images, imagepdf.SourceImage{
					ID:       fmt.Sprintf("%d", i+1),
					Name:     u.Name,
					MIMEType: u.MIMEType,
					Data:     u.Data,
				})
			}

			assembler := imagepdf.NewAssembler(imagepdf.NewImageDecoder(), imagepdf.NewFPDFBuilder, a.cfg.PDF.Margin)
			doc, err := assembler.Assemble(cmd.Context(), images, o)
			if err != nil {
				return err
			}
			if doc == nil {
				slog.Info("No images to assemble")
				return nil
			}

			if output == "" {
				output = doc.Filename
			}
			if err := os.WriteFile(output, doc.Data, 0644); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}
			slog.Info("PDF written", "path", output, "pages", len(doc.Pages), "orientation", doc.Orientation)
			return nil
		},
	}

	cmd.Flags().StringVar(&orientation, "orientation", "portrait", "Page orientation (portrait, landscape)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: "+imagepdf.Filename+")")

	return cmd
}
