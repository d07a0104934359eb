package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/export"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/render"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the saved advance to a Letter PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		redact, _ := cmd.Flags().GetBool("redact")
		fit, _ := cmd.Flags().GetBool("fit")
		flagEngine, _ := cmd.Flags().GetString("engine")
		htmlOnly, _ := cmd.Flags().GetBool("html")

		engine, err := exportEngine(flagEngine)
		if err != nil {
			return err
		}

		session, closeDB := openSession(cmd.Context())
		defer closeDB()
		cur := session.Current()
		opts := render.Options{Redact: redact, Year: time.Now().Year()}

		if htmlOnly {
			return render.WriteHTML(cmd.OutOrStdout(), cur, opts)
		}

		var view export.View
		if engine == "chrome" {
			opts.Compact = fit && render.NeedsCompact(cur, opts)
			html, err := render.HTML(cur, opts)
			if err != nil {
				return err
			}
			view = export.HTMLView{HTML: html, Width: render.Width}
		} else {
			view = render.ForExport(cur, opts, fit)
		}

		doc, err := newExporters()[engine].Export(cmd.Context(), view, export.Options{
			Filename: advance.SanitizeFilename(cur.DetailName),
			Fit:      fit,
			Title:    cur.DetailName,
		})
		if err != nil {
			return err
		}
		if out == "" {
			out = doc.Filename
		}
		if err := os.WriteFile(out, doc.Data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		utils.Log.WithFields(logrus.Fields{
			"file":   out,
			"pages":  doc.Pages,
			"engine": engine,
		}).Info("PDF written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output file (default derived from the detail name)")
	exportCmd.Flags().Bool("redact", false, "Mask addresses and phone numbers")
	exportCmd.Flags().Bool("fit", true, "Shrink toward a single page before slicing")
	exportCmd.Flags().String("engine", "", "Rasterizer: box or chrome (default from export.engine)")
	exportCmd.Flags().Bool("html", false, "Print the HTML preview to stdout instead of writing a PDF")
}
