package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ehf-cli/internal/pdfsource"
	"github.com/sells-group/ehf-cli/internal/pipeline"
)

var analyzeOut string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Analyze a single extract PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		src, err := pdfsource.New(cfg.PDF)
		if err != nil {
			return err
		}

		outDir := analyzeOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}

		p := pipeline.New(src, outDir)
		result, err := p.Run(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("analysis complete",
			zap.String("file", result.Filename),
			zap.Int("formalites", result.Document.Statistiques.NombreTotalFormalites),
			zap.Int("hypotheques_actives", result.Document.Statistiques.NombreHypothequesActives),
			zap.Int("mutations", result.Document.Statistiques.NombreMutations),
			zap.Bool("propriete_reconstituee", result.Document.Statistiques.ProprieteReconstituee),
		)

		// Print result JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
