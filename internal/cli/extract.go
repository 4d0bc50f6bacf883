package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/ccextract/internal/extract"
	"github.com/rcliao/ccextract/internal/output"
)

func init() {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write every contact and group as a vCard file",
		Args:  cobra.NoArgs,
		Run:   runExtract,
	}

	cmd.Flags().StringP("output", "o", "", "Output folder")
	addSourceFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output = v
	}
	applySourceFlags(cmd, cfg)
	if err := cfg.ValidateExtract(); err != nil {
		exitErr("config", err)
	}

	outDir, err := filepath.Abs(cfg.Output)
	if err != nil {
		exitErr("output folder", err)
	}
	w, created, err := output.NewWriter(outDir)
	if err != nil {
		exitErr("output folder", err)
	}
	if created {
		logger.Info("Creating output directory", zap.String("path", outDir))
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	logger.Info("Output folder", zap.String("path", outDir))

	if st, err := s.Stats(cmd.Context()); err == nil {
		logger.Debug("Address book", zap.Int("persons", st.Persons), zap.Int("groups", st.Groups),
			zap.Int("multi_values", st.MultiValues))
	}

	logger.Info("Fetching data...")
	e := &extract.Extractor{Store: s, Sink: w, Log: logger}
	st, err := e.Run(cmd.Context())
	if err != nil {
		s.Close()
		exitErr("extract", err)
	}
	logger.Info("Done", zap.Int("contacts", st.Contacts), zap.Int("groups", st.Groups),
		zap.Int("skipped_groups", st.SkippedGroups))
}
