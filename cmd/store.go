package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/protpipe/core/annotation"
	"github.com/spf13/cobra"
)

var flagDB string

var storeCmd = &cobra.Command{
	Use:   "store <manifest>",
	Short: "Import a manifest into a SQLite annotation store",
	Long: `Store reads a YAML or JSON manifest and writes its genes, transcripts and
effects into a SQLite annotation store. An existing store is replaced.

Example:
  protpipe store cohort.yaml --db annotations.db
  protpipe export annotations.db --xml`,
	Args: cobra.ExactArgs(1),
	RunE: runStore,
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.Flags().StringVar(&flagDB, "db", "", "Path of the SQLite store to write (required)")
	_ = storeCmd.MarkFlagRequired("db")
}

func runStore(cmd *cobra.Command, args []string) error {
	source := args[0]
	if !annotation.IsManifest(source) || annotation.IsRemote(source) {
		return fmt.Errorf("store expects a local .yaml, .yml or .json manifest, got %s", source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	m, err := annotation.ParseManifest(data)
	if err != nil {
		return err
	}
	db, err := m.ProteinDB()
	if err != nil {
		return err
	}

	st, err := annotation.OpenStore(flagDB)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := st.Save(ctx, db); err != nil {
		return err
	}

	logger.Debug("stored manifest", "source", source, "db", st.Path(), "transcripts", len(db.Transcripts))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Stored %d transcripts in %s\n", len(db.Transcripts), st.Path())
	return nil
}
