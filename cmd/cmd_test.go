package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const cohortYAML = `organism: Homo sapiens
genes:
  - id: ENSG01
    name: ABC1
    transcripts:
      - id: ENST01
        protein_coding: true
        protein: MAVK*
        effects:
          - variant: {chromosome: "1", start: 100, ref: A, alt: G}
            functional_class: missense
            aa_ref: K
            aa_alt: R
            codon: 4
            description: K4R
      - id: ENST02
        protein_coding: false
        protein: MKL*
`

// resetFlags clears every flag value left behind by a previous Execute.
func resetFlags() {
	flagVerbose, flagConfig = false, ""
	flagOnly, flagAll = false, false
	flagXML, flagJSON, flagHTML, flagMarkdown, flagPDF = false, false, false, false, false
	flagOrganism, flagSamples, flagGenotypes, flagOutputDir = "", nil, false, ""
	flagDB = ""
	for _, c := range []*cobra.Command{rootCmd, exportCmd, storeCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		c.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

// execute runs the root command with args in an isolated HOME and returns
// stdout, stderr and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
