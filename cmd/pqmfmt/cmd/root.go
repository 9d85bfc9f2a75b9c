package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	pqmfmt "github.com/fukuyori/pqm-formatter"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	flagCheck    bool
	flagWrite    bool
	flagOutput   string
	flagStdin    bool
	flagCompact  bool
	flagExpanded bool
	flagIndent   int
	flagTabs     bool
	flagQuiet    bool
	flagVersion  bool

	log = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:          "pqmfmt [path]",
	Short:        "pqmfmt formats Power Query M source code",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	SilenceErrors: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "report whether the input is already formatted, without writing it")
	rootCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "write the formatted result back to the input file")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the formatted result to PATH instead of stdout")
	rootCmd.Flags().BoolVar(&flagStdin, "stdin", false, "read source from stdin")
	rootCmd.Flags().BoolVar(&flagCompact, "compact", false, "use Compact layout mode")
	rootCmd.Flags().BoolVar(&flagExpanded, "expanded", false, "use Expanded layout mode")
	rootCmd.Flags().IntVar(&flagIndent, "indent", 0, "spaces per indent level (default 4; ignored with --tabs)")
	rootCmd.Flags().BoolVar(&flagTabs, "tabs", false, "indent with tabs instead of spaces")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress the --check diff output (the exit code is unaffected)")
	rootCmd.Flags().BoolVarP(&flagVersion, "version", "V", false, "print the version and exit")
}

// Execute runs the command tree and returns the process exit code (spec
// §6.2: 0 success, 1 check-mode difference, 2 parse/lex error, 3 I/O or
// clipboard error).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ce *cliError
		if errors.As(err, &ce) {
			if ce != errCheckDiff {
				log.Error(err)
			}
			return ce.code
		}
		log.Error(err)
		return 1
	}
	return 0
}

func run(c *cobra.Command, args []string) error {
	if flagVersion {
		fmt.Fprintln(c.OutOrStdout(), version)
		return nil
	}
	if flagCompact && flagExpanded {
		return errors.New("--compact and --expanded are mutually exclusive")
	}

	cfg := configFromFlags()

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	source, clipboardMode, err := readSource(path)
	if err != nil {
		return &cliError{path: path, cause: err, code: 3}
	}

	formatted, fmtErr := pqmfmt.Format(source, cfg)
	if fmtErr != nil {
		if clipboardMode {
			// Never drop the user's clipboard contents: prepend the error
			// as a comment and write the original text back unchanged.
			restored := fmt.Sprintf("// %s\n%s", fmtErr, source)
			if werr := clipboard.WriteAll(restored); werr != nil {
				log.WithError(werr).Warn("failed to restore clipboard contents after a format error")
			}
		}
		return &cliError{path: path, cause: fmtErr, code: 2}
	}

	if flagCheck {
		return checkMode(path, source, formatted)
	}
	if flagWrite {
		if path == "" {
			return errors.New("--write requires a file argument")
		}
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return &cliError{path: path, cause: err, code: 3}
		}
		return nil
	}
	if flagOutput != "" {
		if err := os.WriteFile(flagOutput, []byte(formatted), 0o644); err != nil {
			return &cliError{path: flagOutput, cause: err, code: 3}
		}
		return nil
	}
	if clipboardMode {
		if err := clipboard.WriteAll(formatted); err != nil {
			return &cliError{cause: err, code: 3}
		}
		return nil
	}
	fmt.Fprint(c.OutOrStdout(), formatted)
	return nil
}

func configFromFlags() pqmfmt.Config {
	cfg := pqmfmt.DefaultConfig()
	switch {
	case flagCompact:
		cfg = pqmfmt.CompactConfig()
	case flagExpanded:
		cfg = pqmfmt.ExpandedConfig()
	}
	if flagIndent > 0 {
		cfg = cfg.WithIndentUnit(flagIndent)
	}
	if flagTabs {
		cfg = cfg.WithIndentChar('\t')
	}
	return cfg
}

// readSource reads the formatter's input: the positional file if given,
// stdin if --stdin was passed, or the system clipboard otherwise (spec
// §6.2's "no path and no --stdin" clipboard-mode rule).
func readSource(path string) (source string, clipboardMode bool, err error) {
	switch {
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", false, err
		}
		return string(b), false, nil
	case flagStdin:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", false, err
		}
		return string(b), false, nil
	default:
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	}
}

func checkMode(path, original, formatted string) error {
	if original == formatted {
		return nil
	}
	if !flagQuiet {
		diff, err := unifiedDiff(path, original, formatted)
		if err != nil {
			log.WithError(err).Warn("failed to render diff")
		} else {
			log.Info(diff)
		}
	}
	return errCheckDiff
}
