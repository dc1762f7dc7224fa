package symbols

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/parser"
	symbolspkg "github.com/walteh/cfnls/pkg/symbols"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

type Handler struct {
	debug bool

	fs afero.Fs
}

func NewSymbolsCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "symbols GLOB...",
		Short: "list the named entities of every template matching the globs",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, globs []string) error {
	level := zerolog.WarnLevel
	if me.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().
		Str("component", "symbols").
		Timestamp().
		Logger()
	ctx = logger.WithContext(ctx)

	fsys := afero.NewIOFS(me.fs)

	var errs error
	for _, glob := range globs {
		matches, err := doublestar.Glob(fsys, glob)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("expanding glob %q: %w", glob, err))
			continue
		}
		for _, match := range matches {
			if err := me.listFile(ctx, match); err != nil {
				errs = multierr.Append(errs, errors.Errorf("listing %s: %w", match, err))
			}
		}
	}
	return errs
}

func (me *Handler) listFile(ctx context.Context, file string) error {
	content, err := afero.ReadFile(me.fs, file)
	if err != nil {
		return errors.Errorf("reading template: %w", err)
	}

	text := string(content)
	st, err := doctree.NewSyntaxTree(ctx, text, parser.DetectSyntax(file, text))
	if err != nil {
		return errors.Errorf("parsing template: %w", err)
	}

	for _, sym := range symbolspkg.DocumentSymbols(ctx, st) {
		detail := ""
		if sym.Detail != "" {
			detail = " (" + sym.Detail + ")"
		}
		fmt.Printf("%s:%d:%d\t%s\t%s%s\n",
			file,
			sym.Range.Start.Line+1,
			sym.Range.Start.Character+1,
			sym.Section,
			sym.Name,
			detail,
		)
	}
	return nil
}
