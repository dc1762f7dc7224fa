package inspect

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/cfnls/pkg/definition"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/hover"
	"github.com/walteh/cfnls/pkg/parser"
	"github.com/walteh/cfnls/pkg/position"
	"github.com/walteh/cfnls/pkg/tmplctx"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	file  string
	line  int
	col   int
	path  string
	full  bool
	debug bool

	fs afero.Fs
}

func NewInspectCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "print the semantic context at a position or path in a template",
	}

	cmd.Flags().StringVar(&me.file, "file", "", "template file to inspect")
	cmd.Flags().IntVar(&me.line, "line", 0, "zero-based line of the position")
	cmd.Flags().IntVar(&me.col, "col", 0, "zero-based column of the position")
	cmd.Flags().StringVar(&me.path, "path", "", "structural path (e.g. /Resources/Bucket/Properties) instead of a position")
	cmd.Flags().BoolVar(&me.full, "full", false, "scan the whole owning entity for references")
	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

type output struct {
	Path         string                      `json:"path"`
	PropertyPath string                      `json:"property_path"`
	Section      string                      `json:"section"`
	Entity       string                      `json:"entity"`
	Syntax       string                      `json:"syntax"`
	Range        position.Range              `json:"range"`
	EntityRange  position.Range              `json:"entity_range"`
	Related      map[string][]relatedName    `json:"related,omitempty"`
	Definitions  map[string][]position.Range `json:"definitions,omitempty"`
	Hover        []string                    `json:"hover,omitempty"`
	FullyResolve *bool                       `json:"fully_resolved,omitempty"`
}

type relatedName struct {
	Name  string         `json:"name"`
	Range position.Range `json:"range"`
}

func (me *Handler) Run(ctx context.Context) error {
	level := zerolog.WarnLevel
	if me.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().
		Str("component", "inspect").
		Timestamp().
		Logger()
	ctx = logger.WithContext(ctx)

	content, err := afero.ReadFile(me.fs, me.file)
	if err != nil {
		return errors.Errorf("reading template: %w", err)
	}

	text := string(content)
	kind := parser.DetectSyntax(me.file, text)

	docs := doctree.NewManager()
	id := doctree.DocumentID(me.file)
	if err := docs.Open(ctx, id, text, kind); err != nil {
		return errors.Errorf("opening template: %w", err)
	}

	mgr := tmplctx.NewManager(docs)

	var out output
	switch {
	case me.path != "":
		c, fully := mgr.GetContextFromPath(ctx, id, doctree.ParsePath(me.path))
		if c == nil {
			return errors.New("no context at the requested path")
		}
		out = me.render(c, nil)
		out.FullyResolve = &fully
	default:
		rc := mgr.GetContextAndRelated(ctx, id, position.Place{Line: me.line, Character: me.col}, me.full)
		if rc == nil {
			return errors.New("no context at the requested position")
		}
		out = me.render(&rc.Context, rc)

		if info, err := hover.BuildHoverResponse(ctx, mgr, id, position.Place{Line: me.line, Character: me.col}); err == nil && info != nil {
			out.Hover = info.Content
		}

		queried := rc.Tree().Tree().TextOf(rc.Node)
		defs := definition.Resolve(ctx, queried, rc)
		if len(defs) > 0 {
			out.Definitions = make(map[string][]position.Range)
			for _, d := range defs {
				key := d.Section.String()
				out.Definitions[key] = append(out.Definitions[key], d.Range)
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Errorf("encoding output: %w", err)
	}
	return nil
}

func (me *Handler) render(c *tmplctx.Context, rc *tmplctx.RelatedContext) output {
	out := output{
		Path:         c.Path.String(),
		PropertyPath: c.PropertyPath.String(),
		Section:      c.Section.String(),
		Entity:       c.EntityName(),
		Syntax:       c.Syntax.String(),
		Range:        c.Range(),
		EntityRange:  c.EntityRange(),
	}
	if rc != nil && len(rc.Related) > 0 {
		out.Related = make(map[string][]relatedName)
		for section, names := range rc.Related {
			for name, rctx := range names {
				out.Related[section.String()] = append(out.Related[section.String()], relatedName{
					Name:  name,
					Range: rctx.EntityRange(),
				})
			}
		}
	}
	return out
}
