package commands

import (
	"encoding/json"

	"github.com/sitedash/sitedash/internal/content/store"
	"github.com/spf13/cobra"
)

func newGetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current content and where it came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			ctx, cancel := g.timeoutCtx(cmd)
			defer cancel()

			s := g.session()
			if err := s.Load(ctx); err != nil {
				return p.Error("Failed to load content", err.Error(),
					"Check that "+g.cache+" is readable, or remove it.")
			}
			switch s.Source() {
			case store.SourceRemote:
				p.Step("%s from %s", s.Notice(), g.api)
			case store.SourceCache:
				p.Warning("%s (%s): %v", s.Notice(), g.cache, s.Err())
			default:
				p.Warning("%s: %v", s.Notice(), s.Err())
			}
			b, err := json.MarshalIndent(s.Document(), "", "  ")
			if err != nil {
				return p.Error("Failed to encode content", err.Error())
			}
			p.Printf("%s\n", b)
			return nil
		},
	}
}
