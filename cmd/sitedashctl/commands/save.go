package commands

import (
	"errors"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/internal/content/store"
	"github.com/spf13/cobra"
)

func newSaveCmd(g *globals) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save -f FILE",
		Short: "Validate a content file, save it and mirror it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			doc, err := readDocument(g.fs, file)
			if err != nil {
				return reportInvalid(p, file, err)
			}
			ctx, cancel := g.timeoutCtx(cmd)
			defer cancel()

			res, err := g.store().Save(ctx, doc)
			return reportSave(p, g, res, err)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON content file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func reportSave(p *printer, g *globals, res *store.SaveResult, err error) error {
	if err != nil {
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			return reportInvalid(p, "content", err)
		}
		return p.Error("Save failed", err.Error(), "Check that "+g.cache+" is writable.")
	}
	if res.LocalOnly {
		p.Warning("saved locally only (%s): %v", g.cache, res.RemoteErr)
		return nil
	}
	p.Success("saved (modified %d, inserted %d)", res.Outcome.ModifiedCount, res.Outcome.UpsertedCount)
	return nil
}
