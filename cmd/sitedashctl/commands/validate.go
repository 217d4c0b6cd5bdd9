package commands

import (
	"errors"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newValidateCmd(g *globals) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate -f FILE",
		Short: "Check a content file without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			doc, err := readDocument(g.fs, file)
			if err == nil {
				err = content.Validate(doc)
			}
			if err != nil {
				return reportInvalid(p, file, err)
			}
			p.Success("%s is valid", file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON content file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readDocument(fs afero.Fs, path string) (*content.Document, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return content.Decode(b)
}

func reportInvalid(p *printer, file string, err error) error {
	var verr *content.ValidationError
	if !errors.As(err, &verr) {
		return p.Error("Cannot read "+file, err.Error())
	}
	explanation := verr.Message
	if verr.Field != "" {
		explanation = verr.Field + ": " + verr.Message
	}
	return p.Error("Invalid content", explanation)
}
