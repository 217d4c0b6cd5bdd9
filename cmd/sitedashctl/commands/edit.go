package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sitedash/sitedash/internal/dashboard"
	"github.com/spf13/cobra"
)

type editFlags struct {
	title, image          string
	links                 []string
	email, phone, address string
}

func newEditCmd(g *globals) *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change individual fields of the current content and save",
		Long: `Loads the current content, applies the given changes and saves the
result. Fields that are not named keep their current value.`,
		Example: `  sitedashctl edit --title "Acme Corp" --link 2=Docs,https://docs.acme.io
  sitedashctl edit --email hello@acme.io --phone "+1 555 0100"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			ctx, cancel := g.timeoutCtx(cmd)
			defer cancel()

			s := g.session()
			if err := s.Load(ctx); err != nil {
				return p.Error("Failed to load content", err.Error())
			}
			if s.Err() != nil {
				p.Warning("%s: %v", s.Notice(), s.Err())
			}
			if err := applyEdits(cmd, s, f); err != nil {
				return p.Error("Invalid edit", err.Error())
			}
			res, err := s.Submit(ctx)
			return reportSave(p, g, res, err)
		},
	}
	cmd.Flags().StringVar(&f.title, "title", "", "Header title")
	cmd.Flags().StringVar(&f.image, "image", "", "Header image URL")
	cmd.Flags().StringArrayVar(&f.links, "link", nil, "Navigation link as N=label,url (N is 1-3); repeatable")
	cmd.Flags().StringVar(&f.email, "email", "", "Footer email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Footer phone")
	cmd.Flags().StringVar(&f.address, "address", "", "Footer address")
	return cmd
}

func applyEdits(cmd *cobra.Command, s *dashboard.Session, f editFlags) error {
	changed := cmd.Flags().Changed
	cur := s.Document()

	if changed("title") || changed("image") {
		title, image := cur.Header.Title, cur.Header.ImageURL
		if changed("title") {
			title = f.title
		}
		if changed("image") {
			image = f.image
		}
		if err := s.UpdateHeader(title, image); err != nil {
			return err
		}
	}
	for _, raw := range f.links {
		i, label, url, err := parseLink(raw)
		if err != nil {
			return err
		}
		if err := s.SetLink(i, label, url); err != nil {
			return err
		}
	}
	if changed("email") || changed("phone") || changed("address") {
		ft := cur.Footer
		if changed("email") {
			ft.Email = f.email
		}
		if changed("phone") {
			ft.Phone = f.phone
		}
		if changed("address") {
			ft.Address = f.address
		}
		if err := s.UpdateFooter(ft.Email, ft.Phone, ft.Address); err != nil {
			return err
		}
	}
	return nil
}

// parseLink parses "N=label,url" into a zero-based index.
func parseLink(raw string) (int, string, string, error) {
	num, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return 0, "", "", fmt.Errorf("link %q: want N=label,url", raw)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 1 {
		return 0, "", "", fmt.Errorf("link %q: N must be a positive number", raw)
	}
	label, url, ok := strings.Cut(rest, ",")
	if !ok {
		return 0, "", "", fmt.Errorf("link %q: want N=label,url", raw)
	}
	return n - 1, label, url, nil
}
