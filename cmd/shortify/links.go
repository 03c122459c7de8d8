package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/atinyakov/shortify/internal/app/service"
	"github.com/atinyakov/shortify/internal/config"
	"github.com/atinyakov/shortify/internal/models"
)

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(opts *config.Options, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), opts, true)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func newCreateCmd(opts *config.Options) *cobra.Command {
	var (
		alias   string
		ai      bool
		suggest bool
	)

	cmd := &cobra.Command{
		Use:   "create <url>",
		Short: "Shorten a URL and add it to the history",
		Long: `Shorten a URL. Without --alias the shortening service picks a random alias.

With --suggest an alias is requested from Gemini first; if the service
rejects it, the link is created with a random alias instead. --ai marks a
hand-supplied --alias as AI-suggested so it gets the same treatment.`,
		Example: `  shortify create example.com/page
  shortify create https://go.dev/doc --alias go-docs
  shortify create react.dev --suggest`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			req := models.CreateRequest{URL: args[0], Alias: alias, AIGenerated: ai}

			if suggest {
				s, err := a.service.Suggest(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Suggested alias: %s\n", s)
				req.Alias = s
				req.AIGenerated = true
			}

			switch o := a.service.Create(ctx, req).(type) {
			case service.Success:
				fmt.Fprintln(cmd.OutOrStdout(), o.Record.ShortURL)
			case service.SuccessWithNotice:
				fmt.Fprintln(cmd.ErrOrStderr(), o.Notice)
				fmt.Fprintln(cmd.OutOrStdout(), o.Record.ShortURL)
			case service.Failure:
				return o
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&alias, "alias", "", "custom alias (letters, digits and hyphens)")
	cmd.Flags().BoolVar(&ai, "ai", false, "treat --alias as AI-suggested")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "ask Gemini for an alias")
	cmd.MarkFlagsMutuallyExclusive("alias", "suggest")
	return cmd
}

func newSuggestCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <url>",
		Short: "Print an alias suggestion for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			alias, err := a.service.Suggest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), alias)
			return nil
		}),
	}
}

func newListCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored links, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			links := a.service.List(cmd.Context())
			if len(links) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No links yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSHORT URL\tORIGINAL URL\tCREATED\tAI")
			for _, l := range links {
				ai := ""
				if l.AIGenerated {
					ai = "yes"
				}
				created := time.UnixMilli(l.CreatedAt).Format(time.DateTime)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.ShortURL, l.OriginalURL, created, ai)
			}
			return w.Flush()
		}),
	}
}

func newDeleteCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a link from the history",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			before := len(a.service.List(cmd.Context()))
			remaining, err := a.service.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(remaining) == before {
				return fmt.Errorf("no link with id %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted. %d link(s) left.\n", len(remaining))
			return nil
		}),
	}
}

func newOpenCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "open <alias>",
		Short: "Print the original URL behind a stored alias",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			link, err := a.service.Resolve(cmd.Context(), args[0])
			if errors.Is(err, service.ErrLinkNotFound) {
				return fmt.Errorf("%w; run \"shortify list\" to see stored links", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link.OriginalURL)
			return nil
		}),
	}
}
