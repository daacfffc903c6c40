package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sacredrosary/rosary-server/internal/companion"
	"github.com/sacredrosary/rosary-server/internal/domain"
)

func (a *app) newIntentionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intentions",
		Short: "List, add or remove prayer intentions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, listIntentions)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List active intentions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, listIntentions)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add an intention",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				e, err := c.Records.AddIntention(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added intention %d\n", e.ID)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an intention",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				if err := c.Records.RemoveIntention(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed intention %d\n", id)
				return nil
			})
		},
	})
	return cmd
}

func listIntentions(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
	list, err := c.Records.Intentions(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "no intentions")
		return nil
	}
	for _, e := range list {
		fmt.Fprintf(out, "%d\t%s\n", e.ID, e.Text)
	}
	return nil
}

func (a *app) newPrayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prayers",
		Short: "List, add, edit or remove custom prayers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, listCustomPrayers)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List custom prayers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, listCustomPrayers)
		},
	})

	var title, section string
	add := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a custom prayer to the opening or closing prayers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := parseSection(section)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				e, err := c.Records.AddCustomPrayer(ctx, title, strings.Join(args, " "), s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added prayer %d\n", e.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&title, "title", "", "prayer title")
	add.Flags().StringVar(&section, "section", string(domain.SectionInitium), "initium or ultima")
	_ = add.MarkFlagRequired("title")
	cmd.AddCommand(add)

	var newTitle, newContent, newSection string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, content or section of a custom prayer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			var u domain.CustomPrayerUpdate
			if cmd.Flags().Changed("title") {
				u.Title = &newTitle
			}
			if cmd.Flags().Changed("content") {
				u.Content = &newContent
			}
			if cmd.Flags().Changed("section") {
				s, err := parseSection(newSection)
				if err != nil {
					return err
				}
				u.Section = &s
			}
			if u.Empty() {
				return fmt.Errorf("nothing to change: pass --title, --content or --section")
			}
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				e, err := c.Records.UpdateCustomPrayer(ctx, id, u)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated prayer %d\n", e.ID)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&newTitle, "title", "", "new title")
	edit.Flags().StringVar(&newContent, "content", "", "new content")
	edit.Flags().StringVar(&newSection, "section", "", "new section")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a custom prayer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				if err := c.Records.RemoveCustomPrayer(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed prayer %d\n", id)
				return nil
			})
		},
	})
	return cmd
}

func listCustomPrayers(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
	list, err := c.Records.CustomPrayers(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "no custom prayers")
		return nil
	}
	for _, e := range list {
		fmt.Fprintf(out, "%d\t[%s]\t%s\n", e.ID, e.Section, e.Title)
	}
	return nil
}

func parseEntryID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
