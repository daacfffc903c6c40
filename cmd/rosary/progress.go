package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sacredrosary/rosary-server/internal/companion"
	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/progress"
)

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current section, mystery and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, printStatus)
		},
	}
}

func printStatus(_ context.Context, cmd *cobra.Command, c *companion.Companion) error {
	out := cmd.OutOrStdout()
	printPosition(cmd, c.Progress.Position())
	for _, s := range domain.MysterySections() {
		fmt.Fprintf(out, "  %-9s %d/%d\n", s, c.Progress.CurrentMystery(s)+1, domain.MysteriesPerSection)
	}
	mode := "guest"
	if !c.Records.Guest() {
		mode = "signed in"
	}
	fmt.Fprintf(out, "records: %s\nfont: %s\n", mode, c.Preferences.FontSize())
	return nil
}

func printPosition(cmd *cobra.Command, p progress.Position) {
	out := cmd.OutOrStdout()
	if p.Mystery < 0 {
		fmt.Fprintf(out, "%s (%d/%d)\n", p.Section.Title(), p.SectionIndex+1, domain.SectionCount())
		return
	}
	fmt.Fprintf(out, "%s (%d/%d), mystery %d/%d\n",
		p.Section.Title(), p.SectionIndex+1, domain.SectionCount(), p.Mystery+1, domain.MysteriesPerSection)
}

// moveCmd builds a command that changes the position and prints it.
func (a *app) moveCmd(use, short string, args cobra.PositionalArgs, move func(context.Context, *companion.Companion, []string) (progress.Position, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				p, err := move(ctx, c, argv)
				if err != nil {
					return err
				}
				printPosition(cmd, p)
				return nil
			})
		},
	}
}

func (a *app) newNextCmd() *cobra.Command {
	return a.moveCmd("next", "Advance to the next mystery or section", cobra.NoArgs,
		func(ctx context.Context, c *companion.Companion, _ []string) (progress.Position, error) {
			return c.Progress.Advance(ctx)
		})
}

func (a *app) newPrevCmd() *cobra.Command {
	return a.moveCmd("prev", "Go back to the previous mystery or section", cobra.NoArgs,
		func(ctx context.Context, c *companion.Companion, _ []string) (progress.Position, error) {
			return c.Progress.Retreat(ctx)
		})
}

func (a *app) newJumpCmd() *cobra.Command {
	return a.moveCmd("jump <section> <mystery>", "Show a section at one of its mysteries (1-5)", cobra.ExactArgs(2),
		func(ctx context.Context, c *companion.Companion, args []string) (progress.Position, error) {
			section, err := parseSection(args[0])
			if err != nil {
				return progress.Position{}, err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return progress.Position{}, fmt.Errorf("invalid mystery %q", args[1])
			}
			if _, err := c.Progress.JumpToMystery(ctx, section, n-1); err != nil {
				return progress.Position{}, err
			}
			return c.Progress.SelectSection(ctx, section)
		})
}

func (a *app) newSectionCmd() *cobra.Command {
	return a.moveCmd("section <section>", "Show a section", cobra.ExactArgs(1),
		func(ctx context.Context, c *companion.Companion, args []string) (progress.Position, error) {
			section, err := parseSection(args[0])
			if err != nil {
				return progress.Position{}, err
			}
			return c.Progress.SelectSection(ctx, section)
		})
}

func (a *app) newResetCmd() *cobra.Command {
	return a.moveCmd("reset", "Start over from the opening prayers", cobra.NoArgs,
		func(ctx context.Context, c *companion.Companion, _ []string) (progress.Position, error) {
			return c.Progress.Reset(ctx)
		})
}

func parseSection(s string) (domain.Section, error) {
	section := domain.Section(s)
	if !section.Valid() {
		return "", fmt.Errorf("unknown section %q (want one of %v)", s, domain.Sections())
	}
	return section, nil
}
