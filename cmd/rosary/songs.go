package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/companion"
	"github.com/sacredrosary/rosary-server/internal/playback"
	"github.com/sacredrosary/rosary-server/internal/preferences"
)

const maxSongResults = 20

func (a *app) newFontCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "font [larger|smaller|size]",
		Short:     "Show or change the reading font size",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"larger", "smaller"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				if len(args) == 1 {
					if err := changeFont(ctx, c.Preferences, args[0]); err != nil {
						return err
					}
				}
				f := c.Preferences.FontSize()
				fmt.Fprintf(cmd.OutOrStdout(), "font: %s (%dpx)\n", f, f.Pixels())
				return nil
			})
		},
	}
}

func changeFont(ctx context.Context, p *preferences.Preferences, arg string) error {
	switch arg {
	case "larger", "+":
		_, err := p.Larger(ctx)
		return err
	case "smaller", "-":
		_, err := p.Smaller(ctx)
		return err
	}
	f := preferences.FontSize(arg)
	if !f.Valid() {
		return fmt.Errorf("unknown font size %q (want one of %v)", arg, preferences.FontSizes())
	}
	return p.SetFontSize(ctx, f)
}

func newSongsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "songs [query]",
		Short: "List the devotional songs, or search them",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.Default()
			songs := c.Songs()

			if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
				index, err := catalog.NewIndex(c)
				if err != nil {
					return fmt.Errorf("failed to build song index: %w", err)
				}
				defer index.Close()

				ids, err := index.Search(q, maxSongResults)
				if err != nil {
					return err
				}
				songs = songs[:0]
				for _, id := range ids {
					if s, ok := c.GetByID(id); ok {
						songs = append(songs, s)
					}
				}
			}

			out := cmd.OutOrStdout()
			for _, s := range songs {
				fmt.Fprintf(out, "%-24s %6s  %s\n", s.ID, s.Duration, s.Title)
			}
			if len(songs) == 0 {
				fmt.Fprintln(out, "no songs found")
			}
			return nil
		},
	}
}

func (a *app) newListenCmd() *cobra.Command {
	var once, shuffle bool
	cmd := &cobra.Command{
		Use:   "listen [song-id]",
		Short: "Play the devotional songs until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, cmd *cobra.Command, c *companion.Companion) error {
				id := catalog.DefaultSongID
				if len(args) == 1 {
					id = args[0]
				}
				if _, ok := c.Catalog.GetByID(id); !ok {
					return fmt.Errorf("unknown song %q", id)
				}
				return listen(ctx, cmd, c, id, once, shuffle)
			})
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "stop after the first song")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "pick songs at random")
	return cmd
}

func listen(ctx context.Context, cmd *cobra.Command, c *companion.Companion, id string, once, shuffle bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	c.SetAutoAdvance(!once)
	if shuffle && !c.Player.State().Shuffle {
		c.Player.ToggleShuffle()
	}

	var (
		mu      sync.Mutex
		current string
		failure error
	)
	done := make(chan struct{})
	var finish sync.Once

	unsubscribe := c.Player.Subscribe(func(s playback.State) {
		mu.Lock()
		defer mu.Unlock()
		if s.CurrentSong != current && s.Status != playback.StatusIdle {
			current = s.CurrentSong
			if song, ok := c.Catalog.GetByID(current); ok {
				fmt.Fprintf(out, "%s (%s)\n", song.Title, song.Duration)
			}
		}
		switch {
		case s.Status == playback.StatusError:
			failure = fmt.Errorf("playback failed: %w", s.LastError)
			finish.Do(func() { close(done) })
		case once && s.Status == playback.StatusEnded:
			finish.Do(func() { close(done) })
		}
	})
	defer unsubscribe()

	c.Player.Load(id, true)

	select {
	case <-ctx.Done():
	case <-done:
	}
	mu.Lock()
	defer mu.Unlock()
	return failure
}
