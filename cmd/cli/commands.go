package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope"
	"github.com/himanishpuri/SongScope/pkg/songscope/blob"
	"github.com/himanishpuri/SongScope/pkg/songscope/dataset"
	"github.com/himanishpuri/SongScope/pkg/songscope/recommend"
	"github.com/himanishpuri/SongScope/pkg/songscope/storage"
	"github.com/himanishpuri/SongScope/pkg/utils"
)

func newUsersCmd(opts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List user ids with their dashboard index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.createService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			users := svc.Users()
			if limit > 0 && limit < len(users) {
				users = users[:limit]
			}
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, users)
			}
			if len(users) == 0 {
				fmt.Fprintln(out, "No users in the interaction log")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tUSER")
			for i, u := range users {
				fmt.Fprintf(tw, "%d\t%s\n", i, u)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many users (0 = all)")
	return cmd
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	var songID string
	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show a user's played songs and preferences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.createService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			view, err := svc.Dashboard(cmd.Context(), songscope.Interaction{UserIndex: &index, SongID: songID})
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), view)
			}
			return printView(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&songID, "song", "", "Also show details for this song id")
	return cmd
}

func newRecommendCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <index> <song-id>",
		Short: "Request recommendations for a song the user played",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.createService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			userID, err := svc.UserByIndex(index)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			res, err := svc.Recommend(cmd.Context(), userID, args[1])
			if errors.Is(err, recommend.ErrNoSongSelected) {
				fmt.Fprintln(out, songscope.MsgNoSongSelected)
				return nil
			}
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(out, res)
			}
			return printRecommendations(out, res)
		},
	}
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the CSV datasets and write them to a SQLite snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			tables, err := dataset.Load(cmd.Context(), blob.NewRouter(cfg.S3), cfg.Data.Interactions, cfg.Data.Catalog)
			if err != nil {
				return err
			}
			path := utils.ExpandPath(outPath)
			if err := songscope.WriteSnapshot(path, tables, cfg.Data.Interactions, cfg.Data.Catalog); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d interactions and %d songs to %s\n",
				len(tables.Interactions), len(tables.Catalog), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", storage.DefaultDBFile, "Snapshot file to write")
	return cmd
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("user index must be a non-negative integer, got %q", s)
	}
	return i, nil
}

func printView(w io.Writer, view songscope.View) error {
	for _, msg := range view.Messages {
		fmt.Fprintf(w, "%s\n", msg)
	}
	user := view.User
	if user == nil {
		return nil
	}

	fmt.Fprintf(w, "\nUser %d: %s\n\n", user.Index, user.UserID)
	fmt.Fprintf(w, "Songs this user used to listen to (%d):\n", len(user.PlayedSongs))
	if err := printSongs(w, user.PlayedSongs); err != nil {
		return err
	}

	s := user.Summary
	fmt.Fprintln(w, "\nPreferences:")
	if !s.HasData() {
		fmt.Fprintln(w, "  none of this user's songs are in the catalog")
		return printSongDetail(w, view.Song)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Plays\t%d\n", s.Plays)
	fmt.Fprintf(tw, "  Top artists\t%s\n", strings.Join(s.TopArtists, ", "))
	fmt.Fprintf(tw, "  Top genres\t%s\n", strings.Join(s.TopGenres, ", "))
	fmt.Fprintf(tw, "  Top languages\t%s\n", strings.Join(s.TopLanguages, ", "))
	if s.AvgSongLength != nil {
		fmt.Fprintf(tw, "  Average song length\t%.0f ms (%s)\n", *s.AvgSongLength, formatLength(*s.AvgSongLength))
	} else {
		fmt.Fprintf(tw, "  Average song length\tn/a\n")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return printSongDetail(w, view.Song)
}

func printSongDetail(w io.Writer, song *songscope.SongDetail) error {
	if song == nil {
		return nil
	}
	fmt.Fprintf(w, "\nSong %s:\n", song.SongID)
	if len(song.Info) == 0 {
		fmt.Fprintln(w, "  not in the catalog")
	} else if err := printSongs(w, song.Info); err != nil {
		return err
	}
	fmt.Fprintf(w, "  played %d time(s)\n", len(song.UserRows))
	return nil
}

func printSongs(w io.Writer, songs []models.SongRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  SONG ID\tNAME\tARTIST\tLENGTH\tLANGUAGE")
	for _, s := range songs {
		length := ""
		if s.HasLength {
			length = formatLength(s.SongLength)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", s.SongID, s.Name, s.ArtistName, length, s.Language)
	}
	return tw.Flush()
}

func printRecommendations(w io.Writer, res models.RecommendationResult) error {
	if res.Outcome == models.OutcomeEmpty {
		fmt.Fprintln(w, songscope.MsgNoRecommendations)
		return nil
	}
	fmt.Fprintf(w, "Recommended songs for %s:\n", res.SongID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tSONG ID\tNAME\tARTIST\tSCORE")
	for _, r := range res.Songs {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%.4f\n", r.Rank, r.Song.SongID, r.Song.Name, r.Song.ArtistName, r.Score)
	}
	return tw.Flush()
}

// formatLength renders milliseconds as m:ss.
func formatLength(ms float64) string {
	total := int(ms / 1000)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
