package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/submux/pkg/episode"
	"github.com/vmunix/submux/pkg/episode/scoring"
)

// identityJSON is the JSON form of an episode.Identity.
type identityJSON struct {
	Name        string   `json:"name"`
	BaseName    string   `json:"base_name"`
	Season      *int     `json:"season,omitempty"`
	Episode     *float64 `json:"episode,omitempty"`
	Label       string   `json:"label,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Show        string   `json:"show"`
	ShowDisplay string   `json:"show_display"`
	Group       string   `json:"group,omitempty"`
	Language    string   `json:"language,omitempty"`

	// Set with --against.
	Confidence *float64 `json:"confidence,omitempty"`
	Rule       string   `json:"rule,omitempty"`
}

func toIdentityJSON(name string, id episode.Identity) identityJSON {
	out := identityJSON{
		Name:        name,
		BaseName:    id.BaseName,
		Label:       id.EpisodeLabel(),
		Pattern:     string(id.Pattern),
		Show:        id.Show,
		ShowDisplay: id.ShowDisplay,
		Group:       id.Group,
		Language:    id.Language,
	}
	if id.HasSeason {
		season := id.Season
		out.Season = &season
	}
	if id.HasEpisode {
		ep := id.Episode
		out.Episode = &ep
	}
	return out
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <filename>...",
	Short: "Show what submux reads from filenames",
	Long: `Parse filenames into show, season, episode, release group and language.

With --against, each name is also scored as a subtitle for that video.

Examples:
  submux parse "[Group] Show - 05 [1080p].mkv"
  submux parse --against "[Raws] Show - 05.mkv" "Show.S01E05.eng.ass"
  submux parse --file names.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("file", "f", "", "Read filenames from file (one per line)")
	parseCmd.Flags().String("against", "", "Score each name as a subtitle for this video")
	parseCmd.Flags().String("similarity", "", "Similarity for --against: levenshtein or jaro-winkler")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	inputFile, _ := cmd.Flags().GetString("file")
	against, _ := cmd.Flags().GetString("against")
	simName, _ := cmd.Flags().GetString("similarity")

	names := args
	if inputFile != "" {
		fromFile, err := readNameFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		return fmt.Errorf("usage: submux parse <filename>... or submux parse --file <filename>")
	}

	sim, err := episode.SimilarityByName(simName)
	if err != nil {
		return err
	}

	var video episode.Identity
	if against != "" {
		video = episode.Extract(against)
	}

	results := make([]identityJSON, 0, len(names))
	for _, name := range names {
		id := episode.Extract(name)
		r := toIdentityJSON(name, id)
		if against != "" {
			conf, rule := scoring.Score(video, id, sim)
			r.Confidence = &conf
			r.Rule = rule.String()
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if len(results) == 1 {
			return printJSON(out, results[0])
		}
		return printJSON(out, results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printIdentity(out, r)
	}
	return nil
}

func printIdentity(w io.Writer, r identityJSON) {
	fmt.Fprintf(w, "%s\n", r.Name)
	fmt.Fprintf(w, "  Show:     %s\n", valueOrEmpty(r.ShowDisplay))
	if r.Label != "" {
		fmt.Fprintf(w, "  Episode:  %s (%s)\n", r.Label, r.Pattern)
	} else {
		fmt.Fprintf(w, "  Episode:  %s\n", valueOrEmpty(""))
	}
	fmt.Fprintf(w, "  Group:    %s\n", valueOrEmpty(r.Group))
	if r.Language != "" {
		fmt.Fprintf(w, "  Language: %s\n", r.Language)
	}
	if r.Confidence != nil {
		fmt.Fprintf(w, "  Score:    %s (%s)\n", formatConfidence(*r.Confidence), r.Rule)
	}
}

// readNameFile reads filenames from path, one per line. Blank lines and
// lines starting with # are skipped.
func readNameFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}
