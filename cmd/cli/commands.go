package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	dryRun    bool
	limit     int
	matchType string
	target    int
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Do not post notifications to Slack")

	playersCmd.AddCommand(playersAddCmd, playersRenameCmd, playersRemoveCmd, playersShowCmd, playersSearchCmd)
	matchesCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of matches to list")

	startCmd.Flags().IntVar(&target, "target", 0, "Target score (defaults to the server's default target)")
	startCmd.Flags().StringVar(&matchType, "type", "OFFICIAL", "Match type: OFFICIAL or DUMMY")
	matchCmd.AddCommand(joinCmd, startCmd, pointCmd, undoCmd, scoreCmd, resetPointsCmd, endCmd, submitCmd)

	rootCmd.AddCommand(healthCmd, metricsCmd, playersCmd, matchesCmd, matchCmd, announceCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show the ladder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players", nil)
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/players", map[string]string{"name": args[0]})
	},
}

var playersRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPatch, "/players/"+url.PathEscape(args[0]), map[string]string{"name": args[1]})
	},
}

var playersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/players/"+url.PathEscape(args[0]), nil)
	},
}

var playersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a player's standing and recent matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0]), nil)
	},
}

var playersSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find players by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/search?q="+url.QueryEscape(args[0]), nil)
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Post the ladder to the Slack channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/leaderboard/announce", nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List submitted matches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/matches"
		if limit > 0 {
			endpoint += "?limit=" + strconv.Itoa(limit)
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show the live match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/match", nil)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <player-id>",
	Short: "Put a player on court",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/match/participants", map[string]string{"player_id": args[0]})
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the match",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"match_type": matchType}
		if target > 0 {
			body["target"] = target
		}
		return performRequest(http.MethodPost, "/match/start", body)
	},
}

var pointCmd = &cobra.Command{
	Use:   "point <1|2>",
	Short: "Award a point to a side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/match/points/"+args[0]+"/increment", nil)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <1|2>",
	Short: "Take a point away from a side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/match/points/"+args[0]+"/decrement", nil)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <player1-points> <player2-points> <target>",
	Short: "Set the score by hand",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPut, "/match/points", map[string]string{
			"player1_points": args[0],
			"player2_points": args[1],
			"target":         args[2],
		})
	},
}

var resetPointsCmd = &cobra.Command{
	Use:   "reset-points",
	Short: "Zero both scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/match/reset-points", nil)
	},
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "Abandon the live match without recording it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/match/end", nil)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record the completed match and update ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/match/submit", nil)
	},
}

func performRequest(method, endpoint string, payload any) error {
	u, err := url.Parse(host + endpoint)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if dryRun {
		q := u.Query()
		q.Set("dry_run", "true")
		u.RawQuery = q.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, u)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
