package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/talentscout/talentscout/internal/api"
	"github.com/talentscout/talentscout/internal/candidate"
	"github.com/talentscout/talentscout/internal/config"
	"github.com/talentscout/talentscout/internal/questions"
	"github.com/talentscout/talentscout/internal/storage"
	"github.com/talentscout/talentscout/internal/wizard"
)

// --- apply ---

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the interactive candidate intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		w := wizard.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.gen, a.store, wizard.Options{
			AssessmentEmail: a.cfg.Assessment.Email,
			Deadline:        a.cfg.Assessment.Deadline,
		})
		if _, err := w.Run(cmd.Context()); err != nil {
			if errors.Is(err, wizard.ErrAborted) {
				printWarning("Intake cancelled, nothing was saved")
				return nil
			}
			return err
		}
		return nil
	},
}

// --- submit ---

var submitCmd = &cobra.Command{
	Use:   "submit <file.json>",
	Short: "Submit a candidate record to a running server",
	Long: `Submit a candidate record to a running server.

The file holds one JSON object with the candidate fields:

  {"name":"Ada Lovelace","email":"ada@example.com","phone":"5551234567",
   "location":"London","position":"Backend Engineer","experience":7,
   "techStack":"Go, PostgreSQL"}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		var rec candidate.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		res, err := submitRecord(cmd.Context(), newAPIClient(cfg), rec)
		if err != nil {
			return err
		}
		printSuccess("Candidate %s (%s)", res.Status, rec.Email)
		fmt.Fprintln(stdout, res.Questions)
		return nil
	},
}

func submitRecord(ctx context.Context, client *apiClient, rec candidate.Record) (api.SubmitResponse, error) {
	var res api.SubmitResponse
	resp, err := client.post(ctx, "/v1/candidates", rec)
	if err != nil {
		return res, err
	}
	if err := decodeJSON(resp, &res); err != nil {
		return res, err
	}
	return res, nil
}

// --- admin ---

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Show the candidate dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		watch, _ := cmd.Flags().GetBool("watch")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)
		reader := storage.NewReader(cfg.Storage.Path)

		if asJSON {
			return writeDashboardJSON(stdout, reader, limit)
		}

		renderDashboard(stdout, reader, limit)
		if !watch {
			return nil
		}

		w, err := storage.NewWatcher(reader.Path(), storage.DefaultDebounce)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		printStep("Watching %s for new submissions (Ctrl+C to stop)", reader.Path())
		return w.Run(ctx, func() {
			if !noColor {
				fmt.Fprint(stdout, "\033[H\033[2J")
			}
			renderDashboard(stdout, reader, limit)
		})
	},
}

func init() {
	adminCmd.Flags().Int("limit", 10, "number of recent candidates to show")
	adminCmd.Flags().Bool("watch", false, "refresh when the store changes")
	adminCmd.Flags().Bool("json", false, "print stats and recent candidates as JSON")
}

// dashboardReader is the read side of the store the dashboard renders.
type dashboardReader interface {
	Latest(limit int) []candidate.Record
	Stats() storage.Stats
}

func renderDashboard(w io.Writer, r dashboardReader, limit int) {
	st := r.Stats()
	printHeader(w, "TalentScout Admin Dashboard")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	if st.Total == 0 {
		fmt.Fprintln(w, "No candidates found.")
		return
	}
	fmt.Fprintf(w, "Total candidates: %d\n\n", st.Total)

	for _, rec := range r.Latest(limit) {
		fmt.Fprintf(w, "%s  %s - %s\n", colorize(colorCyan, datePart(rec.Timestamp, 10)), rec.Name, rec.Position)
		fmt.Fprintf(w, "  Email: %s  Phone: %s  Location: %s\n", rec.Email, rec.Phone, rec.Location)
		fmt.Fprintf(w, "  Experience: %d years  Status: %s\n", rec.Experience, orNA(string(rec.Status)))
		fmt.Fprintf(w, "  Submitted: %s  Deadline: %s\n", datePart(rec.Timestamp, 19), datePart(rec.SubmissionDeadline, 19))
		fmt.Fprintf(w, "  Tech stack: %s\n", rec.TechStack)
		if rec.Questions != "" {
			fmt.Fprintln(w, "  Questions:")
			for _, line := range strings.Split(rec.Questions, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
		fmt.Fprintln(w)
	}

	printHeader(w, "Quick Stats")
	fmt.Fprintf(w, "  Average experience:    %.1f years\n", st.AverageExperience)
	fmt.Fprintf(w, "  Most common position:  %s\n", orNA(st.TopPosition))
	fmt.Fprintf(w, "  Last 24 hours:         %d\n", st.Recent24h)
	fmt.Fprintf(w, "  Last 7 days:           %d\n", st.Recent7d)
}

func writeDashboardJSON(w io.Writer, r dashboardReader, limit int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Stats  storage.Stats      `json:"stats"`
		Latest []candidate.Record `json:"latest"`
	}{r.Stats(), r.Latest(limit)})
}

func datePart(ts string, n int) string {
	if ts == "" {
		return "No date"
	}
	if len(ts) > n {
		return ts[:n]
	}
	return ts
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// --- repair ---

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Remove duplicate candidates from the store",
	Long: `Remove duplicate candidates from the store, keeping the first record for
each email and each phone number. Run it while no intake is in progress.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg.Log.Level)

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = cfg.Storage.Path
		}

		removed, err := storage.Repair(path)
		if err != nil {
			return fmt.Errorf("repairing %s: %w", path, err)
		}
		if removed == 0 {
			printSuccess("No duplicates found in %s", path)
			return nil
		}
		printSuccess("Removed %d duplicate(s) from %s", removed, path)
		return nil
	},
}

func init() {
	repairCmd.Flags().String("file", "", "candidates file (defaults to storage.path)")
}

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate [tech stack]",
	Short: "Generate assessment questions for a tech stack",
	Long: `Generate assessment questions for a tech stack.

Examples:
  talentscout generate "Python, Django, PostgreSQL"
  talentscout generate --local Java`,
	RunE: func(cmd *cobra.Command, args []string) error {
		local, _ := cmd.Flags().GetBool("local")
		stack := strings.Join(args, " ")

		if local {
			fmt.Fprintln(stdout, questions.Fallback(stack))
			return nil
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, a.gen.Generate(cmd.Context(), stack))
		return nil
	},
}

func init() {
	generateCmd.Flags().Bool("local", false, "skip the remote model and use local templates")
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mcpSrv := api.NewMCPServer(api.MCPDeps{Store: a.store, Questions: a.gen})
		stdioSrv := server.NewStdioServer(mcpSrv)
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP stdio server: %w", err)
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(stdout, "  %s = %s  %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorCyan, "("+k.EnvVar+")"))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value.\n\nValid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
