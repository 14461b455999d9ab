package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"example.com/prosoche/internal/auth"
	"example.com/prosoche/internal/config"
	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/logging"
	"example.com/prosoche/internal/persistence/postgres"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prosochectl",
		Short:         "Operator tasks for the Prosoche journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), tokenCmd(), parseWorkoutCmd())
	return root
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.Must(cfg.LogLevel, cfg.LogFormat)
			defer logger.Sync()

			pool, err := pgxpool.New(cmd.Context(), cfg.PostgresURL)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			applied, err := postgres.Migrate(cmd.Context(), pool, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", applied)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for a journal owner",
		Long: `Issue a signed access token using the configured JWT secret.

Examples:
  prosochectl token --subject=0b9c2d4e-...
  prosochectl token --subject=0b9c2d4e-... --scope=journal:read --ttl=1h
`,
		RunE: runToken,
	}
	cmd.Flags().String("subject", "", "Journal owner id (required)")
	_ = cmd.MarkFlagRequired("subject")
	cmd.Flags().StringSlice("scope", []string{auth.ScopeJournalRead, auth.ScopeJournalWrite}, "Granted scopes")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	subject, _ := cmd.Flags().GetString("subject")
	scopes, _ := cmd.Flags().GetStringSlice("scope")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := auth.Issue(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, subject, scopes, ttl, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

type parsedExercise struct {
	domain.WorkoutExercise
	Series   int `json:"series"`
	MeanReps int `json:"repeticiones_media"`
}

func parseWorkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse-workout",
		Short: "Print the exercises found in workout notes as JSON",
		Long: `Parse free-form workout notes. Notes are read from --notes or, when
the flag is empty, from standard input.

Examples:
  prosochectl parse-workout --notes="✓ Sentadilla: 80, 3x10"
  cat notas.txt | prosochectl parse-workout
`,
		RunE: runParseWorkout,
	}
	cmd.Flags().String("notes", "", "Workout notes")
	return cmd
}

func runParseWorkout(cmd *cobra.Command, _ []string) error {
	notes, _ := cmd.Flags().GetString("notes")
	if strings.TrimSpace(notes) == "" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read notes: %w", err)
		}
		notes = string(raw)
	}

	exercises := domain.ParseWorkoutNotes(notes)
	out := make([]parsedExercise, 0, len(exercises))
	for _, ex := range exercises {
		series, reps := domain.ParseRepsAndSeries(ex.Reps)
		out = append(out, parsedExercise{WorkoutExercise: ex, Series: series, MeanReps: reps})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
