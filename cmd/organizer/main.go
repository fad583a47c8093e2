package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nzoschke/organizer/internal/client"
	"github.com/nzoschke/organizer/internal/model"
)

func main() {
	var opts client.Options

	rootCmd := &cobra.Command{
		Use:           "organizer",
		Short:         "Track habits and reminders from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.BaseURL, "url", envOr("ORGANIZER_URL", "http://localhost:8090"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&opts.UserID, "user", os.Getenv("ORGANIZER_USER"), "user id sent as X-User-ID")
	rootCmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("ORGANIZER_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().StringVar(&opts.Timezone, "tz", os.Getenv("TZ"), "IANA timezone for today")
	rootCmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "request timeout")

	board := func(ctx context.Context) (*client.Board, error) {
		b := client.NewBoard(client.New(opts))
		return b, b.Refresh(ctx)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "habits",
		Short: "List active habits with today's status and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := board(cmd.Context())
			if err != nil {
				return err
			}
			for _, view := range b.Habits() {
				printHabit(view)
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "reminders",
		Short: "List reminders by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := board(cmd.Context())
			if err != nil {
				return err
			}
			for _, reminder := range b.Reminders() {
				printReminder(reminder)
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "toggle-habit <habit-id>",
		Short: "Flip today's completion for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := board(cmd.Context())
			if err != nil {
				return err
			}
			view, err := b.ToggleHabit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printHabit(view)
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "toggle-reminder <reminder-id>",
		Short: "Mark a reminder completed or pending again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := board(cmd.Context())
			if err != nil {
				return err
			}
			reminder, err := b.ToggleReminder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReminder(reminder)
			return nil
		},
	})

	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func printHabit(view model.HabitView) {
	mark := color.New(color.FgHiBlack).Sprint("[ ]")
	if view.CompletedToday {
		mark = color.GreenString("[x]")
	}

	var days []byte
	for i := min(6, len(view.History)-1); i >= 0; i-- {
		switch view.History[i].Status {
		case model.HistoryCompleted:
			days = append(days, '#')
		case model.HistorySkipped:
			days = append(days, '~')
		default:
			days = append(days, '.')
		}
	}

	fmt.Printf("%s %-30s %s %s  %s\n",
		mark,
		view.Name,
		color.YellowString("%3d", view.Streak),
		string(days),
		color.New(color.FgHiBlack).Sprint(view.ID),
	)
}

func printReminder(r client.Reminder) {
	mark := color.New(color.FgHiBlack).Sprint("[ ]")
	if r.Completed {
		mark = color.GreenString("[x]")
	}

	due := r.DueDate.Local().Format("Mon Jan 2 15:04")
	if !r.Completed && r.DueDate.Before(time.Now()) {
		due = color.RedString(due)
	}

	priority := r.Priority
	if priority == model.ReminderPriorityHigh {
		priority = color.MagentaString(priority)
	}

	fmt.Printf("%s %-30s %s %s  %s\n", mark, r.Title, due, priority, color.New(color.FgHiBlack).Sprint(r.ID))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
