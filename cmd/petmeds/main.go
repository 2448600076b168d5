package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"pet-meds/internal/app"
	"pet-meds/internal/domain/export"
	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/projections"
	"pet-meds/internal/domain/schedule"
	"pet-meds/internal/platform/config"
	"pet-meds/internal/platform/logger"

	"github.com/spf13/cobra"
)

var (
	storeEngine string
	storePath   string
	asJSON      bool
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "petmeds",
		Short:         "Pet medication schedule: due doses, calendar, history and exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&storeEngine, "store", "", "store engine (sqlite, json, memory, postgres, redis); default STORE_ENGINE")
	rootCmd.PersistentFlags().StringVar(&storePath, "path", "", "store file for sqlite/json; default STORE_PATH")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(petsCmd())
	rootCmd.AddCommand(medsCmd())
	rootCmd.AddCommand(dueCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(giveCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(serveCmd())
	return rootCmd
}

// openApp carga la config del entorno y aplica los flags globales encima.
// Los comandos de consola loguean solo warnings para no ensuciar la salida.
func openApp(ctx context.Context, quiet bool) (*app.App, error) {
	cfg, err := config.LoadFrom(func(key string) (string, bool) {
		switch {
		case key == "STORE_ENGINE" && storeEngine != "":
			return storeEngine, true
		case key == "STORE_PATH" && storePath != "":
			return storePath, true
		}
		return os.LookupEnv(key)
	})
	if err != nil {
		return nil, err
	}

	log := logger.NewFromEnv()
	if quiet {
		log = logger.New(logger.Options{Level: logger.Warn, Output: os.Stderr})
	}
	return app.New(ctx, cfg, log)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func petsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pets",
		Short: "List pets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			pets, err := a.Service.ListPets(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), pets)
			}

			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tSPECIES\tWEIGHT")
			for _, p := range pets {
				weight := "-"
				if p.Weight != nil {
					weight = fmt.Sprintf("%.1f", *p.Weight)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Species, weight)
			}
			return w.Flush()
		},
	}
}

func medsCmd() *cobra.Command {
	var petID string

	cmd := &cobra.Command{
		Use:   "meds",
		Short: "List medications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			meds, err := a.Service.ListMedications(cmd.Context())
			if err != nil {
				return err
			}
			if petID != "" {
				meds = projections.MedicationsForPet(meds, petID)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), meds)
			}

			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tPET\tNAME\tDOSAGE\tSCHEDULE\tNEXT DUE")
			for _, m := range meds {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.PetID, m.Name, m.Dosage, m.Schedule, m.NextDue)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&petID, "pet", "", "only medications of this pet")
	return cmd
}

func dueCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show overdue and due-today medications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			today, err := dateOrToday(a, date)
			if err != nil {
				return err
			}
			snap, err := a.Service.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			d := projections.BuildDashboard(snap, today)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), d)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d overdue, %d due today\n", d.Date, d.OverdueCount, d.DueTodayCount)
			w := table(cmd.OutOrStdout())
			for _, it := range append(d.Overdue, d.DueToday...) {
				state := "today"
				if it.IsPastDue {
					state = "overdue"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", state, it.Medication.NextDue, it.PetName, it.Medication.Name, it.Medication.Dosage, it.Medication.ID)
			}
			for _, r := range d.Refills {
				if r.NeedsRefill && r.DaysUntilRefill != nil {
					fmt.Fprintf(w, "refill\t%d days\t\t%s\t\t\n", *r.DaysUntilRefill, r.MedicationID)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date YYYY-MM-DD (default today)")
	return cmd
}

func calendarCmd() *cobra.Command {
	var month bool

	cmd := &cobra.Command{
		Use:   "calendar [date]",
		Short: "Show scheduled, completed and missed doses for a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			date, err := dateOrToday(a, arg)
			if err != nil {
				return err
			}
			snap, err := a.Service.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			today := a.Service.Today()

			if month {
				days := projections.ForCalendarMonth(snap, date, today)
				if asJSON {
					return printJSON(cmd.OutOrStdout(), days)
				}
				w := table(cmd.OutOrStdout())
				fmt.Fprintln(w, "DATE\tSCHEDULED\tCOMPLETED\tMISSED")
				for _, d := range days {
					if d.Scheduled+d.Completed+d.Missed == 0 {
						continue
					}
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", d.Date, d.Scheduled, d.Completed, d.Missed)
				}
				return w.Flush()
			}

			day := projections.ForCalendarDate(snap, date, today)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), day)
			}
			w := table(cmd.OutOrStdout())
			for _, it := range day.Scheduled {
				fmt.Fprintf(w, "scheduled\t%s\t%s\t%s\n", it.PetName, it.Medication.Name, it.Medication.Dosage)
			}
			for _, it := range day.Completed {
				fmt.Fprintf(w, "completed\t%s\t%s\t%s\n", it.PetName, it.MedicationName, it.Log.GivenAt.Format("15:04"))
			}
			for _, it := range day.Missed {
				fmt.Fprintf(w, "missed\t%s\t%s\t%s\n", it.PetName, it.Medication.Name, it.Medication.Dosage)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&month, "month", false, "per-day totals for the whole month")
	return cmd
}

func historyCmd() *cobra.Command {
	var (
		petID string
		rng   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List administered doses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, ok := projections.ParseRange(rng)
			if !ok {
				return fmt.Errorf("invalid --range %q: use a positive number of days or all", rng)
			}

			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.Service.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			entries := projections.HistoryFiltered(snap, projections.HistoryFilter{PetID: petID, RangeDays: days}, a.Service.Today())
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "GIVEN AT\tPET\tMEDICATION\tDOSAGE\tBY")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.GivenAt.Format("2006-01-02 15:04"), e.PetName, e.MedicationName, e.Dosage, e.AdministeredBy)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&petID, "pet", "", "only doses of this pet")
	cmd.Flags().StringVar(&rng, "range", "all", "last N days (7, 30) or all")
	return cmd
}

func giveCmd() *cobra.Command {
	var (
		at    string
		by    string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "give <medication-id>",
		Short: "Mark a medication as given and advance its next due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := petmeds.MarkGivenInput{AdministeredBy: by, Notes: notes}
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				in.At = t
			}

			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			m, entry, err := a.Service.MarkGiven(cmd.Context(), strings.TrimSpace(args[0]), in)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{"medication": m, "log": entry})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Given: %s (%s) at %s\n", m.Name, m.Dosage, entry.GivenAt.Format(time.RFC3339))
			fmt.Fprintf(cmd.OutOrStdout(), "Next due: %s\n", m.NextDue)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "administration time RFC3339 (default now)")
	cmd.Flags().StringVar(&by, "by", os.Getenv("USER"), "who gave the dose")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a JSON backup to EXPORT_DIR or EXPORT_S3_BUCKET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Export.Backup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s (%d bytes)\n", res.Location, res.Bytes)
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the medication CSV report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			if stdout {
				snap, err := a.Service.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				return export.WriteReport(cmd.OutOrStdout(), snap)
			}

			res, err := a.Export.Report(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s (%d bytes)\n", res.Location, res.Bytes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the CSV instead of storing it")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API with reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.StartReminders(ctx); err != nil {
				a.Log.Warn("reminders disabled", logger.Err(err))
			}
			return a.Serve(ctx)
		},
	}
}

func dateOrToday(a *app.App, v string) (schedule.Date, error) {
	if strings.TrimSpace(v) == "" {
		return a.Service.Today(), nil
	}
	d, err := schedule.ParseDate(v)
	if err != nil {
		return schedule.Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", v)
	}
	return d, nil
}
