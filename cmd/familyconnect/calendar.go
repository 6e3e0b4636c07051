package main

import (
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"familyconnect/internal/calendar"
)

func newCalendarCommand(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Anniversaires et rendez-vous de la famille",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Anniversaires du jour",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.initialize(); err != nil {
				return err
			}
			matches := state.app.Store.TodaysBirthdays()
			if len(matches) == 0 {
				fmt.Println(gray("Aucun anniversaire aujourd'hui."))
				return nil
			}
			for _, m := range matches {
				fmt.Printf("%s %s (%s) fête ses %d ans\n", green("●"), bold(m.Name), m.Relationship, m.Age)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "upcoming",
		Short: "Rendez-vous à venir",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.initialize(); err != nil {
				return err
			}
			events := state.app.Store.UpcomingEvents()
			if len(events) == 0 {
				fmt.Println(gray("Aucun rendez-vous à venir."))
				return nil
			}
			for _, e := range events {
				line := fmt.Sprintf("%s %s — %s", yellow(e.Date.Format("2006-01-02")), bold(e.Event.Name), e.Event.Description)
				fmt.Println(line)
			}
			return nil
		},
	})

	cmd.AddCommand(newCalendarAddCommand(state))
	return cmd
}

// newCalendarAddCommand adds an event, interactively when called without
// flags. Date format mistakes are caught at the prompt; the store itself
// accepts whatever it is given.
func newCalendarAddCommand(state *cliState) *cobra.Command {
	var (
		name        string
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Ajouter un rendez-vous",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.initialize(); err != nil {
				return err
			}

			if name == "" || date == "" {
				if !isTTY() {
					return fmt.Errorf("--name and --date are required outside a terminal")
				}
				var err error
				if name, date, description, err = promptEvent(name, date, description); err != nil {
					return err
				}
			}

			if err := state.app.Store.AddEvent(name, date, description); err != nil {
				return err
			}
			fmt.Println(green("Rendez-vous enregistré : ") + bold(name) + " le " + date)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Event name")
	cmd.Flags().StringVar(&date, "date", "", "Event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	return cmd
}

func promptEvent(name, date, description string) (string, string, string, error) {
	if name == "" {
		prompt := promptui.Prompt{
			Label: "Nom du rendez-vous",
			Validate: func(s string) error {
				if s == "" {
					return fmt.Errorf("le nom est obligatoire")
				}
				return nil
			},
		}
		var err error
		if name, err = prompt.Run(); err != nil {
			return "", "", "", err
		}
	}

	if date == "" {
		prompt := promptui.Prompt{
			Label:   "Date (AAAA-MM-JJ)",
			Default: time.Now().Format(calendar.DateLayout),
			Validate: func(s string) error {
				if _, err := time.Parse(calendar.DateLayout, s); err != nil {
					return fmt.Errorf("format attendu : AAAA-MM-JJ")
				}
				return nil
			},
		}
		var err error
		if date, err = prompt.Run(); err != nil {
			return "", "", "", err
		}
	}

	if description == "" {
		prompt := promptui.Prompt{Label: "Description (optionnelle)"}
		var err error
		if description, err = prompt.Run(); err != nil {
			return "", "", "", err
		}
	}

	return name, date, description, nil
}
