package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"familyconnect/internal/app"
	"familyconnect/internal/config"
	"familyconnect/internal/logging"
)

// Version is stamped at build time.
var Version = "dev"

var (
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func errorStyle(msg string) string {
	return red("Erreur : " + msg)
}

// isTTY reports whether stdin and stdout are attached to a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// cliState carries the flags and the assembled application between commands.
type cliState struct {
	configFile string
	personaID  string
	debug      bool

	app *app.App
}

// NewRootCommand builds the familyconnect command tree.
func NewRootCommand() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:   "familyconnect",
		Short: "Assistant familial : agenda, météo, traduction et conversation",
		Long: fmt.Sprintf(`%s

familyconnect comprend des demandes en français et les dirige vers le bon
service : traduction, météo, agenda des anniversaires et rendez-vous,
musique, ou conversation libre avec un modèle de langage.

%s
  familyconnect chat                    # Conversation interactive
  familyconnect ask "météo de paris"    # Une seule question
  familyconnect calendar today          # Anniversaires du jour
  familyconnect serve                   # Démarrer le serveur HTTP`,
			bold("FamilyConnect "+Version),
			bold("EXEMPLES :")),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTY() {
				return cmd.Help()
			}
			if err := state.initialize(); err != nil {
				return err
			}
			return state.runChat(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&state.configFile, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&state.personaID, "persona", "p", "", "Active persona (grace, alex)")
	rootCmd.PersistentFlags().BoolVarP(&state.debug, "debug", "d", false, "Debug mode")

	viper.SetConfigName("familyconnect-config")
	viper.SetConfigType("json")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	rootCmd.AddCommand(newChatCommand(state))
	rootCmd.AddCommand(newAskCommand(state))
	rootCmd.AddCommand(newCalendarCommand(state))
	rootCmd.AddCommand(newServeCommand(state))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// initialize loads configuration and assembles the application. The explicit
// --config flag wins; otherwise viper searches the home directory and the
// working directory.
func (s *cliState) initialize() error {
	if s.app != nil {
		return nil
	}
	if s.debug {
		logging.SetLevel(logging.DEBUG)
	}

	opts := []config.Option{}
	switch {
	case s.configFile != "":
		opts = append(opts, config.WithConfigFile(s.configFile))
	default:
		if err := viper.ReadInConfig(); err == nil {
			opts = append(opts, config.WithConfigFile(viper.ConfigFileUsed()))
		}
	}
	if s.personaID != "" {
		opts = append(opts, config.WithOverride(func(c *config.Config) {
			c.Persona = s.personaID
		}))
	}

	cfg, _, err := config.Load(opts...)
	if err != nil {
		return err
	}

	built, err := app.Build(cfg)
	if err != nil {
		return err
	}
	s.app = built
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("familyconnect %s\n", Version)
		},
	}
}
