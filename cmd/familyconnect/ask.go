package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Poser une seule question et afficher la réponse",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.initialize(); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			result, err := state.app.Router.Dispatch(cmd.Context(), query)
			if err != nil {
				return err
			}
			if result.NoReply {
				return nil
			}
			fmt.Println(result.Reply)
			return nil
		},
	}
}
