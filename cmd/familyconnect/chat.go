package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("12")).
	Padding(0, 2)

func newChatCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Conversation interactive avec l'assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.initialize(); err != nil {
				return err
			}
			return state.runChat(cmd.Context())
		},
	}
}

// runChat is the interactive loop: read a line, dispatch it through the
// router, render the reply. "exit" and Ctrl-D leave.
func (s *cliState) runChat(ctx context.Context) error {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".familyconnect_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          bold(blue("vous> ")),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "au revoir",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// A failed renderer is not fatal, replies print raw.
	renderer, _ := newMarkdownRenderer()

	persona, perr := s.app.Personas.Get(s.app.Config.Persona)
	title := "FamilyConnect"
	if perr == nil {
		title = fmt.Sprintf("FamilyConnect — %s (%s)", persona.Name, persona.Role)
	}
	fmt.Println(bannerStyle.Render(title + "\nTapez votre demande, ou \"exit\" pour quitter."))

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			return nil
		}

		s.answer(ctx, renderer, query)
	}
}

func (s *cliState) answer(ctx context.Context, renderer *markdownRenderer, query string) {
	result, err := s.app.Router.Dispatch(ctx, query)
	if err != nil {
		fmt.Println(errorStyle(err.Error()))
		return
	}
	if result.NoReply {
		fmt.Println(gray(fmt.Sprintf("(%s : aucune réponse)", result.Intent)))
		return
	}
	if s.debug {
		fmt.Println(gray("intent: " + string(result.Intent)))
	}
	fmt.Print(renderer.Render(result.Reply))
}
