package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/spigell/candidate-sourcer/internal/sourcing"
	"go.uber.org/zap"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Refine a search in conversation, answering follow-up questions as you go",
	Run:   chat,
}

func init() {
	chatCmd.Flags().Int("max-candidates", 0, "candidates to return per turn (1..20, default from workflow.max-candidates)")

	rootCmd.AddCommand(chatCmd)
}

func isQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit", ":q":
		return true
	}
	return false
}

// assistantTurn condenses a reply into the text kept in history.
func assistantTurn(reply sourcing.Reply) ai.Turn {
	text := reply.AssistantMessage
	if reply.Clarification != nil && len(reply.Clarification.Questions) > 0 {
		text += "\n" + strings.Join(reply.Clarification.Questions, "\n")
	}
	return ai.Turn{Role: ai.RoleAssistant, Content: text}
}

func chat(cmd *cobra.Command, _ []string) {
	log, config := setup()
	maxCandidates, _ := cmd.Flags().GetInt("max-candidates")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workflow, err := newWorkflow(ctx, config, config.Workflow.MaxCandidates, log)
	if err != nil {
		log.Fatal("failed to set up workflow", zap.Error(err))
	}

	prompt := promptui.Prompt{
		Label: "Recruiter",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("request is empty")
			}
			return nil
		},
	}

	var history []ai.Turn
	out := cmd.OutOrStdout()

	for ctx.Err() == nil {
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || isQuit(input) {
			return
		}
		if err != nil {
			log.Fatal("failed to read input", zap.Error(err))
		}

		result, err := workflow.Run(ctx, sourcing.Input{
			Request:       input,
			MaxCandidates: maxCandidates,
			History:       history,
			HiringCompany: config.Workflow.HiringCompany,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("sourcing failed, try rephrasing the request", zap.Error(err))
			continue
		}

		reply := sourcing.Clarify(result)
		if err := writeReply(out, formatText, reply); err != nil {
			log.Fatal("failed to print reply", zap.Error(err))
		}

		history = append(history, ai.Turn{Role: ai.RoleUser, Content: input}, assistantTurn(reply))
	}
}
