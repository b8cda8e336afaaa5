package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/candidate-sourcer/internal/sourcing"
	"go.uber.org/zap"
)

var sourceCmd = &cobra.Command{
	Use:   "source <request>",
	Short: "Run one sourcing request and print the shortlist",
	Example: `  candidate-sourcer source "Find 3 Staff Data Engineers at Stripe in Dublin"
  candidate-sourcer source --format text --max-candidates 8 "senior go developer in Berlin"`,
	Args: cobra.MinimumNArgs(1),
	Run:  source,
}

func init() {
	sourceCmd.Flags().String("format", formatJSON, "output format: json, yaml or text")
	sourceCmd.Flags().Int("max-candidates", 0, "candidates to return (1..20, default from workflow.max-candidates)")
	sourceCmd.Flags().String("hiring-company", "", "company doing the hiring, its current employees are excluded")
	sourceCmd.Flags().Bool("clarify", false, "print the conversational envelope with follow-up questions")

	viper.BindPFlag("workflow.hiring-company", sourceCmd.Flags().Lookup("hiring-company"))

	rootCmd.AddCommand(sourceCmd)
}

func source(cmd *cobra.Command, args []string) {
	log, config := setup()

	format, _ := cmd.Flags().GetString("format")
	if err := validFormat(format); err != nil {
		log.Fatal("bad flag", zap.Error(err))
	}
	maxCandidates, _ := cmd.Flags().GetInt("max-candidates")
	clarify, _ := cmd.Flags().GetBool("clarify")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workflow, err := newWorkflow(ctx, config, config.Workflow.MaxCandidates, log)
	if err != nil {
		log.Fatal("failed to set up workflow", zap.Error(err))
	}

	result, err := workflow.Run(ctx, sourcing.Input{
		Request:       strings.Join(args, " "),
		MaxCandidates: maxCandidates,
		HiringCompany: config.Workflow.HiringCompany,
	})
	if err != nil {
		log.Fatal("sourcing failed", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	if clarify {
		err = writeReply(out, format, sourcing.Clarify(result))
	} else {
		err = writeResult(out, format, result)
	}
	if err != nil {
		log.Fatal("failed to print result", zap.Error(err))
	}
}
