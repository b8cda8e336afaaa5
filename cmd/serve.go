package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/candidate-sourcer/internal/api"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recruiter and agent endpoints over HTTP",
	Run:   serve,
}

func init() {
	serveCmd.Flags().String("listen", ":8080", "address to listen on")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))

	rootCmd.AddCommand(serveCmd)
}

func serve(_ *cobra.Command, _ []string) {
	log, config := setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workflow, err := newWorkflow(ctx, config, config.Server.RecruiterMaxCandidates, log)
	if err != nil {
		log.Fatal("failed to set up workflow", zap.Error(err))
	}

	server := api.New(api.Config{
		Listen:                 config.Server.Listen,
		RequestTimeout:         config.Server.RequestTimeout,
		RecruiterMaxCandidates: config.Server.RecruiterMaxCandidates,
		AgentMaxCandidates:     config.Server.AgentMaxCandidates,
	}, workflow, log)

	if err := server.Start(ctx); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}
