package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"

	"market-research-agent/internal/api"
	"market-research-agent/internal/config"
	"market-research-agent/internal/fetch"
	"market-research-agent/internal/logger"
	"market-research-agent/internal/market"
	"market-research-agent/internal/notify"
	"market-research-agent/internal/pipeline"
	"market-research-agent/internal/store"
	"market-research-agent/internal/synthesis"
)

func main() {
	configPath := flag.String("config", "configs/app.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	fetcher := fetch.NewClient(cfg.Provider.FetchAttempts, time.Duration(cfg.Provider.FetchTimeoutMs)*time.Millisecond, log)
	source := market.NewFMPSource(fetcher, cfg.Provider.BaseURL, cfg.Provider.APIKey, log)
	collector := market.NewCollector(source, log)

	synth, err := synthesis.NewClient(synthesis.Config{
		APIKey:        cfg.Synthesis.APIKey,
		BaseURL:       cfg.Synthesis.BaseURL,
		PrimaryModel:  cfg.Synthesis.PrimaryModel,
		FallbackModel: cfg.Synthesis.FallbackModel,
		Temperature:   cfg.Synthesis.Temperature,
		Timeout:       time.Duration(cfg.Synthesis.TimeoutMs) * time.Millisecond,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("synthesis client init failed")
	}

	email := notify.NewEmailSender(notify.EmailConfig{
		SendgridAPIKey: cfg.Email.SendgridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		ToEmail:        cfg.Email.ToEmail,
		SMTPServer:     cfg.Email.SMTPServer,
		SMTPPort:       cfg.Email.SMTPPort,
		SMTPUser:       cfg.Email.SMTPUser,
		SMTPPass:       cfg.Email.SMTPPass,
	}, log)
	chat := notify.NewSlack(cfg.Slack.BotToken, cfg.Slack.Channel, log)

	st, err := store.Open(cfg.Store.SqlitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()

	runner := pipeline.NewRunner(collector, synth, email, chat, st, log)

	if *once {
		result := runner.RunOnce(context.Background())
		if !result.Success {
			log.Error().Str("error", result.Error).Msg("run failed")
			os.Exit(1)
		}
		return
	}

	if cfg.Schedule.Enabled {
		sched, err := pipeline.NewScheduler(runner, cfg.Schedule.At, cfg.Schedule.Timezone, log)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler init failed")
		}
		go sched.Run(context.Background())
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	h := server.Default(server.WithHostPorts(addr))
	api.RegisterRoutes(h, runner, st)

	log.Info().Str("addr", addr).Str("log_level", cfg.Log.Level).Msg("server starting")
	if err := h.Run(); err != nil {
		log.Fatal().Err(err).Msg("server run failed")
	}
}
