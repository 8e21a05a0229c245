package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/ab0utbla-k/ec2-auto-remediator/internal/config"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/cooldown"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/handler"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/notify"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/remediate"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/report"
	"github.com/ab0utbla-k/ec2-auto-remediator/internal/telemetry"
)

func main() {
	startTime := time.Now()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	logger.Info("starting ec2 auto remediator")

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("cannot load aws config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	gate := cooldown.NewGate(ssm.NewFromConfig(awsCfg), cfg.Cooldown, logger)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.SNSTopicARN != "" {
		notifier = notify.NewSNS(sns.NewFromConfig(awsCfg), cfg.SNSTopicARN)
	}

	engine := remediate.NewEngine(ec2.NewFromConfig(awsCfg), gate, notifier, logger)

	var publisher handler.OutcomePublisher
	if cfg.EventBusName != "" {
		publisher = report.NewPublisher(eventbridge.NewFromConfig(awsCfg), cfg.EventBusName)
	}

	tp, err := telemetry.NewTracerProvider(ctx)
	if err != nil {
		logger.Error("cannot initialize tracer provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("cannot shutdown tracer provider", slog.String("error", err.Error()))
		}
	}()

	logger.Info(
		"started ec2 auto remediator",
		slog.Duration("cooldown", cfg.Cooldown),
		slog.Bool("notificationsEnabled", cfg.SNSTopicARN != ""),
		slog.Bool("outcomePublishingEnabled", cfg.EventBusName != ""),
		slog.Float64("initDurationSec", time.Since(startTime).Seconds()),
	)

	h := handler.NewBatchHandler(engine, publisher, logger)
	lambda.Start(
		otellambda.InstrumentHandler(
			h.HandleRequest,
			otellambda.WithTracerProvider(tp),
			otellambda.WithFlusher(tp)),
	)
}
