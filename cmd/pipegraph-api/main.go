package main

import (
	"context"
	"os"
	"time"

	"github.com/arewm/pipegraph/pkg/cmd"
	"github.com/arewm/pipegraph/pkg/log"
	"github.com/arewm/pipegraph/pkg/otelhelper"
	"github.com/arewm/pipegraph/pkg/services"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "pipegraph-api",
		Usage:                 "Serve pipeline run graphs over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "store-url",
				Usage:    "Snapshot store URL (postgres:// or a filesystem path)",
				Required: true,
				Sources:  cli.EnvVars("STORE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for graph model caching (empty disables caching)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "TTL for cached graph models",
				Value:   10 * time.Minute,
				Sources: cli.EnvVars("CACHE_TTL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider for snapshot refresh events (kafka, memory; empty disables the consumer)",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Kafka brokers, used when the event bus provider is kafka",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Pipegraph API")

			snapshotStore, err := cmd.NewStore(ctx, logger, command.String("store-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := snapshotStore.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close snapshot store", "error", err)
				}
			}()

			var cache services.GraphCache

			redisCache, err := cmd.NewGraphCache(ctx, logger, command.String("redis-url"), command.Duration("cache-ttl"))
			if err != nil {
				return err
			}

			if redisCache != nil {
				cache = redisCache

				defer func() {
					if err := redisCache.Close(ctx); err != nil {
						logger.ErrorContext(ctx, "Failed to close graph cache", "error", err)
					}
				}()
			}

			var tracer trace.Tracer

			if command.Bool("tracing") {
				tracer, err = otelhelper.NewTracer(ctx, "pipegraph-api")
				if err != nil {
					return err
				}
			}

			graphService, err := services.NewGraph(logger, snapshotStore, cache, tracer)
			if err != nil {
				return err
			}

			if provider := command.String("event-bus"); provider != "" {
				eventBus, err := cmd.NewEventBus(provider, logger, command.String("kafka-brokers"), "pipegraph-api")
				if err != nil {
					return err
				}

				defer func() {
					if err := eventBus.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
					}
				}()

				refresher := services.NewRefresher(logger, graphService)
				if err := refresher.Register(eventBus); err != nil {
					return err
				}

				if err := eventBus.Subscribe(ctx); err != nil {
					return err
				}
			}

			api := NewAPI(logger, graphService)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
