package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/church-finance/api"
	"github.com/carson-networks/church-finance/internal/amqp"
	"github.com/carson-networks/church-finance/internal/auth"
	"github.com/carson-networks/church-finance/internal/config"
	"github.com/carson-networks/church-finance/internal/events"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/operator"
	"github.com/carson-networks/church-finance/internal/service"
	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/memory"
	"github.com/carson-networks/church-finance/internal/worker"
)

const inProcessEventBuffer = 256

func main() {
	app := &cli.App{
		Name:   "church-finance",
		Usage:  "church finance API server",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, operator pool and notification worker",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrateCmd,
			},
			{
				Name:   "reconcile",
				Usage:  "compare every fund's balance with its transaction history",
				Action: reconcileCmd,
			},
			{
				Name:   "notification-worker",
				Usage:  "consume events from the broker and write admin notifications",
				Action: notificationWorkerCmd,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("church-finance exited")
	}
}

func setup() (*config.Config, *logrus.Logger, error) {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, nil, fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	return envConfig, logging.SetupLogging(envConfig.LogLevel), nil
}

func openStorage(envConfig *config.Config, logger *logrus.Logger) (*storage.Storage, error) {
	if envConfig.StorageBackend == config.BackendMemory {
		logger.Warn("Storage.memory backend in use, data is not persisted")
		return memory.New(), nil
	}
	if envConfig.RunMigrations {
		if err := storage.RunMigrations(envConfig.PostgresConnectionString()); err != nil {
			return nil, fmt.Errorf("storage.RunMigrations: %w", err)
		}
	}
	return storage.NewPostgres(envConfig.PostgresConnectionString())
}

func serve(c *cli.Context) error {
	envConfig, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("church-finance starting")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbStorage, err := openStorage(envConfig, logger)
	if err != nil {
		return err
	}
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)
	delegator.Start()
	defer delegator.Stop()

	var (
		publisher events.Publisher
		consumer  events.Consumer
	)
	if envConfig.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, envConfig.AMQPURL, envConfig.AMQPExchange, envConfig.AMQPQueue)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
	} else {
		ch := events.NewChannel(inProcessEventBuffer)
		publisher, consumer = ch, ch
	}

	svc := service.NewService(dbStorage, delegator, publisher)

	var roles auth.RoleSource = &auth.ProfileRoles{Profiles: dbStorage.Profiles}
	if envConfig.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: envConfig.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis.ping failed, role cache disabled")
		} else {
			roles = auth.NewRedisRoleCache(redisClient, roles, logger)
		}
	}
	authenticator := auth.NewAuthenticator(auth.NewVerifier(envConfig.AuthJWTSecret), roles, envConfig.ServiceRoleKey)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		httpRest := api.Rest{
			Logger:        logger,
			Port:          envConfig.Port,
			Storage:       dbStorage,
			Service:       svc,
			Authenticator: authenticator,
		}
		return httpRest.Serve(gctx)
	})
	// With a broker, delivery belongs to the notification-worker command.
	if consumer != nil {
		g.Go(func() error {
			return worker.NewNotificationWorker(svc.Notification, logger).Run(gctx, consumer)
		})
	}

	err = g.Wait()
	logger.Info("church-finance stopped")
	return err
}

func migrateCmd(*cli.Context) error {
	envConfig, logger, err := setup()
	if err != nil {
		return err
	}
	if envConfig.StorageBackend == config.BackendMemory {
		logger.Info("Migrate.skipped for memory backend")
		return nil
	}
	return storage.RunMigrations(envConfig.PostgresConnectionString())
}

func reconcileCmd(c *cli.Context) error {
	envConfig, logger, err := setup()
	if err != nil {
		return err
	}
	dbStorage, err := openStorage(envConfig, logger)
	if err != nil {
		return err
	}
	defer dbStorage.Close()

	// Reconcile only reads, so no operator pool is started.
	svc := service.NewService(dbStorage, nil, nil)
	report, err := svc.Fund.Reconcile(c.Context)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	drifted := 0
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FUND\tCURRENT\tEXPECTED\tDRIFT")
	for _, r := range report {
		if !r.Balanced() {
			drifted++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Fund.Name,
			r.Fund.CurrentBalance.StringFixed(2), r.Expected.StringFixed(2), r.Drift.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"funds": len(report), "drifted": drifted}).Info("Reconcile.complete")
	if drifted > 0 {
		return cli.Exit(fmt.Sprintf("%d fund(s) drifted", drifted), 1)
	}
	return nil
}

func notificationWorkerCmd(c *cli.Context) error {
	envConfig, logger, err := setup()
	if err != nil {
		return err
	}
	if envConfig.AMQPURL == "" {
		return cli.Exit("AMQP_URL is required for the notification worker", 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbStorage, err := openStorage(envConfig, logger)
	if err != nil {
		return err
	}
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)
	delegator.Start()
	defer delegator.Stop()

	client, err := amqp.NewClient(ctx, envConfig.AMQPURL, envConfig.AMQPExchange, envConfig.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	svc := service.NewService(dbStorage, delegator, client)
	return worker.NewNotificationWorker(svc.Notification, logger).Run(ctx, client)
}
