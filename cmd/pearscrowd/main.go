package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pearscrow-network/pearscrow-daemon/internal/config"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/application"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/ports"
	dbbadger "github.com/pearscrow-network/pearscrow-daemon/internal/infrastructure/storage/db/badger"
	"github.com/pearscrow-network/pearscrow-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/pearscrow-network/pearscrow-daemon/pkg/oracle"
	"github.com/pearscrow-network/pearscrow-daemon/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := openDb()
	if err != nil {
		log.WithError(err).Fatal("error while opening db")
	}
	defer repoManager.Close()

	verdictSource := oracle.NewInMemorySource()
	pollSvc := oracle.NewService(oracle.Opts{
		Source:                 verdictSource,
		IntervalInMilliseconds: config.GetInt(config.PollIntervalKey),
		RequestsPerSecond:      config.GetFloat(config.PollRequestsPerSecondKey),
		ErrorHandler: func(err error) {
			log.WithError(err).Warn("error while polling for verdicts")
		},
	})

	oracleAddress := config.GetAddress(config.OracleAddressKey)
	orderSvc := application.NewOrderService(
		repoManager,
		newTriggerScheduler(pollSvc),
		oracleAddress,
		config.GetUint64(config.TriggerFeeKey),
		config.GetAddress(config.TriggerFeeTokenKey),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		statsInterval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		dumpPath := filepath.Join(
			config.GetDatadir(), config.ProfilerLocation, "prometheus",
		)
		stats.EnableMemoryStatistics(ctx, statsInterval, dumpPath)
	}

	if err := rearmPendingTriggers(ctx, repoManager, pollSvc); err != nil {
		log.WithError(err).Fatal("error while restoring pending triggers")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pollSvc.Start()
		return nil
	})
	g.Go(func() error {
		return dispatchVerdicts(gctx, pollSvc, orderSvc, oracleAddress)
	})

	log.Info("daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
	pollSvc.Stop()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("shutdown error")
	}
	log.Info("exiting")
}

func openDb() (ports.DbManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewDbManager(), nil
	}
	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
	return dbbadger.NewDbManager(dbDir, nil)
}

// dispatchVerdicts forwards every verdict the poller delivers to the order
// service, which settles the escrowed amount accordingly.
func dispatchVerdicts(
	ctx context.Context,
	pollSvc oracle.Service,
	orderSvc application.OrderService,
	oracleAddress common.Address,
) error {
	eventChan := pollSvc.GetEventChannel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-eventChan:
			switch e := event.(type) {
			case oracle.QuitEvent:
				return nil
			case oracle.VerdictEvent:
				if err := orderSvc.ResolveOrder(
					ctx, oracleAddress, e.OrderId, e.Result,
				); err != nil {
					log.WithError(err).Warnf(
						"error while resolving order %d", e.OrderId,
					)
				}
				pollSvc.RemoveObservable(&oracle.TriggerObservable{
					TriggerId: e.TriggerId,
					OrderId:   e.OrderId,
				})
			}
		}
	}
}

// rearmPendingTriggers restores the polling of triggers that were still
// unconsumed when the daemon last stopped.
func rearmPendingTriggers(
	ctx context.Context, repoManager ports.DbManager, pollSvc oracle.Service,
) error {
	res, err := repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			orders, err := repoManager.OrderRepository().GetAllOrders(ctx)
			if err != nil {
				return nil, err
			}

			pendings := make([]domain.PendingResolution, 0)
			for _, order := range orders {
				if !order.IsFunded() {
					continue
				}
				pending, err := repoManager.TriggerRepository().
					GetPendingResolutionByOrder(ctx, order.Id)
				if err != nil {
					if errors.Is(err, domain.ErrTriggerNotFound) {
						continue
					}
					return nil, err
				}
				pendings = append(pendings, *pending)
			}
			return pendings, nil
		},
	)
	if err != nil {
		return err
	}

	for _, pending := range res.([]domain.PendingResolution) {
		pollSvc.AddObservable(&oracle.TriggerObservable{
			TriggerId: pending.TriggerId,
			OrderId:   pending.OrderId,
		})
		log.Debugf("restored polling for order %d", pending.OrderId)
	}
	return nil
}
