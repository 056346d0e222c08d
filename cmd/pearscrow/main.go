package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/pearscrow-network/pearscrow-daemon/internal/config"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/application"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/ports"
	dbbadger "github.com/pearscrow-network/pearscrow-daemon/internal/infrastructure/storage/db/badger"
)

var fromFlag = &cli.StringFlag{
	Name:  "from",
	Usage: "the 20-byte hex address acting as the caller",
}

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "pearscrow operator CLI"
	app.Usage = "Command line interface for pearscrowd daemon operators"
	app.Commands = append(
		app.Commands,
		&orderCommand,
		&marketCommand,
		&positionCommand,
		&accountCommand,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

type services struct {
	repoManager ports.DbManager
	order       application.OrderService
	market      application.MarketService
	position    application.PositionService
}

func openServices() (*services, func(), error) {
	if err := config.InitConfig(); err != nil {
		return nil, nil, err
	}

	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
	repoManager, err := dbbadger.NewDbManager(dbDir, nil)
	if err != nil {
		return nil, nil, err
	}

	svc := &services{
		repoManager: repoManager,
		order: application.NewOrderService(
			repoManager,
			nil,
			config.GetAddress(config.OracleAddressKey),
			config.GetUint64(config.TriggerFeeKey),
			config.GetAddress(config.TriggerFeeTokenKey),
		),
		market:   application.NewMarketService(repoManager),
		position: application.NewPositionService(repoManager),
	}
	return svc, func() { repoManager.Close() }, nil
}

func callerFromCtx(ctx *cli.Context) (common.Address, error) {
	from := ctx.String("from")
	if !common.IsHexAddress(from) {
		return common.Address{}, fmt.Errorf(
			"--from must be a valid 20-byte hex address",
		)
	}
	return common.HexToAddress(from), nil
}

func addressFromCtx(ctx *cli.Context, flag string) (common.Address, error) {
	value := ctx.String(flag)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf(
			"--%s must be a valid 20-byte hex address", flag,
		)
	}
	return common.HexToAddress(value), nil
}

func printRespJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(jsonBytes))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[pearscrow] %v\n", err)
	os.Exit(1)
}

var background = context.Background()
