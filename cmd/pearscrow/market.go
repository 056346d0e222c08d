package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

var marketCommand = cli.Command{
	Name:  "market",
	Usage: "manage binary-outcome prediction markets",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create and fund a new market",
			Flags: []cli.Flag{
				fromFlag,
				&cli.StringFlag{Name: "collateral", Usage: "the collateral token"},
				&cli.StringFlag{Name: "oracle", Usage: "the resolving oracle address"},
				&cli.StringFlag{
					Name:  "question",
					Usage: "the 32-byte hex question id, random if omitted",
				},
				&cli.UintFlag{Name: "fee", Usage: "the trading fee in basis points"},
				&cli.Uint64Flag{Name: "funding", Usage: "the initial funding amount"},
			},
			Action: createMarketAction,
		},
		{
			Name:  "trade",
			Usage: "buy or sell outcome tokens against a market",
			Flags: []cli.Flag{
				fromFlag, marketIdFlag,
				&cli.StringFlag{
					Name:  "deltas",
					Usage: "comma separated outcome token amounts, negative to sell",
				},
				&cli.Int64Flag{
					Name:  "limit",
					Usage: "bound on the collateral flow, 0 for unbounded",
				},
			},
			Action: tradeAction,
		},
		{
			Name:  "price",
			Usage: "show the marginal price of one outcome",
			Flags: []cli.Flag{
				marketIdFlag,
				&cli.IntFlag{Name: "outcome", Usage: "the outcome index"},
			},
			Action: priceAction,
		},
		{
			Name:   "pause",
			Usage:  "pause trading after the condition resolved",
			Flags:  []cli.Flag{fromFlag, marketIdFlag},
			Action: pauseMarketAction,
		},
		{
			Name:   "resume",
			Usage:  "resume trading on a paused market",
			Flags:  []cli.Flag{fromFlag, marketIdFlag},
			Action: resumeMarketAction,
		},
		{
			Name:   "close",
			Usage:  "close a market and sweep the accrued fees",
			Flags:  []cli.Flag{fromFlag, marketIdFlag},
			Action: closeMarketAction,
		},
		{
			Name:   "get",
			Usage:  "show one market",
			Flags:  []cli.Flag{marketIdFlag},
			Action: getMarketAction,
		},
		{
			Name:   "list",
			Usage:  "show all markets",
			Action: listMarketsAction,
		},
	},
}

var marketIdFlag = &cli.StringFlag{
	Name:  "market",
	Usage: "the market address",
}

func parseDeltas(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	deltas := make([]int64, 0, len(parts))
	for _, part := range parts {
		delta, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid deltas: %w", err)
		}
		deltas = append(deltas, delta)
	}
	return deltas, nil
}

func createMarketAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	creator, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	collateral, err := addressFromCtx(ctx, "collateral")
	if err != nil {
		return err
	}
	oracleAddress, err := addressFromCtx(ctx, "oracle")
	if err != nil {
		return err
	}

	question := ctx.String("question")
	if question == "" {
		question = randstr.Hex(32)
	}

	info, err := svc.market.CreateMarket(
		background, creator, collateral, oracleAddress,
		common.HexToHash(question),
		uint32(ctx.Uint("fee")), ctx.Uint64("funding"),
	)
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

func tradeAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	trader, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	marketId, err := addressFromCtx(ctx, "market")
	if err != nil {
		return err
	}
	deltas, err := parseDeltas(ctx.String("deltas"))
	if err != nil {
		return err
	}

	netFlow, err := svc.market.Trade(
		background, trader, marketId, deltas, ctx.Int64("limit"),
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"net_flow": netFlow})
	return nil
}

func priceAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	marketId, err := addressFromCtx(ctx, "market")
	if err != nil {
		return err
	}

	price, err := svc.market.CalcMarginalPrice(
		background, marketId, ctx.Int("outcome"),
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"price": price.String()})
	return nil
}

func pauseMarketAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	marketId, err := addressFromCtx(ctx, "market")
	if err != nil {
		return err
	}
	if err := svc.market.PauseMarket(background, caller, marketId); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"paused": marketId.Hex()})
	return nil
}

func resumeMarketAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	marketId, err := addressFromCtx(ctx, "market")
	if err != nil {
		return err
	}
	if err := svc.market.ResumeMarket(background, caller, marketId); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"resumed": marketId.Hex()})
	return nil
}

func closeMarketAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	marketId, err := addressFromCtx(ctx, "market")
	if err != nil {
		return err
	}

	swept, err := svc.market.CloseMarket(background, caller, marketId)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"closed":     marketId.Hex(),
		"fees_swept": swept,
	})
	return nil
}

func getMarketAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	marketId, err := addressFromCtx(ctx, "market")
	if err != nil {
		return err
	}

	info, err := svc.market.GetMarket(background, marketId)
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

func listMarketsAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	markets, err := svc.market.ListMarkets(background)
	if err != nil {
		return err
	}

	printRespJSON(markets)
	return nil
}
