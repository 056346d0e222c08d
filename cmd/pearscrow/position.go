package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

var positionCommand = cli.Command{
	Name:  "position",
	Usage: "manage conditions and conditional token positions",
	Subcommands: []*cli.Command{
		{
			Name:  "prepare",
			Usage: "prepare a new condition",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "oracle", Usage: "the resolving oracle address"},
				&cli.StringFlag{
					Name:  "question",
					Usage: "the 32-byte hex question id, random if omitted",
				},
				&cli.UintFlag{Name: "outcomes", Usage: "the outcome slot count", Value: 2},
			},
			Action: prepareConditionAction,
		},
		{
			Name:  "report",
			Usage: "report the payout vector of a condition",
			Flags: []cli.Flag{
				fromFlag, conditionIdFlag,
				&cli.StringFlag{
					Name:  "payouts",
					Usage: "comma separated payout numerators, one per outcome slot",
				},
			},
			Action: reportPayoutsAction,
		},
		{
			Name:  "split",
			Usage: "lock collateral and mint every elementary position",
			Flags: []cli.Flag{
				fromFlag, conditionIdFlag, collateralFlag,
				&cli.Uint64Flag{Name: "amount", Usage: "the amount to split"},
			},
			Action: splitPositionAction,
		},
		{
			Name:  "merge",
			Usage: "burn every elementary position and unlock collateral",
			Flags: []cli.Flag{
				fromFlag, conditionIdFlag, collateralFlag,
				&cli.Uint64Flag{Name: "amount", Usage: "the amount to merge"},
			},
			Action: mergePositionsAction,
		},
		{
			Name:  "redeem",
			Usage: "redeem the held positions of a resolved condition",
			Flags: []cli.Flag{
				fromFlag, conditionIdFlag, collateralFlag,
				&cli.StringFlag{
					Name:  "index-sets",
					Usage: "comma separated index set bitmasks to redeem",
				},
			},
			Action: redeemPositionsAction,
		},
		{
			Name:   "condition",
			Usage:  "show one condition",
			Flags:  []cli.Flag{conditionIdFlag},
			Action: getConditionAction,
		},
		{
			Name:  "balance",
			Usage: "show the balance of one position",
			Flags: []cli.Flag{
				fromFlag,
				&cli.StringFlag{Name: "position", Usage: "the 32-byte hex position id"},
			},
			Action: positionBalanceAction,
		},
	},
}

var conditionIdFlag = &cli.StringFlag{
	Name:  "condition",
	Usage: "the 32-byte hex condition id",
}

var collateralFlag = &cli.StringFlag{
	Name:  "collateral",
	Usage: "the collateral token",
}

func parseUintList(raw string) ([]uint, error) {
	parts := strings.Split(raw, ",")
	values := make([]uint, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid list: %w", err)
		}
		values = append(values, uint(value))
	}
	return values, nil
}

func prepareConditionAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	oracleAddress, err := addressFromCtx(ctx, "oracle")
	if err != nil {
		return err
	}

	question := ctx.String("question")
	if question == "" {
		question = randstr.Hex(32)
	}

	info, err := svc.position.PrepareCondition(
		background, oracleAddress,
		common.HexToHash(question), ctx.Uint("outcomes"),
	)
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

func reportPayoutsAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	rawPayouts, err := parseUintList(ctx.String("payouts"))
	if err != nil {
		return err
	}
	payouts := make([]uint64, len(rawPayouts))
	for i, p := range rawPayouts {
		payouts[i] = uint64(p)
	}

	conditionId := common.HexToHash(ctx.String("condition"))
	if err := svc.position.ReportPayouts(
		background, caller, conditionId, payouts,
	); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"reported": conditionId.Hex()})
	return nil
}

func splitPositionAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	collateral, err := addressFromCtx(ctx, "collateral")
	if err != nil {
		return err
	}

	if err := svc.position.SplitPosition(
		background, caller, collateral,
		common.HexToHash(ctx.String("condition")), ctx.Uint64("amount"),
	); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"split": ctx.Uint64("amount")})
	return nil
}

func mergePositionsAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	collateral, err := addressFromCtx(ctx, "collateral")
	if err != nil {
		return err
	}

	if err := svc.position.MergePositions(
		background, caller, collateral,
		common.HexToHash(ctx.String("condition")), ctx.Uint64("amount"),
	); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"merged": ctx.Uint64("amount")})
	return nil
}

func redeemPositionsAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	collateral, err := addressFromCtx(ctx, "collateral")
	if err != nil {
		return err
	}
	indexSets, err := parseUintList(ctx.String("index-sets"))
	if err != nil {
		return err
	}

	payout, err := svc.position.RedeemPositions(
		background, caller, collateral,
		common.Hash{}, common.HexToHash(ctx.String("condition")), indexSets,
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"payout": payout})
	return nil
}

func getConditionAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.position.GetCondition(
		background, common.HexToHash(ctx.String("condition")),
	)
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

func positionBalanceAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	owner, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}

	balance, err := svc.position.BalanceOf(
		background, owner, common.HexToHash(ctx.String("position")),
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"balance": balance})
	return nil
}
