package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var accountCommand = cli.Command{
	Name:  "account",
	Usage: "inspect and credit the token ledger",
	Subcommands: []*cli.Command{
		{
			Name:  "deposit",
			Usage: "credit tokens to an address",
			Flags: []cli.Flag{
				fromFlag, tokenFlag,
				&cli.Uint64Flag{Name: "amount", Usage: "the amount to credit"},
			},
			Action: depositAction,
		},
		{
			Name:   "balance",
			Usage:  "show the token balance of an address",
			Flags:  []cli.Flag{fromFlag, tokenFlag},
			Action: accountBalanceAction,
		},
	},
}

var tokenFlag = &cli.StringFlag{
	Name:  "token",
	Usage: "the token address",
}

func depositAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	owner, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	token, err := addressFromCtx(ctx, "token")
	if err != nil {
		return err
	}

	if _, err := svc.repoManager.RunTransaction(
		background, false, func(txCtx context.Context) (interface{}, error) {
			return nil, svc.repoManager.AccountRepository().Deposit(
				txCtx, owner, token, ctx.Uint64("amount"),
			)
		},
	); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"deposited": ctx.Uint64("amount")})
	return nil
}

func accountBalanceAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	owner, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	token, err := addressFromCtx(ctx, "token")
	if err != nil {
		return err
	}

	res, err := svc.repoManager.RunTransaction(
		background, true, func(txCtx context.Context) (interface{}, error) {
			return svc.repoManager.AccountRepository().GetBalance(
				txCtx, owner, token,
			)
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"balance": res.(uint64)})
	return nil
}
