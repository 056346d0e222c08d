package main

import (
	"github.com/urfave/cli/v2"
)

var orderCommand = cli.Command{
	Name:  "order",
	Usage: "manage escrow orders",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create a new escrow order",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "maker", Usage: "the maker address"},
				&cli.StringFlag{Name: "taker", Usage: "the taker address"},
				&cli.StringFlag{Name: "token", Usage: "the escrowed token"},
				&cli.Uint64Flag{Name: "amount", Usage: "the escrowed amount"},
			},
			Action: createOrderAction,
		},
		{
			Name:   "fund",
			Usage:  "move the escrowed amount under custody",
			Flags:  []cli.Flag{fromFlag, orderIdFlag},
			Action: fundOrderAction,
		},
		{
			Name:   "cancel",
			Usage:  "cancel an order before funding",
			Flags:  []cli.Flag{fromFlag, orderIdFlag},
			Action: cancelOrderAction,
		},
		{
			Name:   "trigger",
			Usage:  "request the oracle verdict for a funded order",
			Flags:  []cli.Flag{fromFlag, orderIdFlag},
			Action: triggerOrderAction,
		},
		{
			Name:  "resolve",
			Usage: "deliver the oracle verdict and settle the order",
			Flags: []cli.Flag{
				fromFlag, orderIdFlag,
				&cli.BoolFlag{Name: "result", Usage: "the oracle verdict"},
			},
			Action: resolveOrderAction,
		},
		{
			Name:   "get",
			Usage:  "show one order",
			Flags:  []cli.Flag{orderIdFlag},
			Action: getOrderAction,
		},
		{
			Name:   "list",
			Usage:  "show all orders",
			Action: listOrdersAction,
		},
	},
}

var orderIdFlag = &cli.Uint64Flag{
	Name:  "id",
	Usage: "the order id",
}

func createOrderAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	maker, err := addressFromCtx(ctx, "maker")
	if err != nil {
		return err
	}
	taker, err := addressFromCtx(ctx, "taker")
	if err != nil {
		return err
	}
	token, err := addressFromCtx(ctx, "token")
	if err != nil {
		return err
	}

	info, err := svc.order.CreateOrder(
		background, maker, taker, token, ctx.Uint64("amount"),
	)
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

func fundOrderAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := svc.order.FundOrder(background, caller, ctx.Uint64("id")); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"funded": ctx.Uint64("id")})
	return nil
}

func cancelOrderAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := svc.order.CancelOrder(background, caller, ctx.Uint64("id")); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"cancelled": ctx.Uint64("id")})
	return nil
}

func triggerOrderAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	triggerId, err := svc.order.TriggerOracle(background, caller, ctx.Uint64("id"))
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{"trigger_id": triggerId.String()})
	return nil
}

func resolveOrderAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	caller, err := callerFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := svc.order.ResolveOrder(
		background, caller, ctx.Uint64("id"), ctx.Bool("result"),
	); err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"resolved": ctx.Uint64("id"),
		"result":   ctx.Bool("result"),
	})
	return nil
}

func getOrderAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.order.GetOrder(background, ctx.Uint64("id"))
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

func listOrdersAction(ctx *cli.Context) error {
	svc, cleanup, err := openServices()
	if err != nil {
		return err
	}
	defer cleanup()

	orders, err := svc.order.ListOrders(background)
	if err != nil {
		return err
	}

	printRespJSON(orders)
	return nil
}
