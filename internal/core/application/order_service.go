package application

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pearscrow-network/pearscrow-daemon/internal/core/domain"
	"github.com/pearscrow-network/pearscrow-daemon/internal/core/ports"
)

// TriggerScheduler is the outbound port towards the oracle collaborator. The
// order service submits trigger requests through it and the collaborator
// later delivers its verdicts back via ResolveOrder.
type TriggerScheduler interface {
	Schedule(triggerId uuid.UUID, orderId uint64)
}

// OrderService defines the methods of the application layer for the escrow
// order engine. Orders move Created -> Funded -> Completed, or Created ->
// Cancelled, and the escrowed amount is released by the oracle verdict.
type OrderService interface {
	CreateOrder(
		ctx context.Context,
		maker, taker, token common.Address, amount uint64,
	) (*OrderInfo, error)
	FundOrder(ctx context.Context, caller common.Address, orderId uint64) error
	CancelOrder(ctx context.Context, caller common.Address, orderId uint64) error
	TriggerOracle(
		ctx context.Context, caller common.Address, orderId uint64,
	) (uuid.UUID, error)
	ResolveOrder(
		ctx context.Context, caller common.Address, orderId uint64, result bool,
	) error
	GetOrder(ctx context.Context, orderId uint64) (*OrderInfo, error)
	ListOrders(ctx context.Context) ([]OrderInfo, error)
}

type orderService struct {
	repoManager ports.DbManager
	scheduler   TriggerScheduler

	oracleAddress common.Address
	triggerFee    uint64
	feeToken      common.Address
}

// NewOrderService returns a new service for managing escrow orders. The
// oracle address is the only identity authorized to deliver verdicts, the
// trigger fee (denominated in feeToken) is charged on every trigger request.
// The scheduler may be nil, in which case triggers are only recorded and
// verdicts must be delivered by an external caller.
func NewOrderService(
	repoManager ports.DbManager,
	scheduler TriggerScheduler,
	oracleAddress common.Address,
	triggerFee uint64,
	feeToken common.Address,
) OrderService {
	return &orderService{
		repoManager:   repoManager,
		scheduler:     scheduler,
		oracleAddress: oracleAddress,
		triggerFee:    triggerFee,
		feeToken:      feeToken,
	}
}

func (o *orderService) CreateOrder(
	ctx context.Context,
	maker, taker, token common.Address, amount uint64,
) (*OrderInfo, error) {
	order, err := domain.NewOrder(maker, taker, token, amount, time.Now().Unix())
	if err != nil {
		return nil, err
	}

	if _, err := o.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			_, err := o.repoManager.OrderRepository().AddOrder(ctx, order)
			return nil, err
		},
	); err != nil {
		return nil, err
	}

	log.Infof("created order %d for %d of token %s", order.Id, amount, token.Hex())
	return orderInfo(order), nil
}

func (o *orderService) FundOrder(
	ctx context.Context, caller common.Address, orderId uint64,
) error {
	_, err := o.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, o.repoManager.OrderRepository().UpdateOrder(
				ctx, orderId, func(order *domain.Order) (*domain.Order, error) {
					if err := order.Fund(caller); err != nil {
						return nil, err
					}
					if err := o.repoManager.AccountRepository().Transfer(
						ctx, order.Maker, domain.EscrowVaultAddress,
						order.Token, order.Amount,
					); err != nil {
						return nil, err
					}
					return order, nil
				},
			)
		},
	)
	if err != nil {
		return err
	}

	log.Infof("order %d funded", orderId)
	return nil
}

func (o *orderService) CancelOrder(
	ctx context.Context, caller common.Address, orderId uint64,
) error {
	_, err := o.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, o.repoManager.OrderRepository().UpdateOrder(
				ctx, orderId, func(order *domain.Order) (*domain.Order, error) {
					if err := order.Cancel(caller); err != nil {
						return nil, err
					}
					return order, nil
				},
			)
		},
	)
	if err != nil {
		return err
	}

	log.Infof("order %d cancelled", orderId)
	return nil
}

func (o *orderService) TriggerOracle(
	ctx context.Context, caller common.Address, orderId uint64,
) (uuid.UUID, error) {
	pending := domain.NewPendingResolution(
		orderId, caller, o.triggerFee, time.Now().Unix(),
	)

	if _, err := o.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			order, err := o.repoManager.OrderRepository().GetOrder(ctx, orderId)
			if err != nil {
				return nil, err
			}
			if !order.IsFunded() {
				return nil, domain.ErrOrderInvalidStatus
			}

			if err := o.repoManager.TriggerRepository().AddPendingResolution(
				ctx, pending,
			); err != nil {
				return nil, err
			}

			if o.triggerFee > 0 {
				if err := o.repoManager.AccountRepository().Transfer(
					ctx, caller, domain.EscrowVaultAddress,
					o.feeToken, o.triggerFee,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		return uuid.Nil, err
	}

	if o.scheduler != nil {
		o.scheduler.Schedule(pending.TriggerId, orderId)
	}

	log.Infof(
		"trigger %s submitted for order %d", pending.TriggerId.String(), orderId,
	)
	return pending.TriggerId, nil
}

func (o *orderService) ResolveOrder(
	ctx context.Context, caller common.Address, orderId uint64, result bool,
) error {
	if caller != o.oracleAddress {
		return domain.ErrUnauthorized
	}

	_, err := o.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := o.repoManager.OrderRepository().UpdateOrder(
				ctx, orderId, func(order *domain.Order) (*domain.Order, error) {
					if err := order.Resolve(result, time.Now().Unix()); err != nil {
						return nil, err
					}

					recipient := order.Maker
					if result {
						recipient = order.Taker
					}
					if err := o.repoManager.AccountRepository().Transfer(
						ctx, domain.EscrowVaultAddress, recipient,
						order.Token, order.Amount,
					); err != nil {
						return nil, err
					}
					return order, nil
				},
			); err != nil {
				return nil, err
			}

			// A verdict can be delivered without a prior trigger request,
			// in which case there is nothing to consume.
			if err := o.repoManager.TriggerRepository().ConsumePendingResolution(
				ctx, orderId,
			); err != nil && !errors.Is(err, domain.ErrTriggerNotFound) {
				return nil, err
			}
			return nil, nil
		},
	)
	if err != nil {
		return err
	}

	log.Infof("order %d resolved with result %t", orderId, result)
	return nil
}

func (o *orderService) GetOrder(
	ctx context.Context, orderId uint64,
) (*OrderInfo, error) {
	res, err := o.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return o.repoManager.OrderRepository().GetOrder(ctx, orderId)
		},
	)
	if err != nil {
		return nil, err
	}
	return orderInfo(res.(*domain.Order)), nil
}

func (o *orderService) ListOrders(ctx context.Context) ([]OrderInfo, error) {
	res, err := o.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return o.repoManager.OrderRepository().GetAllOrders(ctx)
		},
	)
	if err != nil {
		return nil, err
	}

	orders := res.([]domain.Order)
	infos := make([]OrderInfo, 0, len(orders))
	for i := range orders {
		infos = append(infos, *orderInfo(&orders[i]))
	}
	return infos, nil
}
