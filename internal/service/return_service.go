package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/billing"
	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
	"jewel-erp/pkg/logger"
)

var (
	ErrItemNotOnInvoice  = apperr.InvalidArgument("item does not belong to the invoice")
	ErrItemSettled       = apperr.InvalidState("item was already returned or exchanged")
	ErrReturnExceedsItem = apperr.InvalidArgument("return amount exceeds the item total")
)

const (
	EventReturnCreated   = "RETURN_CREATED"
	EventExchangeCreated = "EXCHANGE_CREATED"
)

type ReturnRequest struct {
	InvoiceID    uint             `json:"invoice_id" validate:"required"`
	SalesItemID  uint             `json:"sales_item_id" validate:"required"`
	ReturnAmount *decimal.Decimal `json:"return_amount" validate:"omitempty,gt=0"`
	ReturnDate   string           `json:"return_date"`
	Reason       string           `json:"reason"`
	HandledBy    string           `json:"handled_by"`
}

type ExchangeRequest struct {
	ReturnItemID     uint            `json:"return_item_id" validate:"required"`
	NewItemID        uint            `json:"new_item_id" validate:"required"`
	DifferenceAmount decimal.Decimal `json:"difference_amount"`
	ExchangeDate     string          `json:"exchange_date"`
	HandledBy        string          `json:"handled_by"`
	Remarks          string          `json:"remarks"`
}

type ReturnService interface {
	CreateReturn(ctx context.Context, req *ReturnRequest, actor Actor) (*model.SalesReturn, error)
	ListReturns(ctx context.Context, invoiceID uint) ([]model.SalesReturn, error)
	CreateExchange(ctx context.Context, req *ExchangeRequest, actor Actor) (*model.ExchangeLogRecord, error)
	ListExchangeLog(ctx context.Context) ([]model.ExchangeLogRecord, error)
}

type returnService struct {
	store    repository.Store
	products repository.CrudRepository[model.ProductCatalog]
	events   EventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewReturnService(store repository.Store, products repository.CrudRepository[model.ProductCatalog], events EventPublisher) ReturnService {
	if events == nil {
		events = nopPublisher{}
	}
	return &returnService{
		store:    store,
		products: products,
		events:   events,
		log:      logger.WithComponent("returns"),
		now:      time.Now,
	}
}

// CreateReturn credits one invoice line back to its invoice. The credit
// lowers the due amount and may settle the invoice.
func (s *returnService) CreateReturn(ctx context.Context, req *ReturnRequest, actor Actor) (*model.SalesReturn, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	returnDate, err := parseDate(req.ReturnDate, s.now())
	if err != nil {
		return nil, err
	}

	var ret *model.SalesReturn
	var inv *model.SalesInvoice
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		found, err := tx.Invoices().FindByIDForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return lookupErr(err, "invoice not found with id: %d", req.InvoiceID)
		}
		inv = found
		if inv.Status == billing.StatusCancelled {
			return ErrInvoiceCancelled
		}
		oldState := inv.Snapshot()

		item, ok := lo.Find(inv.Items, func(it model.SalesItem) bool { return it.ID == req.SalesItemID })
		if !ok {
			return apperr.New(ErrItemNotOnInvoice, "item %d does not belong to invoice %s", req.SalesItemID, inv.InvoiceNo)
		}
		if err := ensureItemOpen(ctx, tx, item); err != nil {
			return err
		}

		amount := item.TotalPrice
		if req.ReturnAmount != nil {
			amount = billing.Round(*req.ReturnAmount)
			if amount.GreaterThan(item.TotalPrice) {
				return apperr.New(ErrReturnExceedsItem, "return amount %s exceeds the item total of %s",
					amount.StringFixed(2), item.TotalPrice.StringFixed(2))
			}
		}

		ret = &model.SalesReturn{
			InvoiceID:    inv.ID,
			SalesItemID:  item.ID,
			ReturnDate:   returnDate,
			ReturnAmount: amount,
			Reason:       req.Reason,
			HandledBy:    lo.Ternary(req.HandledBy != "", req.HandledBy, actor.Label()),
		}
		ret.Touch(actor.ID)
		if err := tx.Returns().CreateReturn(ctx, ret); err != nil {
			return err
		}

		returned, err := tx.Returns().TotalReturnedByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		inv.RecalcDue(returned)
		if inv.Status, err = billing.Settle(inv.Status, inv.DueAmount, inv.PaidAmount); err != nil {
			return err
		}
		inv.UpdatedBy = actor.ID
		if err := tx.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		return tx.Audit().Create(ctx, auditEntry(inv, model.AuditReturn, oldState, actor))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_no", inv.InvoiceNo).
		Uint("item_id", ret.SalesItemID).
		Str("amount", ret.ReturnAmount.StringFixed(2)).
		Str("status", inv.Status.String()).
		Msg("return recorded")

	ev := invoiceEvent(inv, actor)
	ev["return_amount"] = ret.ReturnAmount.StringFixed(2)
	s.events.Publish(EventReturnCreated, ev)
	return ret, nil
}

func ensureItemOpen(ctx context.Context, tx repository.Store, item model.SalesItem) error {
	settled, err := tx.Returns().ItemSettled(ctx, item.ID)
	if err != nil {
		return err
	}
	if settled {
		return apperr.New(ErrItemSettled, "item %q was already returned or exchanged", item.ItemName)
	}
	return nil
}

func (s *returnService) ListReturns(ctx context.Context, invoiceID uint) ([]model.SalesReturn, error) {
	return s.store.Returns().FindReturns(ctx, invoiceID)
}

// CreateExchange swaps a sold line for a catalog product. The difference is
// settled at the counter and leaves the invoice amounts untouched.
func (s *returnService) CreateExchange(ctx context.Context, req *ExchangeRequest, actor Actor) (*model.ExchangeLogRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	exchangeDate, err := parseDate(req.ExchangeDate, s.now())
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, req.NewItemID)
	if err != nil {
		return nil, lookupErr(err, "product not found with id: %d", req.NewItemID)
	}

	var ex *model.SalesExchange
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		item, err := tx.Invoices().FindItem(ctx, req.ReturnItemID)
		if err != nil {
			return lookupErr(err, "sales item not found with id: %d", req.ReturnItemID)
		}
		inv, err := tx.Invoices().FindByIDForUpdate(ctx, item.InvoiceID)
		if err != nil {
			return lookupErr(err, "invoice not found with id: %d", item.InvoiceID)
		}
		if inv.Status == billing.StatusCancelled {
			return ErrInvoiceCancelled
		}
		if err := ensureItemOpen(ctx, tx, *item); err != nil {
			return err
		}

		ex = &model.SalesExchange{
			ReturnItemID:      item.ID,
			ReturnedItem:      item,
			OriginalInvoiceID: inv.ID,
			OriginalInvoice:   inv,
			CustomerID:        inv.CustomerID,
			Customer:          inv.Customer,
			NewItemID:         product.ID,
			NewItem:           product,
			DifferenceAmount:  billing.Round(req.DifferenceAmount),
			ExchangeDate:      exchangeDate,
			HandledBy:         lo.Ternary(req.HandledBy != "", req.HandledBy, actor.Label()),
			Remarks:           req.Remarks,
		}
		ex.Touch(actor.ID)
		if err := tx.Returns().CreateExchange(ctx, ex); err != nil {
			return err
		}

		entry := auditEntry(inv, model.AuditExchange, inv.Snapshot(), actor)
		entry.NewState["exchanged_item"] = item.ItemName
		entry.NewState["new_item"] = product.Name
		entry.NewState["difference_amount"] = ex.DifferenceAmount.StringFixed(2)
		return tx.Audit().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	rec := ex.ToLogRecord()
	s.log.Info().
		Str("invoice_no", rec.InvoiceNo).
		Str("returned_item", rec.ReturnedItemName).
		Str("new_item", rec.NewItemName).
		Str("difference", rec.DifferenceAmount.StringFixed(2)).
		Msg("exchange recorded")
	s.events.Publish(EventExchangeCreated, rec)
	return &rec, nil
}

func (s *returnService) ListExchangeLog(ctx context.Context) ([]model.ExchangeLogRecord, error) {
	exchanges, err := s.store.Returns().FindExchanges(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(exchanges, func(e model.SalesExchange, _ int) model.ExchangeLogRecord {
		return e.ToLogRecord()
	}), nil
}
