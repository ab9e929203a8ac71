package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/billing"
	"jewel-erp/internal/export"
	"jewel-erp/internal/metrics"
	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
	"jewel-erp/pkg/logger"
)

var (
	ErrCustomerNameRequired = apperr.InvalidArgument("customer name is required for a new customer")
	ErrInvoiceCancelled     = apperr.InvalidState("cancelled invoices cannot be modified")
	ErrPaidInvoiceLocked    = apperr.InvalidState("amounts of a paid invoice cannot be changed")
	ErrItemsHaveReturns     = apperr.InvalidState("items cannot be replaced after returns were recorded")
)

const (
	EventInvoiceCreated   = "INVOICE_CREATED"
	EventInvoiceUpdated   = "INVOICE_UPDATED"
	EventInvoiceCancelled = "INVOICE_CANCELLED"
	EventPaymentAdded     = "PAYMENT_ADDED"
)

type SaleService interface {
	CreateSale(ctx context.Context, req *SaleRequest, actor Actor) (*model.SalesInvoice, error)
	UpdateSale(ctx context.Context, id uint, req *SaleUpdateRequest, actor Actor) (*model.SalesInvoice, error)
	AddPayment(ctx context.Context, id uint, req *PaymentRequest, actor Actor) (*model.SalesInvoice, error)
	GetInvoice(ctx context.Context, id uint) (*model.SalesInvoice, error)
	ListInvoices(ctx context.Context) ([]InvoiceRow, error)
	SearchInvoices(ctx context.Context, term, status string) ([]InvoiceRow, error)
	GetItemsForInvoice(ctx context.Context, id uint) ([]ItemSelection, error)
	ListPayments(ctx context.Context, id uint) ([]model.PaymentTransaction, error)
	GetAuditTrail(ctx context.Context, id uint) ([]model.SaleAuditLog, error)
	GetSalesAuditData(ctx context.Context, start, end string, statuses []string) (*SalesListResponse, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
	ExportSalesToExcel(ctx context.Context, start, end string, statuses []string) ([]byte, error)
	ExportInvoiceToPdf(ctx context.Context, id uint) ([]byte, error)
}

type saleService struct {
	store     repository.Store
	sequencer *billing.Sequencer
	company   repository.CrudRepository[model.CompanyDetails]
	banks     repository.CrudRepository[model.BankDetails]
	events    EventPublisher
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       func() time.Time
}

func NewSaleService(
	store repository.Store,
	sequencer *billing.Sequencer,
	company repository.CrudRepository[model.CompanyDetails],
	banks repository.CrudRepository[model.BankDetails],
	events EventPublisher,
	m *metrics.Metrics,
) SaleService {
	if events == nil {
		events = nopPublisher{}
	}
	return &saleService{
		store:     store,
		sequencer: sequencer,
		company:   company,
		banks:     banks,
		events:    events,
		metrics:   m,
		log:       logger.WithComponent("sales"),
		now:       time.Now,
	}
}

func (s *saleService) CreateSale(ctx context.Context, req *SaleRequest, actor Actor) (*model.SalesInvoice, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	invoiceDate, err := parseDate(req.InvoiceDate, s.now())
	if err != nil {
		return nil, err
	}
	items := normalizeItems(req.Items)

	var created *model.SalesInvoice
	_, err = s.sequencer.Issue(ctx, s.store.Invoices(), func(ctx context.Context, number string) error {
		return s.store.Transaction(ctx, func(tx repository.Store) error {
			customer, err := s.resolveCustomer(ctx, tx, req, actor)
			if err != nil {
				return err
			}

			inv := &model.SalesInvoice{
				InvoiceNo:       number,
				CustomerID:      customer.ID,
				InvoiceDate:     invoiceDate,
				SalesType:       req.SalesType,
				Status:          billing.StatusPending,
				PaymentMode:     resolvePaymentMode(req.PaymentMode, req.OtherPaymentMode),
				Remarks:         req.Remarks,
				DiscountPercent: storedPercent(billing.OrZero(req.DiscountAmount), billing.OrZero(req.DiscountPercent)),
				OldGoldValue:    billing.Round(billing.OrZero(req.OldGoldValue)),
				PaidAmount:      decimal.Zero,
				Items:           items,
			}
			inv.Touch(actor.ID)
			inv.ApplyTotals(billing.ComputeInvoiceTotals(inv.ItemTotals(), billing.OrZero(req.DiscountAmount), inv.DiscountPercent))
			inv.RecalcDue(decimal.Zero)

			if err := tx.Invoices().Create(ctx, inv); err != nil {
				return err
			}
			inv.Customer = customer
			created = inv
			return tx.Audit().Create(ctx, auditEntry(inv, model.AuditCreated, nil, actor))
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceCreated()
	s.log.Info().
		Str("invoice_no", created.InvoiceNo).
		Str("net_amount", created.NetAmount.StringFixed(2)).
		Str("user", actor.Label()).
		Msg("invoice created")
	s.events.Publish(EventInvoiceCreated, invoiceEvent(created, actor))
	return created, nil
}

// resolveCustomer finds the customer by mobile number or creates one.
func (s *saleService) resolveCustomer(ctx context.Context, tx repository.Store, req *SaleRequest, actor Actor) (*model.Customer, error) {
	mobile := normalizeMobile(req.CustomerMobile)
	customer, err := tx.Customers().FindByMobile(ctx, mobile)
	if err == nil {
		return customer, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, ErrCustomerNameRequired
	}
	customer = &model.Customer{
		Name:    name,
		Mobile:  mobile,
		Email:   req.CustomerEmail,
		Address: req.CustomerAddress,
	}
	customer.Touch(actor.ID)
	if err := tx.Customers().Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *saleService) UpdateSale(ctx context.Context, id uint, req *SaleUpdateRequest, actor Actor) (*model.SalesInvoice, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *model.SalesInvoice
	var cancelled bool
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		inv, err := tx.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupErr(err, "invoice not found with id: %d", id)
		}
		oldState := inv.Snapshot()

		if inv.Status == billing.StatusCancelled {
			return ErrInvoiceCancelled
		}
		if inv.Status == billing.StatusPaid && req.financial() {
			return ErrPaidInvoiceLocked
		}

		if req.InvoiceDate != "" {
			if inv.InvoiceDate, err = parseDate(req.InvoiceDate, inv.InvoiceDate); err != nil {
				return err
			}
		}
		if req.PaymentMode != "" {
			inv.PaymentMode = resolvePaymentMode(req.PaymentMode, req.OtherPaymentMode)
		}
		if req.Remarks != nil {
			inv.Remarks = *req.Remarks
		}
		if req.OldGoldValue != nil {
			inv.OldGoldValue = billing.Round(*req.OldGoldValue)
		}

		if req.Status != "" {
			target, err := billing.ParseStatus(req.Status)
			if err != nil {
				return err
			}
			next, err := billing.ManualStatusChange(inv.Status, target)
			if err != nil {
				return err
			}
			if next == billing.StatusCancelled && inv.Status != billing.StatusCancelled {
				inv.PaidAmount = decimal.Zero
				cancelled = true
			}
			inv.Status = next
		}

		if len(req.Items) > 0 {
			returns, err := tx.Returns().CountByInvoice(ctx, inv.ID)
			if err != nil {
				return err
			}
			if returns > 0 {
				return ErrItemsHaveReturns
			}
			items := normalizeItems(req.Items)
			if err := tx.Invoices().ReplaceItems(ctx, inv.ID, items); err != nil {
				return err
			}
			inv.Items = items
		}
		if len(req.Items) > 0 || req.changesDiscount() {
			amount, percent := discountInputs(inv, req)
			inv.DiscountPercent = storedPercent(amount, percent)
			inv.ApplyTotals(billing.ComputeInvoiceTotals(inv.ItemTotals(), amount, percent))
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
		updated = inv
		return tx.Audit().Create(ctx, auditEntry(inv, model.AuditUpdated, oldState, actor))
	})
	if err != nil {
		return nil, err
	}

	event := EventInvoiceUpdated
	if cancelled {
		event = EventInvoiceCancelled
		s.log.Warn().Str("invoice_no", updated.InvoiceNo).Str("user", actor.Label()).Msg("invoice cancelled")
	} else {
		s.log.Info().Str("invoice_no", updated.InvoiceNo).Str("status", updated.Status.String()).Msg("invoice updated")
	}
	s.events.Publish(event, invoiceEvent(updated, actor))
	return updated, nil
}

// storedPercent is the percent to persist: zero when a positive amount
// overrides it, so a later recomputation reuses the amount.
func storedPercent(amount, percent decimal.Decimal) decimal.Decimal {
	if amount.IsPositive() {
		return decimal.Zero
	}
	return percent
}

// discountInputs keeps the stored discount unless the request sets one.
func discountInputs(inv *model.SalesInvoice, req *SaleUpdateRequest) (amount, percent decimal.Decimal) {
	if req.changesDiscount() {
		return billing.OrZero(req.DiscountAmount), billing.OrZero(req.DiscountPercent)
	}
	if inv.DiscountPercent.IsPositive() {
		return decimal.Zero, inv.DiscountPercent
	}
	return inv.Discount, decimal.Zero
}

func (s *saleService) AddPayment(ctx context.Context, id uint, req *PaymentRequest, actor Actor) (*model.SalesInvoice, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	paymentDate, err := parseDate(req.PaymentDate, s.now())
	if err != nil {
		return nil, err
	}

	var updated *model.SalesInvoice
	var payment *model.PaymentTransaction
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		inv, err := tx.Invoices().FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupErr(err, "invoice not found with id: %d", id)
		}
		oldState := inv.Snapshot()

		returned, err := tx.Returns().TotalReturnedByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		amount := billing.Round(req.Amount)
		settlement, err := billing.ApplyPayment(inv.PaymentState(returned), amount)
		if err != nil {
			return err
		}

		payment = &model.PaymentTransaction{
			InvoiceID:   inv.ID,
			Amount:      amount,
			PaymentDate: paymentDate,
			PaymentMode: resolvePaymentMode(req.PaymentMode, ""),
			ReferenceNo: req.ReferenceNo,
			ReceivedBy:  lo.Ternary(req.ReceivedBy != "", req.ReceivedBy, actor.Label()),
			CreatedBy:   actor.ID,
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		inv.PaidAmount = settlement.PaidAmount
		inv.DueAmount = settlement.DueAmount
		inv.Status = settlement.Status
		inv.UpdatedBy = actor.ID
		if err := tx.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return tx.Audit().Create(ctx, auditEntry(inv, model.AuditPayment, oldState, actor))
	})
	if err != nil {
		if isPaymentRejection(err) {
			s.metrics.PaymentRejected(err)
			s.log.Warn().Err(err).Uint("invoice_id", id).Str("amount", req.Amount.String()).Msg("payment rejected")
		}
		return nil, err
	}

	s.metrics.PaymentApplied()
	s.log.Info().
		Str("invoice_no", updated.InvoiceNo).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("due", updated.DueAmount.StringFixed(2)).
		Str("status", updated.Status.String()).
		Msg("payment applied")

	ev := invoiceEvent(updated, actor)
	ev["payment"] = map[string]interface{}{
		"id":     payment.ID,
		"amount": payment.Amount.StringFixed(2),
		"mode":   payment.PaymentMode,
	}
	s.events.Publish(EventPaymentAdded, ev)
	return updated, nil
}

func isPaymentRejection(err error) bool {
	return metrics.RejectionReason(err) != "other"
}

func (s *saleService) GetInvoice(ctx context.Context, id uint) (*model.SalesInvoice, error) {
	inv, err := s.store.Invoices().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "invoice not found with id: %d", id)
	}
	returned, err := s.store.Returns().TotalReturnedByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.RecalcDue(returned)

	if inv.Payments, err = s.store.Payments().FindByInvoice(ctx, id); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *saleService) ListInvoices(ctx context.Context) ([]InvoiceRow, error) {
	invoices, err := s.store.Invoices().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toRows(ctx, invoices)
}

// SearchInvoices filters by a free-text term and an optional status; an
// empty status or "ALL" matches every status.
func (s *saleService) SearchInvoices(ctx context.Context, term, status string) ([]InvoiceRow, error) {
	var st billing.Status
	if status != "" && !strings.EqualFold(status, "all") {
		parsed, err := billing.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		st = parsed
	}
	invoices, err := s.store.Invoices().Search(ctx, strings.TrimSpace(term), st)
	if err != nil {
		return nil, err
	}
	return s.toRows(ctx, invoices)
}

func (s *saleService) returnedTotals(ctx context.Context, invoices []model.SalesInvoice) (map[uint]decimal.Decimal, error) {
	ids := lo.Map(invoices, func(inv model.SalesInvoice, _ int) uint { return inv.ID })
	return s.store.Returns().TotalsByInvoices(ctx, ids)
}

func (s *saleService) toRows(ctx context.Context, invoices []model.SalesInvoice) ([]InvoiceRow, error) {
	returned, err := s.returnedTotals(ctx, invoices)
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv model.SalesInvoice, _ int) InvoiceRow {
		ret := returned[inv.ID]
		inv.RecalcDue(ret)
		row := InvoiceRow{
			ID:            inv.ID,
			InvoiceNo:     inv.InvoiceNo,
			InvoiceDate:   inv.InvoiceDate,
			CustomerName:  inv.CustomerName(),
			Status:        inv.Status,
			PaymentMode:   inv.PaymentMode,
			NetAmount:     inv.NetAmount,
			OldGoldValue:  inv.OldGoldValue,
			TotalReturned: ret,
			PaidAmount:    inv.PaidAmount,
			DueAmount:     inv.DueAmount,
		}
		if inv.Customer != nil {
			row.CustomerMobile = inv.Customer.Mobile
		}
		return row
	}), nil
}

func (s *saleService) GetItemsForInvoice(ctx context.Context, id uint) ([]ItemSelection, error) {
	inv, err := s.store.Invoices().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "invoice not found with id: %d", id)
	}
	out := make([]ItemSelection, 0, len(inv.Items))
	for _, it := range inv.Items {
		settled, err := s.store.Returns().ItemSettled(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ItemSelection{ID: it.ID, ItemName: it.ItemName, TotalPrice: it.TotalPrice, Settled: settled})
	}
	return out, nil
}

func (s *saleService) ListPayments(ctx context.Context, id uint) ([]model.PaymentTransaction, error) {
	if _, err := s.store.Invoices().FindByID(ctx, id); err != nil {
		return nil, lookupErr(err, "invoice not found with id: %d", id)
	}
	return s.store.Payments().FindByInvoice(ctx, id)
}

func (s *saleService) GetAuditTrail(ctx context.Context, id uint) ([]model.SaleAuditLog, error) {
	if _, err := s.store.Invoices().FindByID(ctx, id); err != nil {
		return nil, lookupErr(err, "invoice not found with id: %d", id)
	}
	return s.store.Audit().FindByInvoice(ctx, id)
}

// GetSalesAuditData reports invoices dated in [start, end]. The final
// amount of a row is net + old gold − returned.
func (s *saleService) GetSalesAuditData(ctx context.Context, start, end string, statuses []string) (*SalesListResponse, error) {
	invoices, returned, err := s.invoicesInRange(ctx, start, end, statuses)
	if err != nil {
		return nil, err
	}

	resp := &SalesListResponse{Records: make([]SalesRecord, 0, len(invoices)), TotalFinalAmount: decimal.Zero}
	for _, inv := range invoices {
		ret := returned[inv.ID]
		inv.RecalcDue(ret)
		final := billing.Round(inv.NetAmount.Add(inv.OldGoldValue).Sub(ret))
		resp.Records = append(resp.Records, SalesRecord{
			ID:            inv.ID,
			InvoiceNo:     inv.InvoiceNo,
			InvoiceDate:   inv.InvoiceDate,
			CustomerName:  inv.CustomerName(),
			Status:        inv.Status,
			TotalAmount:   inv.TotalAmount,
			Discount:      inv.Discount,
			NetAmount:     inv.NetAmount,
			OldGoldValue:  inv.OldGoldValue,
			TotalReturned: ret,
			PaidAmount:    inv.PaidAmount,
			DueAmount:     inv.DueAmount,
			FinalAmount:   final,
		})
		resp.TotalFinalAmount = resp.TotalFinalAmount.Add(final)
	}
	return resp, nil
}

func (s *saleService) invoicesInRange(ctx context.Context, start, end string, statuses []string) ([]model.SalesInvoice, map[uint]decimal.Decimal, error) {
	if start == "" || end == "" {
		return nil, nil, apperr.InvalidArgument("start and end dates are required")
	}
	from, err := parseDate(start, time.Time{})
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDate(end, time.Time{})
	if err != nil {
		return nil, nil, err
	}
	if to.Before(from) {
		return nil, nil, apperr.InvalidArgument("end date %s is before start date %s", end, start)
	}

	parsed := make([]billing.Status, 0, len(statuses))
	for _, raw := range statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		st, err := billing.ParseStatus(raw)
		if err != nil {
			return nil, nil, err
		}
		parsed = append(parsed, st)
	}

	invoices, err := s.store.Invoices().FindByDateRange(ctx, from, to, lo.Uniq(parsed))
	if err != nil {
		return nil, nil, err
	}
	returned, err := s.returnedTotals(ctx, invoices)
	if err != nil {
		return nil, nil, err
	}
	return invoices, returned, nil
}

func (s *saleService) NextInvoiceNumber(ctx context.Context) (string, error) {
	return s.sequencer.Peek(ctx, s.store.Invoices())
}

func (s *saleService) ExportSalesToExcel(ctx context.Context, start, end string, statuses []string) ([]byte, error) {
	invoices, returned, err := s.invoicesInRange(ctx, start, end, statuses)
	if err != nil {
		return nil, err
	}
	rows := lo.Map(invoices, func(inv model.SalesInvoice, _ int) export.SalesRow {
		ret := returned[inv.ID]
		inv.RecalcDue(ret)
		return export.SalesRow{
			InvoiceNo:     inv.InvoiceNo,
			Date:          inv.InvoiceDate,
			CustomerName:  inv.CustomerName(),
			TotalAmount:   inv.TotalAmount,
			Discount:      inv.Discount,
			NetAmount:     inv.NetAmount,
			PaidAmount:    inv.PaidAmount,
			DueAmount:     inv.DueAmount,
			OldGoldValue:  inv.OldGoldValue,
			TotalReturned: ret,
		}
	})
	data, err := export.SalesWorkbook(rows)
	if err != nil {
		return nil, apperr.Processing(err, "failed to export sales to excel")
	}
	return data, nil
}

func (s *saleService) ExportInvoiceToPdf(ctx context.Context, id uint) ([]byte, error) {
	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	returned, err := s.store.Returns().TotalReturnedByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := export.InvoiceDocument{Invoice: inv, Payments: inv.Payments, Returned: returned}
	if s.company != nil {
		if doc.Company, err = s.company.First(ctx); err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
	}
	if s.banks != nil {
		if doc.Bank, err = s.banks.First(ctx); err != nil && !repository.IsNotFound(err) {
			return nil, err
		}
	}

	data, err := export.InvoicePDF(doc)
	if err != nil {
		return nil, apperr.Processing(err, "failed to render invoice %s", inv.InvoiceNo)
	}
	return data, nil
}

func auditEntry(inv *model.SalesInvoice, action string, oldState datatypes.JSONMap, actor Actor) *model.SaleAuditLog {
	return &model.SaleAuditLog{
		InvoiceID:   inv.ID,
		InvoiceNo:   inv.InvoiceNo,
		Action:      action,
		OldState:    oldState,
		NewState:    inv.Snapshot(),
		PerformedBy: actor.Label(),
	}
}

func invoiceEvent(inv *model.SalesInvoice, actor Actor) map[string]interface{} {
	return map[string]interface{}{
		"invoice_id":    inv.ID,
		"invoice_no":    inv.InvoiceNo,
		"customer_name": inv.CustomerName(),
		"status":        inv.Status,
		"net_amount":    inv.NetAmount.StringFixed(2),
		"paid_amount":   inv.PaidAmount.StringFixed(2),
		"due_amount":    inv.DueAmount.StringFixed(2),
		"user":          actor.eventUser(),
	}
}
