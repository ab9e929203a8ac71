package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jewel-erp/internal/billing"
	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
)

// memStore is an in-memory repository.Store. Transactions are serialized
// and roll back on error.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *memData

	failAudit error
}

type memData struct {
	nextID    uint
	customers map[uint]model.Customer
	invoices  map[uint]model.SalesInvoice
	items     map[uint]model.SalesItem
	payments  []model.PaymentTransaction
	returns   []model.SalesReturn
	exchanges []model.SalesExchange
	audit     []model.SaleAuditLog
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		customers: map[uint]model.Customer{},
		invoices:  map[uint]model.SalesInvoice{},
		items:     map[uint]model.SalesItem{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		nextID:    d.nextID,
		customers: make(map[uint]model.Customer, len(d.customers)),
		invoices:  make(map[uint]model.SalesInvoice, len(d.invoices)),
		items:     make(map[uint]model.SalesItem, len(d.items)),
		payments:  append([]model.PaymentTransaction(nil), d.payments...),
		returns:   append([]model.SalesReturn(nil), d.returns...),
		exchanges: append([]model.SalesExchange(nil), d.exchanges...),
		audit:     append([]model.SaleAuditLog(nil), d.audit...),
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	return c
}

func (s *memStore) id() uint {
	s.data.nextID++
	return s.data.nextID
}

func (s *memStore) Customers() repository.CustomerRepository { return memCustomers{s} }
func (s *memStore) Invoices() repository.InvoiceRepository   { return memInvoices{s} }
func (s *memStore) Payments() repository.PaymentRepository   { return memPayments{s} }
func (s *memStore) Returns() repository.ReturnRepository     { return memReturns{s} }
func (s *memStore) Audit() repository.AuditRepository        { return memAudit{s} }

func (s *memStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	saved := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) invoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.invoices)
}

func (s *memStore) auditActions(invoiceID uint) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, a := range s.data.audit {
		if a.InvoiceID == invoiceID {
			out = append(out, a.Action)
		}
	}
	return out
}

type memCustomers struct{ s *memStore }

func (r memCustomers) FindAll(context.Context) ([]model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Customer, 0, len(r.s.data.customers))
	for _, c := range r.s.data.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCustomers) FindByID(_ context.Context, id uint) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r memCustomers) FindByMobile(_ context.Context, mobile string) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.customers {
		if c.Mobile == mobile {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memCustomers) Create(_ context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.customers {
		if existing.Mobile == c.Mobile {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = r.s.id()
	r.s.data.customers[c.ID] = *c
	return nil
}

func (r memCustomers) Update(_ context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.customers[c.ID] = *c
	return nil
}

type memInvoices struct{ s *memStore }

func (r memInvoices) Create(_ context.Context, inv *model.SalesInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.invoices {
		if existing.InvoiceNo == inv.InvoiceNo {
			return gorm.ErrDuplicatedKey
		}
	}
	inv.ID = r.s.id()
	inv.CreatedAt = time.Now()
	for i := range inv.Items {
		inv.Items[i].ID = r.s.id()
		inv.Items[i].InvoiceID = inv.ID
		r.s.data.items[inv.Items[i].ID] = inv.Items[i]
	}
	r.s.data.invoices[inv.ID] = stripInvoice(*inv)
	return nil
}

func stripInvoice(inv model.SalesInvoice) model.SalesInvoice {
	inv.Items = nil
	inv.Customer = nil
	inv.Payments = nil
	return inv
}

func (r memInvoices) Save(_ context.Context, inv *model.SalesInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.invoices[inv.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.data.invoices[inv.ID] = stripInvoice(*inv)
	return nil
}

func (r memInvoices) ReplaceItems(_ context.Context, invoiceID uint, items []model.SalesItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.data.items {
		if it.InvoiceID == invoiceID {
			delete(r.s.data.items, id)
		}
	}
	for i := range items {
		items[i].ID = r.s.id()
		items[i].InvoiceID = invoiceID
		r.s.data.items[items[i].ID] = items[i]
	}
	return nil
}

// load assembles an invoice with its customer and items; callers hold mu.
func (r memInvoices) load(inv model.SalesInvoice) model.SalesInvoice {
	if c, ok := r.s.data.customers[inv.CustomerID]; ok {
		inv.Customer = &c
	}
	for _, it := range r.s.data.items {
		if it.InvoiceID == inv.ID {
			inv.Items = append(inv.Items, it)
		}
	}
	sort.Slice(inv.Items, func(i, j int) bool { return inv.Items[i].ID < inv.Items[j].ID })
	return inv
}

func (r memInvoices) FindByID(_ context.Context, id uint) (*model.SalesInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := r.load(inv)
	return &loaded, nil
}

func (r memInvoices) FindByIDForUpdate(ctx context.Context, id uint) (*model.SalesInvoice, error) {
	return r.FindByID(ctx, id)
}

func (r memInvoices) list(keep func(model.SalesInvoice) bool) []model.SalesInvoice {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.SalesInvoice
	for _, inv := range r.s.data.invoices {
		loaded := r.load(inv)
		loaded.Items = nil
		if keep(loaded) {
			out = append(out, loaded)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memInvoices) FindAll(context.Context) ([]model.SalesInvoice, error) {
	return r.list(func(model.SalesInvoice) bool { return true }), nil
}

func (r memInvoices) Search(_ context.Context, term string, status billing.Status) ([]model.SalesInvoice, error) {
	term = strings.ToLower(term)
	return r.list(func(inv model.SalesInvoice) bool {
		if status != "" && inv.Status != status {
			return false
		}
		if term == "" {
			return true
		}
		hay := strings.ToLower(inv.InvoiceNo + " " + inv.CustomerName())
		if inv.Customer != nil {
			hay += " " + inv.Customer.Mobile
		}
		return strings.Contains(hay, term)
	}), nil
}

func (r memInvoices) FindByDateRange(_ context.Context, start, end time.Time, statuses []billing.Status) ([]model.SalesInvoice, error) {
	out := r.list(func(inv model.SalesInvoice) bool {
		if inv.InvoiceDate.Before(start) || inv.InvoiceDate.After(end) {
			return false
		}
		if len(statuses) == 0 {
			return true
		}
		for _, st := range statuses {
			if inv.Status == st {
				return true
			}
		}
		return false
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memInvoices) LatestInvoiceNumber(context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest model.SalesInvoice
	for _, inv := range r.s.data.invoices {
		if inv.ID > latest.ID {
			latest = inv
		}
	}
	return latest.InvoiceNo, nil
}

func (r memInvoices) FindItem(_ context.Context, itemID uint) (*model.SalesItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.data.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &it, nil
}

func (r memInvoices) FindItems(ctx context.Context, invoiceID uint) ([]model.SalesItem, error) {
	inv, err := r.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return inv.Items, nil
}

type memPayments struct{ s *memStore }

func (r memPayments) Create(_ context.Context, p *model.PaymentTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	r.s.data.payments = append(r.s.data.payments, *p)
	return nil
}

func (r memPayments) FindByInvoice(_ context.Context, invoiceID uint) ([]model.PaymentTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.PaymentTransaction
	for _, p := range r.s.data.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memReturns struct{ s *memStore }

func (r memReturns) CreateReturn(_ context.Context, ret *model.SalesReturn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.returns {
		if existing.SalesItemID == ret.SalesItemID {
			return gorm.ErrDuplicatedKey
		}
	}
	ret.ID = r.s.id()
	r.s.data.returns = append(r.s.data.returns, *ret)
	return nil
}

func (r memReturns) FindReturns(_ context.Context, invoiceID uint) ([]model.SalesReturn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.SalesReturn
	for _, ret := range r.s.data.returns {
		if invoiceID == 0 || ret.InvoiceID == invoiceID {
			out = append(out, ret)
		}
	}
	return out, nil
}

func (r memReturns) CountByInvoice(_ context.Context, invoiceID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, ret := range r.s.data.returns {
		if ret.InvoiceID == invoiceID {
			n++
		}
	}
	return n, nil
}

func (r memReturns) TotalReturnedByInvoice(ctx context.Context, invoiceID uint) (decimal.Decimal, error) {
	totals, err := r.TotalsByInvoices(ctx, []uint{invoiceID})
	if err != nil {
		return decimal.Zero, err
	}
	if t, ok := totals[invoiceID]; ok {
		return t, nil
	}
	return decimal.Zero, nil
}

func (r memReturns) TotalsByInvoices(_ context.Context, ids []uint) (map[uint]decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	totals := map[uint]decimal.Decimal{}
	for _, ret := range r.s.data.returns {
		if want[ret.InvoiceID] {
			totals[ret.InvoiceID] = totals[ret.InvoiceID].Add(ret.ReturnAmount)
		}
	}
	return totals, nil
}

func (r memReturns) CreateExchange(_ context.Context, ex *model.SalesExchange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.exchanges {
		if existing.ReturnItemID == ex.ReturnItemID {
			return gorm.ErrDuplicatedKey
		}
	}
	ex.ID = r.s.id()
	r.s.data.exchanges = append(r.s.data.exchanges, *ex)
	return nil
}

func (r memReturns) FindExchanges(context.Context) ([]model.SalesExchange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.SalesExchange(nil), r.s.data.exchanges...), nil
}

func (r memReturns) ItemSettled(_ context.Context, itemID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ret := range r.s.data.returns {
		if ret.SalesItemID == itemID {
			return true, nil
		}
	}
	for _, ex := range r.s.data.exchanges {
		if ex.ReturnItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

type memAudit struct{ s *memStore }

func (r memAudit) Create(_ context.Context, entry *model.SaleAuditLog) error {
	if r.s.failAudit != nil {
		return r.s.failAudit
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.id()
	r.s.data.audit = append(r.s.data.audit, *entry)
	return nil
}

func (r memAudit) FindByInvoice(_ context.Context, invoiceID uint) ([]model.SaleAuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.SaleAuditLog
	for _, a := range r.s.data.audit {
		if a.InvoiceID == invoiceID {
			out = append(out, a)
		}
	}
	return out, nil
}

// memCrud backs a repository.CrudRepository with a map.
type memCrud[T any] struct {
	mu   sync.Mutex
	rows map[uint]T
	next uint
	idOf func(*T) *uint
}

func newMemCrud[T any](idOf func(*T) *uint) *memCrud[T] {
	return &memCrud[T]{rows: map[uint]T{}, idOf: idOf}
}

func (r *memCrud[T]) FindAll(context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.rows[id])
	}
	return out, nil
}

func (r *memCrud[T]) FindByID(_ context.Context, id uint) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *memCrud[T]) First(ctx context.Context) (*T, error) {
	all, _ := r.FindAll(ctx)
	if len(all) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &all[0], nil
}

func (r *memCrud[T]) Create(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	*r.idOf(entity) = r.next
	r.rows[r.next] = *entity
	return nil
}

func (r *memCrud[T]) Update(_ context.Context, id uint, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	*r.idOf(entity) = id
	r.rows[id] = *entity
	return nil
}

func (r *memCrud[T]) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *eventRecorder) Publish(eventType string, payload interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{eventType, payload})
}

func (e *eventRecorder) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Type
	}
	return out
}

var errBoom = errors.New("boom")
