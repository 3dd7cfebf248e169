package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"nota/internal/cache"
	"nota/internal/core"
	"nota/internal/log"
	"nota/internal/notify"
	"nota/internal/records"
)

const summaryKeyPrefix = "summary:"

// RecordService creates, lists and summarizes payment requests and receipts.
// Read-modify-write sequences are serialized within the process only.
type RecordService struct {
	store     *records.Store
	notifier  notify.Notifier
	summaries cache.Cache[core.Summary]
	logger    *log.Logger
	now       func() time.Time

	mu     sync.Mutex
	lastID int64
}

type Option func(*RecordService)

// WithClock sets the time source used for ids, issue dates and status resolution.
func WithClock(now func() time.Time) Option { return func(s *RecordService) { s.now = now } }

func WithNotifier(n notify.Notifier) Option { return func(s *RecordService) { s.notifier = n } }

// WithSummaryCache memoizes dashboard summaries. Without it every call recomputes.
func WithSummaryCache(c cache.Cache[core.Summary]) Option {
	return func(s *RecordService) { s.summaries = c }
}

func WithLogger(l *log.Logger) Option { return func(s *RecordService) { s.logger = l } }

func NewRecordService(store *records.Store, opts ...Option) *RecordService {
	s := &RecordService{
		store:    store,
		notifier: notify.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(log.ComponentRecords)
	return s
}

// nextID derives an id from the clock in Unix milliseconds, bumped past
// every stored id and the last id issued by this process. Callers hold s.mu.
func (s *RecordService) nextID(ctx context.Context, now time.Time) (int64, error) {
	stored, err := s.store.MaxID(ctx)
	if err != nil {
		return 0, fmt.Errorf("read stored ids: %w", err)
	}
	id := now.UnixMilli()
	if floor := max(s.lastID, stored); id <= floor {
		id = floor + 1
	}
	s.lastID = id
	return id, nil
}

// CreateInvoice validates the form and stores a new payment request.
// Returns core.ValidationErrors when the form is rejected.
func (s *RecordService) CreateInvoice(ctx context.Context, in core.FormInput) (core.PaymentRequest, error) {
	draft, err := core.ValidateRequest(in)
	if err != nil {
		return core.PaymentRequest{}, err
	}

	s.mu.Lock()
	now := s.now()
	id, err := s.nextID(ctx, now)
	if err != nil {
		s.mu.Unlock()
		return core.PaymentRequest{}, err
	}
	req := core.PaymentRequest{
		RecordBase: core.RecordBase{
			ID:             id,
			Client:         draft.Client,
			Description:    draft.Description,
			Amount:         draft.Amount,
			PaymentMethod:  draft.PaymentMethod,
			PaymentDetails: draft.PaymentDetails,
			IssuedDate:     core.FormatLocaleDate(now),
		},
		DueDate: draft.DueDate,
		Status:  core.StatusWaiting,
	}
	req = core.ResolveStatus(req, now)
	err = s.store.AppendInvoice(ctx, req)
	s.mu.Unlock()
	if err != nil {
		return core.PaymentRequest{}, fmt.Errorf("append invoice: %w", err)
	}

	s.invalidate()
	s.logger.InfoContext(ctx, "Payment request created", log.NewFields().
		WithRecord(string(core.KindRequest), req.ID, req.Client, string(req.Amount)).
		WithOperation(log.OpCreate).ToSlice()...)
	s.send(ctx, notify.RequestCreated(req.Client, req.ID, now))
	return req, nil
}

// CreateReceipt validates the form and stores a new receipt.
func (s *RecordService) CreateReceipt(ctx context.Context, in core.FormInput) (core.PaymentReceipt, error) {
	draft, err := core.ValidateReceipt(in)
	if err != nil {
		return core.PaymentReceipt{}, err
	}

	s.mu.Lock()
	now := s.now()
	id, err := s.nextID(ctx, now)
	if err != nil {
		s.mu.Unlock()
		return core.PaymentReceipt{}, err
	}
	rc := core.PaymentReceipt{
		RecordBase: core.RecordBase{
			ID:             id,
			Client:         draft.Client,
			Description:    draft.Description,
			Amount:         draft.Amount,
			PaymentMethod:  draft.PaymentMethod,
			PaymentDetails: draft.PaymentDetails,
			IssuedDate:     core.FormatLocaleDate(now),
		},
		ReceiptDate: draft.ReceiptDate,
	}
	err = s.store.AppendReceipt(ctx, rc)
	s.mu.Unlock()
	if err != nil {
		return core.PaymentReceipt{}, fmt.Errorf("append receipt: %w", err)
	}

	s.invalidate()
	s.logger.InfoContext(ctx, "Payment receipt created", log.NewFields().
		WithRecord(string(core.KindReceipt), rc.ID, rc.Client, string(rc.Amount)).
		WithOperation(log.OpCreate).ToSlice()...)
	s.send(ctx, notify.ReceiptCreated(rc.Client, rc.ID, now))
	return rc, nil
}

// ListInvoices returns requests newest first with statuses resolved against today.
func (s *RecordService) ListInvoices(ctx context.Context, f core.InvoiceFilter) ([]core.PaymentRequest, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("status filter %q: %w", f.Status, err)
	}
	reqs, err := s.loadInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterInvoices(reqs, f), nil
}

func (s *RecordService) ListReceipts(ctx context.Context, f core.ReceiptFilter) ([]core.PaymentReceipt, error) {
	rcs, err := s.loadReceipts(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterReceipts(rcs, f), nil
}

func (s *RecordService) GetInvoice(ctx context.Context, id int64) (core.PaymentRequest, error) {
	reqs, err := s.loadInvoices(ctx)
	if err != nil {
		return core.PaymentRequest{}, err
	}
	req, ok := core.FindInvoice(reqs, id)
	if !ok {
		return core.PaymentRequest{}, fmt.Errorf("invoice %d: %w", id, core.ErrRecordNotFound)
	}
	return req, nil
}

func (s *RecordService) GetReceipt(ctx context.Context, id int64) (core.PaymentReceipt, error) {
	rcs, err := s.loadReceipts(ctx)
	if err != nil {
		return core.PaymentReceipt{}, err
	}
	rc, ok := core.FindReceipt(rcs, id)
	if !ok {
		return core.PaymentReceipt{}, fmt.Errorf("receipt %d: %w", id, core.ErrRecordNotFound)
	}
	return rc, nil
}

// MarkInvoicePaid moves a waiting or overdue request to paid. Marking an
// already paid request returns it unchanged.
func (s *RecordService) MarkInvoicePaid(ctx context.Context, id int64) (core.PaymentRequest, error) {
	s.mu.Lock()
	now := s.now()
	reqs, err := s.store.LoadInvoices(ctx)
	if err != nil {
		s.mu.Unlock()
		return core.PaymentRequest{}, fmt.Errorf("load invoices: %w", err)
	}
	reqs, _ = core.ResolveAll(reqs, now)

	idx := -1
	for i := range reqs {
		if reqs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return core.PaymentRequest{}, fmt.Errorf("invoice %d: %w", id, core.ErrRecordNotFound)
	}
	if reqs[idx].IsPaid() {
		s.mu.Unlock()
		return reqs[idx], nil
	}

	reqs[idx] = core.MarkPaid(reqs[idx], now)
	err = s.store.SaveInvoices(ctx, reqs)
	s.mu.Unlock()
	if err != nil {
		return core.PaymentRequest{}, fmt.Errorf("save invoices: %w", err)
	}

	paid := reqs[idx]
	s.invalidate()
	s.logger.InfoContext(ctx, "Payment request marked paid", log.NewFields().
		WithRecord(string(core.KindRequest), paid.ID, paid.Client, string(paid.Amount)).
		WithOperation(log.OpMarkPaid).ToSlice()...)
	s.send(ctx, notify.RequestPaid(paid.Client, paid.ID, now))
	return paid, nil
}

// Dashboard summarizes both collections. Results are cached per calendar day
// until the next write.
func (s *RecordService) Dashboard(ctx context.Context) (core.Summary, error) {
	key := summaryKeyPrefix + core.FormatISODate(s.now())
	if s.summaries != nil {
		if sum, ok := s.summaries.Get(key); ok {
			return cloneSummary(sum), nil
		}
	}

	var (
		reqs []core.PaymentRequest
		rcs  []core.PaymentReceipt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reqs, err = s.loadInvoices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rcs, err = s.loadReceipts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, fmt.Errorf("load dashboard: %w", err)
	}

	sum := core.Summarize(reqs, rcs)
	if s.summaries != nil {
		s.summaries.Set(key, cloneSummary(sum))
	}
	s.logger.DebugContext(ctx, "Dashboard summary computed",
		log.FieldOperation, log.OpSummary,
		"invoices", sum.InvoiceCount,
		"receipts", sum.ReceiptCount)
	return sum, nil
}

// cloneSummary copies the activity feed so cached summaries never share it
// with callers.
func cloneSummary(sum core.Summary) core.Summary {
	sum.RecentActivity = slices.Clone(sum.RecentActivity)
	return sum
}

// loadInvoices resolves statuses and writes them back when any changed.
// An unreadable collection is reported and treated as empty without writing.
func (s *RecordService) loadInvoices(ctx context.Context) ([]core.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs, err := s.store.LoadInvoices(ctx)
	if records.IsReadError(err) {
		s.logger.WarnContext(ctx, "Stored payment requests are unreadable, showing none", log.FieldError, err)
		return []core.PaymentRequest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	resolved, changed := core.ResolveAll(reqs, s.now())
	if changed {
		if err := s.store.SaveInvoices(ctx, resolved); err != nil {
			s.logger.WarnContext(ctx, "Failed to persist resolved statuses", log.FieldError, err, log.FieldOperation, log.OpResolve)
		} else {
			s.invalidate()
		}
	}
	return resolved, nil
}

func (s *RecordService) loadReceipts(ctx context.Context) ([]core.PaymentReceipt, error) {
	rcs, err := s.store.LoadReceipts(ctx)
	if records.IsReadError(err) {
		s.logger.WarnContext(ctx, "Stored payment receipts are unreadable, showing none", log.FieldError, err)
		return []core.PaymentReceipt{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load receipts: %w", err)
	}
	return rcs, nil
}

func (s *RecordService) invalidate() {
	if s.summaries != nil {
		s.summaries.DeletePrefix(summaryKeyPrefix)
	}
}

func (s *RecordService) send(ctx context.Context, n notify.Notification) {
	sendNotification(ctx, s.notifier, s.logger, n)
}

// sendNotification never fails the caller; delivery errors are logged.
func sendNotification(ctx context.Context, n notify.Notifier, logger *log.Logger, msg notify.Notification) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, msg); err != nil {
		logger.WarnContext(ctx, "Failed to deliver notification",
			log.FieldTitle, msg.Title,
			log.FieldError, err,
			log.FieldOperation, log.OpNotify)
	}
}
