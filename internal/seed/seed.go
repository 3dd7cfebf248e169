// Package seed fills a store with the demo data set or with random records.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bxcodec/faker/v3"

	"nota/internal/core"
	"nota/internal/log"
	"nota/internal/records"
)

// ErrNotEmpty is returned when demo data would overwrite existing records.
var ErrNotEmpty = errors.New("store already holds records")

// DemoInvoices returns the demo payment requests, newest first.
func DemoInvoices() []core.PaymentRequest {
	return []core.PaymentRequest{
		{
			RecordBase: core.RecordBase{
				ID: 4, Client: "PT Bintang Terang", Description: "Jasa Fotografi Produk",
				Amount: "Rp 3.200.000", PaymentMethod: core.MethodTransfer, IssuedDate: "10/04/2025",
			},
			DueDate: "2025-04-25", Status: core.StatusPaid, PaidDate: "2025-04-15",
		},
		{
			RecordBase: core.RecordBase{
				ID: 3, Client: "PT Sukses Abadi", Description: "Pengembangan Aplikasi Mobile",
				Amount: "Rp 2.100.000", PaymentMethod: core.MethodTransfer, IssuedDate: "01/04/2025",
			},
			DueDate: "2025-04-15", Status: core.StatusOverdue,
		},
		{
			RecordBase: core.RecordBase{
				ID: 2, Client: "CV Sentosa", Description: "Konsultasi Marketing",
				Amount: "Rp 1.750.000", PaymentMethod: core.MethodEWallet, IssuedDate: "14/04/2025",
			},
			DueDate: "2025-04-28", Status: core.StatusWaiting,
		},
		{
			RecordBase: core.RecordBase{
				ID: 1, Client: "PT Maju Jaya", Description: "Jasa Desain Website",
				Amount: "Rp 2.500.000", PaymentMethod: core.MethodTransfer, IssuedDate: "16/04/2025",
			},
			DueDate: "2025-04-30", Status: core.StatusWaiting,
		},
	}
}

// DemoReceipts returns the demo receipts, newest first.
func DemoReceipts() []core.PaymentReceipt {
	return []core.PaymentReceipt{
		{
			RecordBase: core.RecordBase{
				ID: 4, Client: "CV Prima Utama", Description: "Pembayaran Desain Logo",
				Amount: "Rp 2.750.000", PaymentMethod: core.MethodCash, IssuedDate: "10/04/2025",
			},
			ReceiptDate: "2025-04-10",
		},
		{
			RecordBase: core.RecordBase{
				ID: 3, Client: "PT Bintang Terang", Description: "Pembayaran Jasa Fotografi",
				Amount: "Rp 3.200.000", PaymentMethod: core.MethodTransfer, IssuedDate: "15/04/2025",
			},
			ReceiptDate: "2025-04-15",
		},
		{
			RecordBase: core.RecordBase{
				ID: 2, Client: "Toko Bahagia", Description: "Pembayaran Website E-commerce",
				Amount: "Rp 3.600.000", PaymentMethod: core.MethodEWallet, IssuedDate: "18/04/2025",
			},
			ReceiptDate: "2025-04-18",
		},
		{
			RecordBase: core.RecordBase{
				ID: 1, Client: "PT Maju Jaya", Description: "Pembayaran Jasa Konsultasi",
				Amount: "Rp 4.500.000", PaymentMethod: core.MethodTransfer, IssuedDate: "20/04/2025",
			},
			ReceiptDate: "2025-04-20",
		},
	}
}

var (
	banks          = []string{"BCA", "Mandiri", "BNI", "BRI"}
	walletBrands   = []string{"GoPay", "OVO", "DANA", "ShopeePay"}
	entityPrefixes = []string{"PT", "CV", "Toko", "UD"}
)

// Generator produces plausible random records. Client and description
// text come from faker; everything else from the seeded source.
type Generator struct {
	rng    *rand.Rand
	now    time.Time
	nextID int64
}

// NewGenerator starts ids at firstID, incrementing by one per record.
func NewGenerator(seed int64, now time.Time, firstID int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: now, nextID: firstID}
}

func (g *Generator) id() int64 {
	id := g.nextID
	g.nextID++
	return id
}

func (g *Generator) base() core.RecordBase {
	method := core.PaymentMethods()[g.rng.Intn(len(core.PaymentMethods()))]
	issued := g.now.AddDate(0, 0, -g.rng.Intn(30))
	return core.RecordBase{
		ID:             g.id(),
		Client:         entityPrefixes[g.rng.Intn(len(entityPrefixes))] + " " + faker.LastName(),
		Description:    strings.TrimSuffix(faker.Sentence(), "."),
		Amount:         core.FormatAmount(int64(g.rng.Intn(100)+1) * 50_000),
		PaymentMethod:  method,
		PaymentDetails: g.details(method),
		IssuedDate:     core.FormatLocaleDate(issued),
	}
}

func (g *Generator) details(method core.PaymentMethod) *core.PaymentDetails {
	switch method {
	case core.MethodTransfer:
		return &core.PaymentDetails{Bank: &core.BankDetails{
			BankName:      banks[g.rng.Intn(len(banks))],
			AccountNumber: g.digits(10),
			AccountHolder: faker.Name(),
		}}
	case core.MethodEWallet:
		return &core.PaymentDetails{Wallet: &core.WalletDetails{
			Provider:    walletBrands[g.rng.Intn(len(walletBrands))],
			PhoneNumber: "08" + g.digits(10),
			AccountName: faker.Name(),
		}}
	}
	return nil
}

func (g *Generator) digits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.rng.Intn(10)))
	}
	return b.String()
}

// Invoice returns a request due within 30 days either side of now, with its
// status resolved. About one in four is already paid.
func (g *Generator) Invoice() core.PaymentRequest {
	req := core.PaymentRequest{
		RecordBase: g.base(),
		DueDate:    core.FormatISODate(g.now.AddDate(0, 0, g.rng.Intn(61)-30)),
		Status:     core.StatusWaiting,
	}
	if g.rng.Intn(4) == 0 {
		return core.MarkPaid(req, g.now.AddDate(0, 0, -g.rng.Intn(7)))
	}
	return core.ResolveStatus(req, g.now)
}

// Receipt returns a receipt dated within the last 30 days.
func (g *Generator) Receipt() core.PaymentReceipt {
	return core.PaymentReceipt{
		RecordBase:  g.base(),
		ReceiptDate: core.FormatISODate(g.now.AddDate(0, 0, -g.rng.Intn(30))),
	}
}

// Result counts what a seeding run wrote.
type Result struct {
	Invoices int
	Receipts int
}

// Seeder writes generated records through records.Store.
type Seeder struct {
	store  *records.Store
	logger *log.Logger
	now    func() time.Time
	seed   int64
}

type Option func(*Seeder)

func WithClock(now func() time.Time) Option { return func(s *Seeder) { s.now = now } }

// WithSeed fixes the random source for reproducible runs.
func WithSeed(seed int64) Option { return func(s *Seeder) { s.seed = seed } }

func New(store *records.Store, logger *log.Logger, opts ...Option) *Seeder {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Seeder{
		store:  store,
		logger: logger.WithComponent(log.ComponentSeed),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == 0 {
		s.seed = s.now().UnixNano()
	}
	return s
}

// LoadDemo writes the demo data set. Unless force is set it refuses to touch
// a store that already holds records.
func (s *Seeder) LoadDemo(ctx context.Context, force bool) (Result, error) {
	if !force {
		invoices, err := s.store.LoadInvoices(ctx)
		if err != nil {
			return Result{}, err
		}
		receipts, err := s.store.LoadReceipts(ctx)
		if err != nil {
			return Result{}, err
		}
		if len(invoices) > 0 || len(receipts) > 0 {
			return Result{}, ErrNotEmpty
		}
	}

	invoices, receipts := DemoInvoices(), DemoReceipts()
	if err := s.store.SaveInvoices(ctx, invoices); err != nil {
		return Result{}, fmt.Errorf("save demo invoices: %w", err)
	}
	if err := s.store.SaveReceipts(ctx, receipts); err != nil {
		return Result{}, fmt.Errorf("save demo receipts: %w", err)
	}

	res := Result{Invoices: len(invoices), Receipts: len(receipts)}
	s.logger.InfoContext(ctx, "Demo data loaded", log.FieldOperation, log.OpSeed,
		"invoices", res.Invoices, "receipts", res.Receipts)
	return res, nil
}

// LoadRandom prepends n random invoices and n random receipts. New ids are
// above every existing one so newest-first order holds.
func (s *Seeder) LoadRandom(ctx context.Context, n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("record count must be positive, got %d", n)
	}
	invoices, err := s.store.LoadInvoices(ctx)
	if err != nil {
		return Result{}, err
	}
	receipts, err := s.store.LoadReceipts(ctx)
	if err != nil {
		return Result{}, err
	}

	now := s.now()
	firstID := now.UnixMilli()
	for _, r := range invoices {
		firstID = max(firstID, r.ID+1)
	}
	for _, r := range receipts {
		firstID = max(firstID, r.ID+1)
	}

	gen := NewGenerator(s.seed, now, firstID)
	newInvoices := make([]core.PaymentRequest, 0, n+len(invoices))
	newReceipts := make([]core.PaymentReceipt, 0, n+len(receipts))
	for i := 0; i < n; i++ {
		newInvoices = append(newInvoices, gen.Invoice())
		newReceipts = append(newReceipts, gen.Receipt())
	}
	reverse(newInvoices)
	reverse(newReceipts)

	if err := s.store.SaveInvoices(ctx, append(newInvoices, invoices...)); err != nil {
		return Result{}, fmt.Errorf("save random invoices: %w", err)
	}
	if err := s.store.SaveReceipts(ctx, append(newReceipts, receipts...)); err != nil {
		return Result{}, fmt.Errorf("save random receipts: %w", err)
	}

	s.logger.InfoContext(ctx, "Random records generated", log.FieldOperation, log.OpSeed, "count", n)
	return Result{Invoices: n, Receipts: n}, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
