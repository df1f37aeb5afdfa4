package order

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/ledger"
	"github.com/georgemunganga/dalin-backend/internal/modules/notify"
	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRepo is an in-memory Repository. Transactions are serialized by a single
// mutex and roll back to a snapshot when fn fails, which is enough to observe
// atomicity from the outside.
type memRepo struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*Order
	balances map[uuid.UUID]int64
	entries  []*ledger.Entry
	failSave error
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:   make(map[uuid.UUID]*Order),
		balances: make(map[uuid.UUID]int64),
	}
}

func clone(o *Order) *Order {
	c := *o
	c.Items = make([]*LineItem, len(o.Items))
	for i, it := range o.Items {
		item := *it
		c.Items[i] = &item
	}
	c.Screenshots = append([]string{}, o.Screenshots...)
	if o.ActualCost != nil {
		cost := *o.ActualCost
		c.ActualCost = &cost
	}
	if o.ConfirmedAt != nil {
		at := *o.ConfirmedAt
		c.ConfirmedAt = &at
	}
	return &c
}

func (r *memRepo) CreateOrder(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = clone(o)
	return nil
}

func (r *memRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "order not found")
	}
	return clone(o), nil
}

func (r *memRepo) ListOrdersByCustomer(_ context.Context, customerID uuid.UUID, drafts bool) ([]*Order, error) {
	return r.filter(func(o *Order) bool {
		return o.CustomerID == customerID && (o.Status == StatusDraft) == drafts
	}), nil
}

func (r *memRepo) ListOrders(_ context.Context, status Status) ([]*Order, error) {
	return r.filter(func(o *Order) bool {
		return o.Status != StatusDraft && (status == "" || o.Status == status)
	}), nil
}

func (r *memRepo) filter(keep func(o *Order) bool) []*Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make(map[uuid.UUID]*Order, len(r.orders))
	for id, o := range r.orders {
		orders[id] = clone(o)
	}
	balances := make(map[uuid.UUID]int64, len(r.balances))
	for id, b := range r.balances {
		balances[id] = b
	}
	entries := append([]*ledger.Entry(nil), r.entries...)

	if err := fn(ctx, &memTx{r: r}); err != nil {
		r.orders, r.balances, r.entries = orders, balances, entries
		return err
	}
	return nil
}

func (r *memRepo) balance(id uuid.UUID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[id]
}

func (r *memRepo) entriesFor(id uuid.UUID) []*ledger.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Entry
	for _, e := range r.entries {
		if e.ProfileID == id {
			out = append(out, e)
		}
	}
	return out
}

// memTx runs with memRepo.mu held.
type memTx struct{ r *memRepo }

func (t *memTx) LockOrder(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := t.r.orders[id]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "order not found")
	}
	return clone(o), nil
}

func (t *memTx) SaveOrder(_ context.Context, o *Order) error {
	if t.r.failSave != nil {
		return t.r.failSave
	}
	t.r.orders[o.ID] = clone(o)
	return nil
}

func (t *memTx) ReplaceItems(_ context.Context, orderID uuid.UUID, items []*LineItem) error {
	o, ok := t.r.orders[orderID]
	if !ok {
		return errs.New(errs.KindNotFound, "order not found")
	}
	o.Items = clone(&Order{Items: items}).Items
	return nil
}

func (t *memTx) DeleteOrder(_ context.Context, id uuid.UUID) error {
	delete(t.r.orders, id)
	return nil
}

func (t *memTx) LockBalance(_ context.Context, id uuid.UUID) (int64, error) {
	b, ok := t.r.balances[id]
	if !ok {
		return 0, errs.New(errs.KindNotFound, "profile not found")
	}
	return b, nil
}

func (t *memTx) SetBalance(_ context.Context, id uuid.UUID, balance int64) error {
	t.r.balances[id] = balance
	return nil
}

func (t *memTx) AppendEntry(_ context.Context, e *ledger.Entry) error {
	t.r.entries = append(t.r.entries, e)
	return nil
}

// fakeProfiles reads balances from the repo so quotes see ledger movements.
type fakeProfiles struct {
	repo      *memRepo
	noContact map[uuid.UUID]bool
}

func (f *fakeProfiles) GetProfileByID(_ context.Context, id string) (*profile.Profile, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errs.New(errs.KindNotFound, "profile not found")
	}
	f.repo.mu.Lock()
	balance, ok := f.repo.balances[uid]
	f.repo.mu.Unlock()
	if !ok {
		return nil, errs.New(errs.KindNotFound, "profile not found")
	}
	p := &profile.Profile{ID: uid, Role: profile.RoleCustomer, PointsBalance: balance}
	if !f.noContact[uid] {
		p.Phone, p.City, p.Address = "07701234567", "Erbil", "100m Street"
	}
	return p, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []notify.Change
}

func (n *recordingNotifier) Notify(_ context.Context, c notify.Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
}

func (n *recordingNotifier) all() []notify.Change {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Change(nil), n.changes...)
}

// mutableRates lets a test change rates between calls.
type mutableRates struct {
	mu sync.Mutex
	r  pricing.Rates
}

func (m *mutableRates) Rates(context.Context) (pricing.Rates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r, nil
}

func (m *mutableRates) setServiceRate(v int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.r.ServiceRate = decimal.NewFromInt(v)
}

func defaultRates() pricing.Rates {
	return pricing.Rates{
		MarketRate:    decimal.NewFromInt(1450),
		ServiceRate:   decimal.NewFromInt(1200),
		ShippingFee:   pricing.IQDFromInt(5000),
		PointValue:    pricing.IQDFromInt(25),
		PointEarnRate: pricing.IQDFromInt(1000),
	}
}

type fixture struct {
	repo     *memRepo
	profiles *fakeProfiles
	notes    *recordingNotifier
	rates    *mutableRates
	svc      Service
	customer uuid.UUID
}

func newFixture(t *testing.T, balance int64) *fixture {
	t.Helper()
	repo := newMemRepo()
	f := &fixture{
		repo:     repo,
		profiles: &fakeProfiles{repo: repo, noContact: map[uuid.UUID]bool{}},
		notes:    &recordingNotifier{},
		rates:    &mutableRates{r: defaultRates()},
		customer: uuid.New(),
	}
	repo.balances[f.customer] = balance
	f.svc = NewService(repo, f.profiles, f.rates, f.notes, zap.NewNop())
	return f
}

func (f *fixture) addCustomer(balance int64) uuid.UUID {
	id := uuid.New()
	f.repo.mu.Lock()
	f.repo.balances[id] = balance
	f.repo.mu.Unlock()
	return id
}

func items(prices ...string) []ItemInput {
	out := make([]ItemInput, len(prices))
	for i, p := range prices {
		out[i] = ItemInput{
			ExternalRef: "https://www.amazon.com/dp/B00" + p,
			UnitPrice:   pricing.MustUSD(p),
		}
	}
	return out
}

func (f *fixture) draft(t *testing.T, customer uuid.UUID, usePoints bool, prices ...string) *Order {
	t.Helper()
	o, err := f.svc.CreateDraft(context.Background(), customer, DraftRequest{
		Items:               items(prices...),
		WantsPointsDiscount: usePoints,
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) confirmed(t *testing.T, customer uuid.UUID, usePoints bool, prices ...string) *Order {
	t.Helper()
	o := f.draft(t, customer, usePoints, prices...)
	o, err := f.svc.Confirm(context.Background(), customer, o.ID.String())
	require.NoError(t, err)
	return o
}
