package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"paycoffee/server/internal/auth"
	"paycoffee/server/internal/domain"
	"paycoffee/server/internal/embed"
	"paycoffee/server/internal/http/handlers"
	"paycoffee/server/internal/http/httpapi"
	"paycoffee/server/internal/infra"
	"paycoffee/server/internal/payman"
	"paycoffee/server/internal/payment"
)

// In-memory stores backing handler tests. They mirror the owner-scoping
// behavior of the Postgres repositories.

type memOwnerRepo struct {
	mu     sync.Mutex
	owners map[string]*domain.Owner
}

func newMemOwnerRepo() *memOwnerRepo {
	return &memOwnerRepo{owners: map[string]*domain.Owner{}}
}

func (m *memOwnerRepo) Create(_ context.Context, owner *domain.Owner) (*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.owners {
		if o.Email == owner.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	stored := *owner
	stored.CreatedAt = time.Now()
	m.owners[stored.ID] = &stored
	return &stored, nil
}

func (m *memOwnerRepo) GetByID(_ context.Context, id string) (*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.owners[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memOwnerRepo) GetByEmail(_ context.Context, email string) (*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.owners {
		if o.Email == email {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memWidgetRepo struct {
	mu      sync.Mutex
	owners  *memOwnerRepo
	widgets map[string]*domain.Widget
}

func newMemWidgetRepo(owners *memOwnerRepo) *memWidgetRepo {
	return &memWidgetRepo{owners: owners, widgets: map[string]*domain.Widget{}}
}

func (m *memWidgetRepo) Create(_ context.Context, w *domain.Widget) (*domain.Widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *w
	stored.CreatedAt = time.Now()
	m.widgets[stored.ID] = &stored
	return &stored, nil
}

func (m *memWidgetRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Widget
	for _, w := range m.widgets {
		if w.OwnerID == ownerID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memWidgetRepo) GetByOwner(_ context.Context, ownerID, id string) (*domain.Widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.widgets[id]
	if !ok || w.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func (m *memWidgetRepo) Update(_ context.Context, w *domain.Widget) (*domain.Widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.widgets[w.ID]
	if !ok || existing.OwnerID != w.OwnerID {
		return nil, domain.ErrNotFound
	}
	updated := *w
	updated.CreatedAt = existing.CreatedAt
	m.widgets[w.ID] = &updated
	return &updated, nil
}

func (m *memWidgetRepo) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.widgets[id]
	if !ok || w.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.widgets, id)
	return nil
}

func (m *memWidgetRepo) GetPublic(ctx context.Context, id string) (*domain.PublicWidget, error) {
	m.mu.Lock()
	w, ok := m.widgets[id]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	owner, err := m.owners.GetByID(ctx, w.OwnerID)
	if err != nil {
		return nil, err
	}
	return &domain.PublicWidget{
		Widget: *w,
		Owner:  domain.WidgetOwnerInfo{DisplayName: owner.DisplayName, PaymanPaytag: owner.PaymanPaytag},
	}, nil
}

type memTransactionRepo struct {
	mu  sync.Mutex
	txs []domain.Transaction
}

func (m *memTransactionRepo) Create(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, *tx)
	return tx, nil
}

func (m *memTransactionRepo) ListByWidget(_ context.Context, widgetID string) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range m.txs {
		if tx.WidgetID == widgetID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type memFlowRepo struct {
	mu    sync.Mutex
	flows map[string]*domain.PaymentFlow
}

func newMemFlowRepo() *memFlowRepo {
	return &memFlowRepo{flows: map[string]*domain.PaymentFlow{}}
}

func (m *memFlowRepo) Create(_ context.Context, f *domain.PaymentFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *f
	m.flows[f.ID] = &stored
	return nil
}

func (m *memFlowRepo) Get(_ context.Context, id string) (*domain.PaymentFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.flows[id]; ok {
		return f, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memFlowRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, id)
	return nil
}

func (m *memFlowRepo) DeleteExpired(context.Context) (int64, error) { return 0, nil }

type stubNetwork struct {
	mu           sync.Mutex
	payeeCalls   int
	paymentCalls int
	paymentID    string
}

func (s *stubNetwork) CreatePayee(_ context.Context, _ string, payee payman.CreatePayeeRequest) (*payman.Payee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payeeCalls++
	return &payman.Payee{ID: "payee-1", Name: payee.Name}, nil
}

func (s *stubNetwork) SendPayment(_ context.Context, _ string, _ payman.SendPaymentRequest) (*payman.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentCalls++
	return &payman.Payment{ID: s.paymentID, Status: "COMPLETED"}, nil
}

type stubExchanger struct {
	token *payman.Token
	err   error
}

func (s *stubExchanger) ExchangeCode(context.Context, string) (*payman.Token, error) {
	return s.token, s.err
}

type testEnv struct {
	app     *handlers.App
	api     http.Handler
	owners  *memOwnerRepo
	widgets *memWidgetRepo
	txs     *memTransactionRepo
	flows   *memFlowRepo
	network *stubNetwork
}

func newTestEnv() *testEnv {
	logger := zerolog.New(io.Discard)
	owners := newMemOwnerRepo()
	widgets := newMemWidgetRepo(owners)
	txs := &memTransactionRepo{}
	flows := newMemFlowRepo()
	network := &stubNetwork{paymentID: "pm-tx-1"}

	app := &handlers.App{
		Logger:   logger,
		Auth:     auth.NewService(owners, "test-secret", 7*24*time.Hour),
		Widgets:  widgets,
		Payments: payment.NewService(widgets, txs, flows, network, logger, 15*time.Minute),
		Embed:    embed.NewGenerator("http://localhost:5173", "http://localhost:8080"),
		Exchange: &stubExchanger{token: &payman.Token{AccessToken: "supporter-token", ExpiresIn: 3600}},
	}
	cfg := &infra.Config{
		AllowedOrigins:  []string{"http://localhost:5173"},
		RateLimitPerMin: 1000,
	}
	return &testEnv{
		app:     app,
		api:     httpapi.NewRouter(app, cfg, nil),
		owners:  owners,
		widgets: widgets,
		txs:     txs,
		flows:   flows,
		network: network,
	}
}

func (e *testEnv) signup(t *testing.T, email string) (ownerID, token string) {
	t.Helper()
	owner, tok, err := e.app.Auth.Signup(context.Background(), auth.SignupParams{
		Email:        email,
		Password:     "hunter22",
		DisplayName:  "Ada",
		PaymanPaytag: "ada.paytag",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	return owner.ID, tok
}

func (e *testEnv) addWidget(t *testing.T, ownerID, title string) *domain.Widget {
	t.Helper()
	w, err := e.widgets.Create(context.Background(), &domain.Widget{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		Title:             title,
		DefaultAmounts:    domain.DefaultAmountPresets(),
		AllowCustomAmount: true,
		ButtonText:        domain.DefaultButtonText,
		PrimaryColor:      domain.DefaultPrimaryColor,
	})
	if err != nil {
		t.Fatalf("seed widget: %v", err)
	}
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rr, &body)
	return body.Error
}

func doRequest(h http.Handler, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
