package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/ceylontrails/ceylontrails-api/internal/http/handlers"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/uploads"
	"github.com/ceylontrails/ceylontrails-api/internal/service"
	"github.com/ceylontrails/ceylontrails-api/pkg/auth"
	"github.com/ceylontrails/ceylontrails-api/pkg/config"
	"github.com/ceylontrails/ceylontrails-api/pkg/events"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ---------- Mocks ----------

type mockPackageRepo struct {
	packages []*domain.TourPackage
}

func (m *mockPackageRepo) Create(_ context.Context, in *domain.PackageInput, slug string) (*domain.TourPackage, error) {
	now := time.Now()
	pkg := &domain.TourPackage{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Included:    in.Included,
		Images:      in.Images,
		Slug:        slug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.packages = append(m.packages, pkg)
	return pkg, nil
}

func (m *mockPackageRepo) GetByID(_ context.Context, id string) (*domain.TourPackage, error) {
	for _, p := range m.packages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPackageRepo) GetBySlug(_ context.Context, slug string) (*domain.TourPackage, error) {
	for _, p := range m.packages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPackageRepo) List(_ context.Context, limit, offset int) ([]domain.TourPackage, error) {
	var out []domain.TourPackage
	for i := offset; i < len(m.packages) && len(out) < limit; i++ {
		out = append(out, *m.packages[i])
	}
	return out, nil
}

func (m *mockPackageRepo) Update(_ context.Context, id string, in *domain.PackageInput, slug string) (*domain.TourPackage, error) {
	for _, p := range m.packages {
		if p.ID == id {
			p.Name = in.Name
			p.Description = in.Description
			p.Duration = in.Duration
			p.Included = in.Included
			p.Images = in.Images
			p.Slug = slug
			p.UpdatedAt = time.Now()
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPackageRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, p := range m.packages {
		if p.ID == id {
			m.packages = append(m.packages[:i], m.packages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPackageRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	for _, p := range m.packages {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type mockInquiryRepo struct {
	inquiries []*domain.Inquiry
}

func (m *mockInquiryRepo) Create(_ context.Context, in *domain.InquiryInput) (*domain.Inquiry, error) {
	now := time.Now()
	inq := &domain.Inquiry{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		PackageID:       in.PackageID,
		TravelDate:      in.TravelDate,
		NumberOfPeople:  in.NumberOfPeople,
		SpecialRequests: in.SpecialRequests,
		Status:          domain.InquiryNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.inquiries = append(m.inquiries, inq)
	return inq, nil
}

func (m *mockInquiryRepo) GetByID(_ context.Context, id string) (*domain.Inquiry, error) {
	for _, q := range m.inquiries {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (m *mockInquiryRepo) List(_ context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error) {
	var matched []domain.Inquiry
	for _, q := range m.inquiries {
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(q.Name), s) &&
				!strings.Contains(strings.ToLower(q.Email), s) &&
				!strings.Contains(q.Phone, s) {
				continue
			}
		}
		if filter.TravelDate != "" && q.TravelDate != filter.TravelDate {
			continue
		}
		if len(filter.PackageIDs) > 0 && !containsString(filter.PackageIDs, q.PackageID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, q.Status) {
			continue
		}
		matched = append(matched, *q)
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return []domain.Inquiry{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *mockInquiryRepo) Update(_ context.Context, id string, in *domain.InquiryInput, status domain.InquiryStatus) (*domain.Inquiry, error) {
	for _, q := range m.inquiries {
		if q.ID == id {
			q.Name = in.Name
			q.Email = in.Email
			q.Phone = in.Phone
			q.PackageID = in.PackageID
			q.TravelDate = in.TravelDate
			q.NumberOfPeople = in.NumberOfPeople
			q.SpecialRequests = in.SpecialRequests
			q.Status = status
			q.UpdatedAt = time.Now()
			return q, nil
		}
	}
	return nil, nil
}

func (m *mockInquiryRepo) UpdateStatusBulk(_ context.Context, ids []string, status domain.InquiryStatus) (int64, error) {
	var modified int64
	for _, q := range m.inquiries {
		if containsString(ids, q.ID) {
			q.Status = status
			q.UpdatedAt = time.Now()
			modified++
		}
	}
	return modified, nil
}

func (m *mockInquiryRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, q := range m.inquiries {
		if q.ID == id {
			m.inquiries = append(m.inquiries[:i], m.inquiries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockUserRepo struct {
	users []*domain.User
}

func (m *mockUserRepo) Create(_ context.Context, email, passwordHash string, role domain.Role) (*domain.User, error) {
	now := time.Now()
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users = append(m.users, u)
	return u, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for i := offset; i < len(m.users) && len(out) < limit; i++ {
		out = append(out, *m.users[i])
	}
	return out, nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			u.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) (bool, error) {
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type resetTokenRecord struct {
	userID    string
	expiresAt time.Time
	used      bool
}

// mockTokenRepo mirrors the transactional repo: Issue replaces the
// user's tokens and Consume also writes the new password hash.
type mockTokenRepo struct {
	tokens map[string]*resetTokenRecord
	users  *mockUserRepo
}

func newMockTokenRepo(users *mockUserRepo) *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*resetTokenRecord), users: users}
}

func (m *mockTokenRepo) Issue(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	for hash, rec := range m.tokens {
		if rec.userID == userID {
			delete(m.tokens, hash)
		}
	}
	m.tokens[tokenHash] = &resetTokenRecord{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *mockTokenRepo) FindActive(_ context.Context, tokenHash string) (string, error) {
	rec, ok := m.tokens[tokenHash]
	if !ok || rec.used || time.Now().After(rec.expiresAt) {
		return "", nil
	}
	return rec.userID, nil
}

func (m *mockTokenRepo) Consume(ctx context.Context, tokenHash, newPasswordHash string) (string, error) {
	rec, ok := m.tokens[tokenHash]
	if !ok || rec.used || time.Now().After(rec.expiresAt) {
		return "", nil
	}
	rec.used = true
	m.users.UpdatePassword(ctx, rec.userID, newPasswordHash)
	for hash, other := range m.tokens {
		if other.userID == rec.userID && hash != tokenHash {
			delete(m.tokens, hash)
		}
	}
	return rec.userID, nil
}

func (m *mockTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for hash, rec := range m.tokens {
		if time.Now().After(rec.expiresAt) {
			delete(m.tokens, hash)
			n++
		}
	}
	return n, nil
}

type mockMailer struct {
	resetTo     string
	resetURL    string
	inquiryTo   string
	inquiryName string
	notifyCount int
}

func (m *mockMailer) SendPasswordResetEmail(toEmail, resetURL string) error {
	m.resetTo = toEmail
	m.resetURL = resetURL
	return nil
}

func (m *mockMailer) SendInquiryNotification(toEmail, customerName, packageName, travelDate string, people int) error {
	m.inquiryTo = toEmail
	m.inquiryName = customerName
	m.notifyCount++
	return nil
}

// memStore is an in-memory cache.Store; TTLs are ignored.
type memStore struct {
	mu     sync.Mutex
	data   map[string]string
	counts map[string]int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string), counts: make(map[string]int)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key] <= limit, nil
}

// ---------- Test Setup ----------

const (
	adminEmail    = "admin@ceylontrails.test"
	adminPassword = "orig-password-1"
	notifyInbox   = "bookings@ceylontrails.test"
)

type fixture struct {
	server    *httptest.Server
	cfg       *config.Config
	packages  *mockPackageRepo
	inquiries *mockInquiryRepo
	users     *mockUserRepo
	tokens    *mockTokenRepo
	mail      *mockMailer
	store     *memStore
	admin     *domain.User
}

func setup(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Load()

	packageRepo := &mockPackageRepo{}
	inquiryRepo := &mockInquiryRepo{}
	userRepo := &mockUserRepo{}
	tokenRepo := newMockTokenRepo(userRepo)
	mail := &mockMailer{}
	store := newMemStore()

	hash, err := argon2id.CreateHash(adminPassword, argon2id.DefaultParams)
	if err != nil {
		t.Fatal(err)
	}
	admin, _ := userRepo.Create(context.Background(), adminEmail, hash, domain.RoleAdmin)

	publisher := events.NoopPublisher{}
	packageService := service.NewPackageService(packageRepo, publisher)
	inquiryService := service.NewInquiryService(inquiryRepo, packageRepo, mail, publisher, notifyInbox)
	authService := service.NewAuthService(userRepo, tokenRepo, mail, cfg)
	signer := uploads.NewSigner("demo", "key123", "topsecret", "tour-packages")

	h := handlers.New(packageService, inquiryService, authService, signer, cfg)

	r := chi.NewRouter()
	r.Mount("/v1", h.Routes(store))

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &fixture{
		server:    server,
		cfg:       cfg,
		packages:  packageRepo,
		inquiries: inquiryRepo,
		users:     userRepo,
		tokens:    tokenRepo,
		mail:      mail,
		store:     store,
		admin:     admin,
	}
}

// adminCookie mints a valid session cookie for the seeded admin.
func (f *fixture) adminCookie(t *testing.T) string {
	t.Helper()
	token, err := auth.NewSessionToken(f.admin.ID, f.admin.Email, "admin", f.cfg.Auth.JWTSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return f.cfg.Auth.CookieName + "=" + token
}

// ---------- Helper Functions ----------

func doJSON(t *testing.T, method, url string, body interface{}, cookie string, expectedStatus int) *http.Response {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		buf = bytes.NewBuffer(jsonBytes(t, body))
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	if resp.StatusCode != expectedStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, url, expectedStatus, resp.StatusCode)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func jsonBytes(t *testing.T, data interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsStatus(list []domain.InquiryStatus, s domain.InquiryStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
