package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techsense/store_be/internal/middleware"
	"github.com/techsense/store_be/internal/models"
	"github.com/techsense/store_be/internal/utils"
)

const testSecret = "test-secret"

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	Fail bool
	Sent []sentEmail
}

func (m *fakeMailer) Send(to, subject, body string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return false
	}
	m.Sent = append(m.Sent, sentEmail{To: to, Subject: subject, Body: body})
	return true
}

type fakeSMS struct {
	mu   sync.Mutex
	Sent []string
}

func (s *fakeSMS) Send(phone, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, phone+": "+message)
	return true
}

type fakeOTPStore struct {
	mu       sync.Mutex
	codes    map[string]string
	attempts map[string]int64
	sessions map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{
		codes:    map[string]string{},
		attempts: map[string]int64{},
		sessions: map[string]string{},
	}
}

func (s *fakeOTPStore) SaveOTP(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = code
	delete(s.attempts, phone)
	return nil
}

func (s *fakeOTPStore) GetOTP(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone], nil
}

func (s *fakeOTPStore) IncrAttempts(_ context.Context, phone string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[phone]++
	return s.attempts[phone], nil
}

func (s *fakeOTPStore) SaveResetSession(_ context.Context, sessionID, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = phone
	return nil
}

func (s *fakeOTPStore) GetResetSession(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionID], nil
}

func (s *fakeOTPStore) DeleteResetSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

type fakeCartStore struct {
	mu    sync.Mutex
	items map[string]map[uint]int64
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: map[string]map[uint]int64{}}
}

func (s *fakeCartStore) Add(_ context.Context, userID string, projectID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items[userID] == nil {
		s.items[userID] = map[uint]int64{}
	}
	s.items[userID][projectID]++
	return nil
}

func (s *fakeCartStore) Remove(_ context.Context, userID string, projectID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items[userID], projectID)
	return nil
}

func (s *fakeCartStore) Items(_ context.Context, userID string) (map[uint]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uint]int64{}
	for id, qty := range s.items[userID] {
		out[id] = qty
	}
	return out, nil
}

type testEnv struct {
	db   *gorm.DB
	app  *fiber.App
	mail *fakeMailer
	sms  *fakeSMS
	otp  *fakeOTPStore
	cart *fakeCartStore
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Project{},
		&models.ProjectImage{},
		&models.BlogPost{},
		&models.ContactMessage{},
		&models.Order{},
		&models.OrderReview{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db:   newTestDB(t),
		mail: &fakeMailer{},
		sms:  &fakeSMS{},
		otp:  newFakeOTPStore(),
		cart: newFakeCartStore(),
	}

	authH := &AuthHandler{
		DB:        env.db,
		JWTSecret: testSecret,
		Expires:   60,
		BaseURL:   "http://test.local",
		Mail:      env.mail,
	}
	resetH := &PasswordResetHandler{
		DB:        env.db,
		JWTSecret: testSecret,
		BaseURL:   "http://test.local",
		OTP:       env.otp,
		Mail:      env.mail,
		SMS:       env.sms,
	}
	projectH := &ProjectHandler{DB: env.db}
	blogH := &BlogHandler{DB: env.db}
	contactH := &ContactHandler{DB: env.db}
	orderH := &OrderHandler{DB: env.db}
	cartH := &CartHandler{DB: env.db, Cart: env.cart}
	accountH := &AccountHandler{DB: env.db}
	adminH := &AdminHandler{DB: env.db, MediaDir: t.TempDir(), BaseURL: "http://test.local"}

	app := fiber.New()
	api := app.Group("/api")

	api.Get("/", projectH.Home)
	api.Get("/projects", projectH.List)
	api.Get("/projects/:slug", projectH.Detail)
	api.Get("/blog", blogH.List)
	api.Get("/blog/:id", blogH.Detail)
	api.Post("/contact", contactH.Submit)

	api.Post("/auth/signup", authH.Signup)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/verify-email/:uid/:token", authH.VerifyEmail)

	api.All("/password/otp/send", resetH.SendOTP)
	api.All("/password/otp/verify", resetH.VerifyOTP)
	api.Post("/password/otp/reset", resetH.ResetPassword)
	api.Post("/password-reset", resetH.RequestEmailReset)
	api.Post("/reset/:uid/:token", resetH.ConfirmEmailReset)

	protected := api.Group("/",
		middleware.JWTFromCookie(testSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Post("/projects/:slug/buy", orderH.Buy)
	protected.Get("/my-orders", orderH.ListMine)
	protected.Get("/orders/:id", orderH.Detail)
	protected.Post("/orders/:id/cancel", orderH.Cancel)
	protected.Post("/orders/:id/review", orderH.SubmitReview)

	protected.Get("/cart", cartH.View)
	protected.Post("/cart/add/:slug", cartH.Add)
	protected.Post("/cart/remove/:id", cartH.Remove)

	protected.Get("/account/profile", accountH.GetProfile)
	protected.Put("/account/profile", accountH.UpdateProfile)
	protected.Post("/account/change-password", accountH.ChangePassword)

	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Post("/projects", adminH.CreateProject)
	admin.Put("/projects/:id", adminH.UpdateProject)
	admin.Post("/projects/:id/images", adminH.UploadProjectImage)
	admin.Post("/blog", adminH.CreateBlogPost)
	admin.Get("/contact-messages", adminH.ListContactMessages)
	admin.Get("/orders", adminH.ListOrders)
	admin.Patch("/orders/:id/status", adminH.UpdateOrderStatus)

	env.app = app
	return env
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role, active bool) *models.User {
	t.Helper()
	pw, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: pw,
		Role:     role,
		IsActive: active,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createProject(t *testing.T, db *gorm.DB, title string, price int64, active bool) *models.Project {
	t.Helper()
	p := &models.Project{
		Title:    title,
		Slug:     utils.Slugify(title),
		Price:    price,
		Category: models.CategoryWeb,
		Level:    models.LevelBeginner,
		IsActive: active,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func setPhone(t *testing.T, db *gorm.DB, userID uuid.UUID, phone string) {
	t.Helper()
	p := &models.Profile{UserID: userID, Phone: &phone}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
}

func authCookie(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	token, err := utils.SignJWT(testSecret, u.ID.String(), string(u.Role), 60)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return &http.Cookie{Name: middleware.AuthCookie, Value: token}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return execute(t, app, req)
}

func doForm(t *testing.T, app *fiber.App, method, path string, form url.Values, cookies ...*http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return execute(t, app, req)
}

func execute(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	var parsed map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
