package http

import (
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-complaints/internal/api/http/handlers"
	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/config"
	"github.com/spec-kit/civic-complaints/internal/domain"
	"github.com/spec-kit/civic-complaints/internal/observability"
	"github.com/spec-kit/civic-complaints/internal/repository"
	"github.com/spec-kit/civic-complaints/internal/service"
)

type fakeComplaintRepo struct {
	complaints []domain.Complaint
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.complaints = append(r.complaints, *complaint)
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	for i := range r.complaints {
		if r.complaints[i].ID == id {
			found := r.complaints[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeComplaintRepo) ListBySubmitter(_ context.Context, submitterID string) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, complaint := range r.complaints {
		if complaint.SubmitterID == submitterID {
			result = append(result, complaint)
		}
	}
	return result, nil
}

func (r *fakeComplaintRepo) ListByDepartment(_ context.Context, department string) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, complaint := range r.complaints {
		if complaint.Department == department {
			result = append(result, complaint)
		}
	}
	return result, nil
}

func (r *fakeComplaintRepo) ListAll(_ context.Context) ([]repository.ComplaintWithSubmitter, error) {
	result := make([]repository.ComplaintWithSubmitter, 0, len(r.complaints))
	for _, complaint := range r.complaints {
		result = append(result, repository.ComplaintWithSubmitter{Complaint: complaint})
	}
	return result, nil
}

func (r *fakeComplaintRepo) SetStatus(_ context.Context, id string, status domain.ComplaintStatus, resolvedAt *time.Time) (*domain.Complaint, error) {
	for i := range r.complaints {
		if r.complaints[i].ID == id {
			r.complaints[i].Status = status
			r.complaints[i].ResolvedAt = resolvedAt
			found := r.complaints[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeComplaintRepo) Delete(_ context.Context, id string) error {
	for i := range r.complaints {
		if r.complaints[i].ID == id {
			r.complaints = append(r.complaints[:i], r.complaints[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeUserRepo struct {
	users []domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = "user-" + user.Name
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByName(_ context.Context, name string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Name == name })
}

func (r *fakeUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	for i := range r.users {
		if match(r.users[i]) {
			found := r.users[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeClassifier struct {
	department string
}

func (c *fakeClassifier) Classify(_ context.Context, _ string) (string, error) {
	return c.department, nil
}

type testEnv struct {
	app        *fiber.App
	complaints *fakeComplaintRepo
	users      *fakeUserRepo
	auth       *service.AuthService
}

func newTestEnv(t *testing.T, department string) *testEnv {
	t.Helper()

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 5
	cfg.Auth.BcryptCost = 4

	complaintRepo := &fakeComplaintRepo{}
	userRepo := &fakeUserRepo{}

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		Classifier:    &fakeClassifier{department: department},
	})
	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: userRepo})

	app := fiber.New()
	logger := zap.NewNop()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("civic-complaints", "test", nil, nil),
		Users:          handlers.NewUsersHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Admin:          handlers.NewAdminHandler(complaintService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})

	return &testEnv{app: app, complaints: complaintRepo, users: userRepo, auth: authService}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header map[string]string) (*stdhttp.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func errCode(t *testing.T, body map[string]any) string {
	t.Helper()
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no error object: %v", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestSubmitComplaintEndpoint(t *testing.T) {
	env := newTestEnv(t, "Department of Transportation")

	resp, body := env.do(t, "POST", "/complaints",
		`{"title":"Broken streetlight","description":"The streetlight on 5th Ave has been out for a week.","location":"5th Ave","submitter_id":"user-1"}`, nil)
	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("POST /complaints status = %d, want 201", resp.StatusCode)
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response missing data: %v", body)
	}
	if data["status"] != "Registered" {
		t.Fatalf("status = %v, want Registered", data["status"])
	}
	if data["department"] != "Department of Transportation" {
		t.Fatalf("department = %v", data["department"])
	}
	if data["resolved_at"] != nil {
		t.Fatalf("resolved_at = %v, want null", data["resolved_at"])
	}
	if id, _ := data["id"].(string); id == "" {
		t.Fatal("id missing from response")
	}
}

func TestSubmitComplaintValidation(t *testing.T) {
	env := newTestEnv(t, "Department of Sanitation")

	resp, body := env.do(t, "POST", "/complaints",
		`{"title":"x","description":"   ","submitter_id":"user-1"}`, nil)
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if code := errCode(t, body); code != "VALIDATION_FAILED" {
		t.Fatalf("error code = %q, want VALIDATION_FAILED", code)
	}
	if len(env.complaints.complaints) != 0 {
		t.Fatal("validation failure persisted a complaint")
	}
}

func TestStatusUpdateEndpoint(t *testing.T) {
	env := newTestEnv(t, "Department of Sanitation")

	_, created := env.do(t, "POST", "/complaints",
		`{"title":"Bin","description":"Overflowing","submitter_id":"user-1"}`, nil)
	id := created["data"].(map[string]any)["id"].(string)

	resp, body := env.do(t, "PUT", "/complaints/"+id, `{"status":"Resolved"}`, nil)
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("PUT status = %d, want 200", resp.StatusCode)
	}
	data := body["data"].(map[string]any)
	if data["status"] != "Resolved" {
		t.Fatalf("status = %v, want Resolved", data["status"])
	}
	if data["resolved_at"] == nil {
		t.Fatal("resolved_at missing after Resolved")
	}

	resp, body = env.do(t, "PUT", "/complaints/"+id, `{"status":"Escalated"}`, nil)
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("PUT bogus status = %d, want 400", resp.StatusCode)
	}
	if code := errCode(t, body); code != "VALIDATION_FAILED" {
		t.Fatalf("error code = %q", code)
	}

	resp, body = env.do(t, "PUT", "/complaints/nope", `{"status":"Resolved"}`, nil)
	if resp.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("PUT unknown id = %d, want 404", resp.StatusCode)
	}
	if code := errCode(t, body); code != "NOT_FOUND" {
		t.Fatalf("error code = %q", code)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	env := newTestEnv(t, "Department of Sanitation")

	resp, body := env.do(t, "DELETE", "/complaints/ghost", "", nil)
	if resp.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("DELETE unknown id = %d, want 404", resp.StatusCode)
	}
	if code := errCode(t, body); code != "NOT_FOUND" {
		t.Fatalf("error code = %q", code)
	}
}

func TestUserComplaintsEndpoint(t *testing.T) {
	env := newTestEnv(t, "Department of Sanitation")

	env.do(t, "POST", "/complaints", `{"title":"a","description":"d1","submitter_id":"user-1"}`, nil)
	env.do(t, "POST", "/complaints", `{"title":"b","description":"d2","submitter_id":"user-2"}`, nil)

	_, body := env.do(t, "GET", "/complaints/user/user-1", "", nil)
	items := body["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("GET /complaints/user/user-1 returned %d items, want 1", len(items))
	}
}

func TestSignupConflict(t *testing.T) {
	env := newTestEnv(t, "Department of Sanitation")

	resp, _ := env.do(t, "POST", "/signup", `{"name":"Ada","email":"ada@example.com","password":"pw"}`, nil)
	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("signup status = %d, want 201", resp.StatusCode)
	}

	resp, body := env.do(t, "POST", "/signup", `{"name":"Eve","email":"ada@example.com","password":"pw"}`, nil)
	if resp.StatusCode != stdhttp.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", resp.StatusCode)
	}
	if code := errCode(t, body); code != "CONFLICT" {
		t.Fatalf("error code = %q", code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t, "Department of Sanitation")

	env.do(t, "POST", "/signup", `{"name":"Ada","email":"ada@example.com","password":"pw"}`, nil)

	resp, body := env.do(t, "POST", "/login", `{"email":"ada@example.com","password":"wrong"}`, nil)
	if resp.StatusCode != stdhttp.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", resp.StatusCode)
	}
	if code := errCode(t, body); code != "UNAUTHORIZED" {
		t.Fatalf("error code = %q", code)
	}
}

func TestAdminListingScopedByDepartment(t *testing.T) {
	env := newTestEnv(t, "Department of Sanitation")

	env.do(t, "POST", "/complaints", `{"title":"a","description":"d1","submitter_id":"user-1"}`, nil)

	resp, _ := env.do(t, "GET", "/admin/complaints", "", nil)
	if resp.StatusCode != stdhttp.StatusUnauthorized {
		t.Fatalf("GET /admin/complaints without token = %d, want 401", resp.StatusCode)
	}

	department := "Department of Sanitation"
	admin := domain.User{
		ID:         "user-admin",
		Name:       "sanitation_admin",
		Email:      "sanitation_admin@civic.gov",
		Role:       domain.RoleDepartmentAdmin,
		Department: &department,
	}
	env.users.users = append(env.users.users, admin)

	token, _, err := env.auth.TokenManager().GenerateToken(admin.ID, admin.Role, admin.Department)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	resp, body := env.do(t, "GET", "/admin/complaints", "", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("GET /admin/complaints status = %d, want 200", resp.StatusCode)
	}
	items := body["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("scoped listing returned %d items, want 1", len(items))
	}
}
