package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/attendance"
	"github.com/davronbek/proteach/core/catalog"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/deduction"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/lead"
	"github.com/davronbek/proteach/core/schooldata"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
	"github.com/davronbek/proteach/core/teacher"
	"github.com/davronbek/proteach/core/user"
	dummysheets "github.com/davronbek/proteach/services/sheets/dummy"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

type apiFixture struct {
	app     Server
	auth    *jwtAuth
	userSvc *user.Service
	hub     *schooldata.Hub
}

func testConfig() *core.Config {
	return &core.Config{
		TestMode:           true,
		AppName:            "proteach",
		SecretKey:          "test-secret",
		JWTExpirationDelta: 10 * time.Minute,
	}
}

func setupAPI(t *testing.T) apiFixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	conf := testConfig()
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	tx := dummydb.NewTransactor(db)
	statsRepo := dummydb.NewStatsRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	courseRepo := dummydb.NewCourseRepository(db)
	financeRepo := dummydb.NewFinanceRepository(db)
	rec := activity.NewRecorder(dummydb.NewActivityRepository(db), logger)
	sheets := dummysheets.NewService()

	userSvc := user.NewService(dummydb.NewUserRepository(db))
	hub := schooldata.NewHub(schooldata.Repositories{
		Students:   studentRepo,
		Teachers:   dummydb.NewTeacherRepository(db),
		Courses:    courseRepo,
		Catalog:    dummydb.NewCatalogRepository(db),
		Finance:    financeRepo,
		Attendance: dummydb.NewAttendanceRepository(db),
		Activities: dummydb.NewActivityRepository(db),
		Leads:      dummydb.NewLeadRepository(db),
	}, &dummydb.Watcher{}, logger)

	app := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       userSvc,
		StudentSvc:    student.NewService(studentRepo, statsRepo, tx, rec),
		TeacherSvc:    teacher.NewService(dummydb.NewTeacherRepository(db), statsRepo, tx, rec),
		CourseSvc:     course.NewService(courseRepo, studentRepo, statsRepo, tx, rec),
		FinanceSvc:    finance.NewService(financeRepo, statsRepo, tx, rec, sheets),
		LeadSvc:       lead.NewService(dummydb.NewLeadRepository(db), statsRepo, tx, rec, sheets),
		AttendanceSvc: attendance.NewService(dummydb.NewAttendanceRepository(db), rec, sheets),
		CatalogSvc:    catalog.NewService(dummydb.NewCatalogRepository(db)),
		StatsSvc:      stats.NewService(statsRepo),
		Hub:           hub,
		Engine: deduction.NewEngine(courseRepo, studentRepo, financeRepo,
			dummydb.NewDeductionRepository(db), statsRepo, tx, rec, logger),
	})
	return apiFixture{app: app, auth: newJWTAuth(conf), userSvc: userSvc, hub: hub}
}

func (f apiFixture) addUser(t *testing.T, uname, pwd string) user.User {
	t.Helper()

	usr, err := f.userSvc.Create(context.Background(), user.NewUser{
		Name:            "Admin",
		Username:        uname,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		t.Fatalf("creating user failed, %v", err)
	}
	return usr
}

func (f apiFixture) token(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := f.auth.generateToken(f.auth.claims(usr))
	if err != nil {
		t.Fatalf("generating token failed, %v", err)
	}
	return token
}

func (f apiFixture) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	f := setupAPI(t)

	rec := f.request(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Pro Teach API!", rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	f := setupAPI(t)

	rec := f.request(http.MethodGet, "/v1/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "missing or malformed jwt"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	f := setupAPI(t)
	f.addUser(t, "director", "Sup3rSecret!")

	rec := f.request(http.MethodPost, "/v1/users/login", "", LoginRequest{Username: "Director", Password: "Sup3rSecret!"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// the issued token opens the authed surface
	rec = f.request(http.MethodGet, "/v1/users/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(http.MethodPost, "/v1/users/login", "", LoginRequest{Username: "director", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "authentication failed"}`, rec.Body.String())
}

// Lead capture stays open: the marketing site form posts without a token.
func TestLeadCaptureIsPublic(t *testing.T) {
	f := setupAPI(t)

	rec := f.request(http.MethodPost, "/v1/leads", "", lead.NewLead{Name: "Aziza", Phone: "+998901112233", Source: "website"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var ld lead.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ld))
	assert.Equal(t, lead.StatusNew, ld.Status)

	// but reading them back needs a token
	rec = f.request(http.MethodGet, "/v1/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStats(t *testing.T) {
	f := setupAPI(t)
	usr := f.addUser(t, "director", "Sup3rSecret!")
	token := f.token(t, usr)

	rec := f.request(http.MethodPost, "/v1/finance", token, finance.NewTransaction{
		Title:  "Tuition payment",
		Amount: "250,000 so'm",
		Type:   finance.TypeIncome,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.request(http.MethodGet, "/v1/stats", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var s stats.Stats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, int64(250000), s.TotalRevenue)
}

func TestSnapshotUnavailableUntilReady(t *testing.T) {
	f := setupAPI(t)
	usr := f.addUser(t, "director", "Sup3rSecret!")
	token := f.token(t, usr)

	// the hub was never started: the mirror is empty and not ready
	rec := f.request(http.MethodGet, "/v1/data/snapshot", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// A partial update must leave the untouched fields alone and still run the
// binding's validation rules.
func TestStudentPartialUpdate(t *testing.T) {
	f := setupAPI(t)
	usr := f.addUser(t, "director", "Sup3rSecret!")
	token := f.token(t, usr)

	rec := f.request(http.MethodPost, "/v1/students", token, student.NewStudent{
		Name:  "Dilnoza Karimova",
		Phone: "+998901112233",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var std student.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &std))

	rec = f.request(http.MethodPut, "/v1/students/"+std.ID, token, map[string]string{"status": student.StatusCompleted})
	assert.Equal(t, http.StatusOK, rec.Code)
	var got student.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, student.StatusCompleted, got.Status)
	assert.Equal(t, "Dilnoza Karimova", got.Name)
	assert.Equal(t, "+998901112233", got.Phone)

	rec = f.request(http.MethodPut, "/v1/students/"+std.ID, token, map[string]string{"status": "graduated-with-honors"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(http.MethodPut, "/v1/students/missing", token, map[string]string{"status": student.StatusCompleted})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadPartialUpdate(t *testing.T) {
	f := setupAPI(t)
	usr := f.addUser(t, "director", "Sup3rSecret!")
	token := f.token(t, usr)

	rec := f.request(http.MethodPost, "/v1/leads", "", lead.NewLead{Name: "Bobur", Phone: "+998909998877", Source: "instagram"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var ld lead.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ld))

	rec = f.request(http.MethodPut, "/v1/leads/"+ld.ID, token, map[string]string{"status": lead.StatusContacted})
	assert.Equal(t, http.StatusOK, rec.Code)
	var got lead.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, lead.StatusContacted, got.Status)
	assert.Equal(t, "Bobur", got.Name)
	assert.Equal(t, "instagram", got.Source)
}

func TestValidationErrors(t *testing.T) {
	f := setupAPI(t)

	rec := f.request(http.MethodPost, "/v1/users/login", "", LoginRequest{Username: "director"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Contains(t, fields, "password")
}
