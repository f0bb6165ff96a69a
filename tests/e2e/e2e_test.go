package e2e

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobmarket/internal/database"
	"jobmarket/internal/domain/chat"
	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
	"jobmarket/internal/domain/notification"
	"jobmarket/internal/domain/notification/push"
	"jobmarket/internal/middleware"
	"jobmarket/internal/pkg/cache"
	jwtsvc "jobmarket/internal/pkg/jwt"
)

const internalToken = "test-internal-token"

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// pushRecorder fakes the FCM HTTP endpoint and records request bodies.
type pushRecorder struct {
	mu     sync.Mutex
	bodies []map[string]interface{}
}

func (r *pushRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		r.bodies = append(r.bodies, body)
		r.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (r *pushRecorder) tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.bodies {
		if to, ok := b["to"].(string); ok {
			out = append(out, to)
		}
	}
	return out
}

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service
	pushes *pushRecorder
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "failed to connect to test database")
	db.Logger = logger.Default.LogMode(logger.Silent)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&contractor.Profile{},
		&job.Posting{},
		&chat.Room{},
		&chat.Message{},
		&notification.Preference{},
		&notification.DeviceToken{},
	))

	recorder := &pushRecorder{}
	fcm := httptest.NewServer(recorder.handler())
	t.Cleanup(fcm.Close)

	contractorRepo := contractor.NewRepository(db)
	jobRepo := job.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	notifRepo := notification.NewRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	contractorService := contractor.NewService(contractorRepo, cache.NewMemory())
	dispatcher := notification.NewDispatcher(contractorRepo, notifRepo, chatRepo, push.NewFCM("test-server-key", fcm.URL))
	chatService := chat.NewService(chatRepo, jobRepo, contractorRepo, nil, nil)

	contractorHandler := contractor.NewHandler(contractorService)
	notifHandler := notification.NewHandler(dispatcher, notifRepo)
	chatHandler := chat.NewHandler(chatService)

	router := gin.New()
	router.Use(middleware.CORS(), middleware.ErrorLogger())
	v1 := router.Group("/api/v1")
	{
		contractor.RegisterRoutes(v1, contractorHandler)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			contractor.RegisterProtectedRoutes(protected, contractorHandler)
			chat.RegisterRoutes(protected, chatHandler)
			notification.RegisterRoutes(protected, notifHandler)
		}

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(internalToken))
		{
			notification.RegisterInternalRoutes(internal, notifHandler)
			chat.RegisterInternalRoutes(internal, chatHandler)
		}
	}

	return &testSuite{router: router, db: db, jwt: jwtService, pushes: recorder}
}

func (s *testSuite) request(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, *apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	return w, &parsed
}

func (s *testSuite) authHeader(t *testing.T, userID string) map[string]string {
	t.Helper()
	token, err := s.jwt.GenerateToken(userID, "user")
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func internalHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer " + internalToken}
}

func (s *testSuite) seedContractor(t *testing.T, userID, name string, specialties, areas []string) {
	t.Helper()
	require.NoError(t, s.db.Create(&contractor.Profile{
		ID:                 "profile-" + userID,
		UserID:             userID,
		FullName:           name,
		Specialties:        specialties,
		ServiceAreas:       areas,
		AvailabilityStatus: contractor.StatusAvailable,
	}).Error)
	require.NoError(t, s.db.Create(&notification.Preference{
		UserID:                    userID,
		EnableNewJobNotifications: true,
		EnableChatNotifications:   true,
	}).Error)
}

func sqlNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func TestJobWebhookDispatchesToMatchedContractors(t *testing.T) {
	s := setupSuite(t)
	s.seedContractor(t, "contractor-1", "Maria Quispe", []string{"painting"}, []string{"Lima"})
	s.seedContractor(t, "contractor-2", "Jorge Huaman", []string{"electrical"}, []string{"Lima"})

	// register the painter's device through the public API
	w, _ := s.request(t, http.MethodPost, "/api/v1/notifications/device-tokens",
		map[string]string{"device_token": "fcm-token-painter", "platform": "android"},
		s.authHeader(t, "contractor-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := s.request(t, http.MethodPost, "/api/v1/internal/jobs/webhook",
		map[string]interface{}{"record": map[string]interface{}{
			"id":                 "job-1",
			"title":              "Paint apartment",
			"location_text":      "Lima",
			"compensation_range": "S/ 800",
			"category_name":      "Painting",
			"required_skills":    []string{"painting"},
		}},
		internalHeader())

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	assert.Equal(t, float64(1), resp.Data["matched"])
	assert.Equal(t, float64(1), resp.Data["sent"])
	assert.Equal(t, []string{"fcm-token-painter"}, s.pushes.tokens())
}

func TestJobWebhookRequiresInternalToken(t *testing.T) {
	s := setupSuite(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/internal/jobs/webhook",
		map[string]interface{}{"record": map[string]interface{}{"id": "job-1"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_MISSING", resp.Error.Code)

	w, resp = s.request(t, http.MethodPost, "/api/v1/internal/jobs/webhook",
		map[string]interface{}{"record": map[string]interface{}{"id": "job-1"}},
		map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTH_INVALID", resp.Error.Code)
}

func TestQuietHoursSuppressDelivery(t *testing.T) {
	s := setupSuite(t)
	s.seedContractor(t, "contractor-1", "Maria Quispe", []string{"painting"}, []string{"Lima"})
	require.NoError(t, s.db.Model(&notification.Preference{}).
		Where("user_id = ?", "contractor-1").
		Updates(map[string]interface{}{
			// always-quiet window: start equals end
			"quiet_hours_start": "00:00:00",
			"quiet_hours_end":   "00:00:00",
		}).Error)
	require.NoError(t, s.db.Create(&notification.DeviceToken{
		ID: "dt-1", UserID: "contractor-1", Token: "fcm-token-painter", Platform: "android",
	}).Error)

	w, resp := s.request(t, http.MethodPost, "/api/v1/internal/jobs/webhook",
		map[string]interface{}{"record": map[string]interface{}{
			"id":              "job-1",
			"title":           "Paint apartment",
			"location_text":   "Lima",
			"category_name":   "Painting",
			"required_skills": []string{"painting"},
		}},
		internalHeader())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["matched"])
	assert.Equal(t, float64(0), resp.Data["sent"])
	assert.Equal(t, float64(1), resp.Data["skipped_quiet_hours"])
	assert.Empty(t, s.pushes.tokens())
}

func TestContractorListingIsPublic(t *testing.T) {
	s := setupSuite(t)
	s.seedContractor(t, "contractor-1", "Maria Quispe", []string{"painting"}, []string{"Lima"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contractors?services=painting&locations=lima", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp.Data["total_count"])
}

func TestChatRoomLifecycle(t *testing.T) {
	s := setupSuite(t)
	s.seedContractor(t, "contractor-1", "Maria Quispe", []string{"painting"}, []string{"Lima"})

	// create is idempotent: second call returns 200 with the same room
	w, resp := s.request(t, http.MethodPost, "/api/v1/chat/rooms",
		map[string]string{"contractor_id": "contractor-1", "client_id": "client-1"},
		s.authHeader(t, "client-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	roomID := resp.Data["id"].(string)

	w, resp = s.request(t, http.MethodPost, "/api/v1/chat/rooms",
		map[string]string{"contractor_id": "contractor-1", "client_id": "client-1"},
		s.authHeader(t, "contractor-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, roomID, resp.Data["id"])

	// outsiders cannot create a room for the pair
	w, _ = s.request(t, http.MethodPost, "/api/v1/chat/rooms",
		map[string]string{"contractor_id": "contractor-1", "client_id": "client-1"},
		s.authHeader(t, "someone-else"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.request(t, http.MethodPost, "/api/v1/chat/rooms/"+roomID+"/messages",
		map[string]string{"content": "Hola, cuando puede empezar?", "sender_name": "Client One"},
		s.authHeader(t, "client-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/rooms/"+roomID+"/messages", nil)
	for k, v := range s.authHeader(t, "contractor-1") {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Success bool `json:"success"`
		Data    []struct {
			Content string `json:"content"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, "Hola, cuando puede empezar?", listResp.Data[0].Content)
}

func TestInternalReconcileCreatesMissingRooms(t *testing.T) {
	s := setupSuite(t)
	s.seedContractor(t, "contractor-1", "Maria Quispe", []string{"painting"}, []string{"Lima"})
	require.NoError(t, s.db.Create(&job.Posting{
		ID:                   "job-1",
		Title:                "Paint apartment",
		LocationText:         "Lima",
		CategoryName:         "Painting",
		Status:               job.StatusAssigned,
		PostedByUserID:       "client-1",
		SelectedContractorID: sqlNullString("contractor-1"),
	}).Error)

	w, resp := s.request(t, http.MethodPost, "/api/v1/internal/chat/reconcile", nil, internalHeader())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data["created"])

	// second sweep finds the room already there
	w, resp = s.request(t, http.MethodPost, "/api/v1/internal/chat/reconcile", nil, internalHeader())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), resp.Data["created"])
	assert.Equal(t, float64(1), resp.Data["existing"])
}
