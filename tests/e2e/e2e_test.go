package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fileproxy/internal/database"
	"fileproxy/internal/domain/file"
	"fileproxy/internal/domain/storagecfg"
	"fileproxy/internal/domain/stream"
	"fileproxy/internal/domain/user"
	"fileproxy/internal/middleware"
	"fileproxy/internal/pkg/token"
	"fileproxy/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const accessCookie = "access_token"

type E2ETestSuite struct {
	router   *gin.Engine
	db       *gorm.DB
	verifier *token.Verifier

	owner    user.Account
	stranger user.Account
	public   file.Record
	private  file.Record
	payload  []byte
}

type TestResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	models := []interface{}{
		&user.Account{},
		&file.Record{},
		&storagecfg.Config{},
	}
	for _, model := range models {
		err := db.AutoMigrate(model)
		require.NoError(t, err, fmt.Sprintf("Failed to migrate %T", model))
	}

	userRepo := user.NewRepository(db)
	fileRepo := file.NewRepository(db)
	configRepo := storagecfg.NewRepository(db)

	verifier := token.NewVerifier("test_access_secret_32_chars_long", "test_share_secret_32_chars_long!")
	registry := storage.NewRegistry(storage.NewLocalAdapter())

	svc := stream.NewService(userRepo, fileRepo, configRepo, registry, verifier)
	handler := stream.NewHandler(svc, accessCookie)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	stream.RegisterRoutes(r, handler)

	s := &E2ETestSuite{router: r, db: db, verifier: verifier}
	s.seedFixtures(t)
	return s
}

// seedFixtures creates two accounts, a local storage config for the owner
// and two files backed by real bytes on disk under a temp dir.
func (s *E2ETestSuite) seedFixtures(t *testing.T) {
	baseDir := t.TempDir()

	s.owner = user.Account{
		ID:        "owner-1",
		Email:     "owner@test.com",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	s.stranger = user.Account{
		ID:        "stranger-1",
		Email:     "stranger@test.com",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.db.Create(&s.owner).Error)
	require.NoError(t, s.db.Create(&s.stranger).Error)

	creds, _ := json.Marshal(map[string]string{"base_dir": baseDir})
	cfg := storagecfg.Config{
		ID:          "cfg-1",
		UserID:      s.owner.ID,
		Provider:    storage.ProviderLocal,
		Credentials: string(creds),
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, s.db.Create(&cfg).Error)

	s.payload = make([]byte, 512)
	for i := range s.payload {
		s.payload[i] = byte('a' + i%26)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, s.owner.ID), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, s.owner.ID, "report.pdf"), s.payload, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, s.owner.ID, "banner.png"), s.payload, 0o644))

	s.private = file.Record{
		ID:           "file-private",
		OwnerID:      s.owner.ID,
		Kind:         file.KindFile,
		OriginalName: "report.pdf",
		MimeType:     "application/pdf",
		Size:         int64(len(s.payload)),
		Provider:     storage.ProviderLocal,
		Location:     mustLocation(t, s.owner.ID+"/report.pdf"),
		CreatedAt:    time.Now(),
	}
	s.public = file.Record{
		ID:           "file-public",
		OwnerID:      s.owner.ID,
		Kind:         file.KindFile,
		IsPublic:     true,
		OriginalName: "banner.png",
		MimeType:     "image/png",
		Size:         int64(len(s.payload)),
		Provider:     storage.ProviderLocal,
		Location:     mustLocation(t, s.owner.ID+"/banner.png"),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.db.Create(&s.private).Error)
	require.NoError(t, s.db.Create(&s.public).Error)
}

func mustLocation(t *testing.T, path string) string {
	raw, err := json.Marshal(map[string]string{"path": path})
	require.NoError(t, err)
	return string(raw)
}

func (s *E2ETestSuite) makeRequest(path, bearer string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) accessToken(t *testing.T, userID string) string {
	raw, err := s.verifier.MintAccess(userID, time.Hour)
	require.NoError(t, err)
	return raw
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

func TestE2E_OwnerStreamsPrivateFile(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest("/"+s.owner.ID+"/"+s.private.ID, s.accessToken(t, s.owner.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Equal(t, s.payload, body)
}

func TestE2E_PublicFileNeedsNoToken(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest("/"+s.owner.ID+"/"+s.public.ID, "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestE2E_PrivateFileRejectsAnonymous(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest("/"+s.owner.ID+"/"+s.private.ID, "", nil)

	require.Equal(t, http.StatusForbidden, w.Code)
	resp := parseResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing_token", resp.Error.Code)
}

func TestE2E_StrangerSessionRejected(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest("/"+s.owner.ID+"/"+s.private.ID, s.accessToken(t, s.stranger.ID), nil)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_owner", parseResponse(t, w).Error.Code)
}

func TestE2E_ShareLinkFlow(t *testing.T) {
	s := setupTestSuite(t)

	shareTok, err := s.verifier.MintShare(s.private.ID, s.owner.ID, time.Hour)
	require.NoError(t, err)

	// The share link grants this file and nothing else, with no session.
	w := s.makeRequest("/"+s.owner.ID+"/"+s.private.ID+"?token="+shareTok, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest("/"+s.owner.ID+"/"+s.public.ID+"?token="+shareTok, "", nil)
	require.Equal(t, http.StatusOK, w.Code, "public files stay reachable regardless of the token")

	// And an expired link stops working.
	expired, err := s.verifier.MintShare(s.private.ID, s.owner.ID, -time.Minute)
	require.NoError(t, err)
	w = s.makeRequest("/"+s.owner.ID+"/"+s.private.ID+"?token="+expired, "", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "invalid_share_token", parseResponse(t, w).Error.Code)
}

func TestE2E_RangeRequest(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest("/"+s.owner.ID+"/"+s.private.ID, s.accessToken(t, s.owner.ID),
		map[string]string{"Range": "bytes=0-127"})

	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, fmt.Sprintf("bytes 0-127/%d", len(s.payload)), w.Header().Get("Content-Range"))
	assert.Equal(t, "128", w.Header().Get("Content-Length"))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Equal(t, s.payload[:128], body)
}

func TestE2E_DownloadAction(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest("/"+s.owner.ID+"/"+s.private.ID+"?action=download", s.accessToken(t, s.owner.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment`)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.pdf")
}

func TestE2E_DeactivatedOwnerLosesAccess(t *testing.T) {
	s := setupTestSuite(t)

	tok := s.accessToken(t, s.owner.ID)
	require.NoError(t, s.db.Model(&user.Account{}).Where("id = ?", s.owner.ID).Update("is_active", false).Error)

	w := s.makeRequest("/"+s.owner.ID+"/"+s.private.ID, tok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "inactive_user", parseResponse(t, w).Error.Code)

	// Public files survive the lockout.
	w = s.makeRequest("/"+s.owner.ID+"/"+s.public.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestE2E_UnknownFileIs404(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest("/"+s.owner.ID+"/no-such-file", s.accessToken(t, s.owner.ID), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", parseResponse(t, w).Error.Code)
}
