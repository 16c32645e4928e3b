package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tunehub/backend/internal/config"
	"tunehub/backend/internal/database"
	"tunehub/backend/internal/media"
	"tunehub/backend/internal/model"
	"tunehub/backend/internal/repository"
	"tunehub/backend/internal/service"
	"tunehub/backend/internal/tempstore"
	jwtpkg "tunehub/backend/pkg/jwt"
)

const adminID = "user_admin"

type testServer struct {
	router  *gin.Engine
	jwt     *jwtpkg.Manager
	tempDir string
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, connect bool) *testServer {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{}
	cfg.Server.Environment = "development"
	cfg.Server.MaxJSONBody = 1 << 20
	cfg.Admin.UserIDs = []string{adminID}
	cfg.CORS = config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Upload.MaxFiles = 4

	db := database.New(config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(root, "router.db")},
	}, zap.NewNop())
	if connect {
		if err := db.Connect(context.Background()); err != nil {
			t.Fatalf("connect sqlite: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
	}

	logger := zap.NewNop()
	cache := repository.NewMemoryCache()
	users := repository.NewUserRepository(db)
	albums := repository.NewAlbumRepository(db)
	songs := repository.NewSongRepository(db)
	messages := repository.NewMessageRepository(db)
	localMedia := media.NewLocalStore(filepath.Join(root, "media"), "/media")
	uploads := tempstore.New(filepath.Join(root, "tmp"))
	jwtManager := jwtpkg.NewManager("router-test-key", "tunehub")

	catalog := service.NewCatalogService(albums, songs)
	r := SetupRouter(cfg, logger, jwtManager, uploads, localMedia,
		NewAuthHandler(service.NewAuthService(users)),
		NewUserHandler(service.NewChatService(users, messages)),
		NewAdminHandler(service.NewAdminService(songs, albums, localMedia, cache, logger)),
		NewAlbumHandler(catalog),
		NewSongHandler(catalog),
		NewStatHandler(service.NewStatService(songs, albums, users, cache, time.Minute, logger)),
	)
	return &testServer{router: r, jwt: jwtManager, tempDir: uploads.Dir()}
}

func (s *testServer) token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := s.jwt.Generate(subject, "", time.Hour)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, subject string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, subject))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartForm(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(f.data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestMountPoints(t *testing.T) {
	s := newTestServer(t, true)

	cases := []struct {
		method  string
		path    string
		subject string
		status  int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/api/users", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/users", "user_a", http.StatusOK},
		{http.MethodGet, "/api/users/messages/user_b", "user_a", http.StatusOK},
		{http.MethodGet, "/api/admin/check", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/admin/check", "user_a", http.StatusForbidden},
		{http.MethodGet, "/api/admin/check", adminID, http.StatusOK},
		{http.MethodGet, "/api/albums", "", http.StatusOK},
		{http.MethodGet, "/api/albums/not-a-uuid", "", http.StatusBadRequest},
		{http.MethodGet, "/api/albums/5d1c2a55-93a4-4c3e-8d47-3b7f3f3f0c11", "", http.StatusNotFound},
		{http.MethodGet, "/api/songs", "user_a", http.StatusForbidden},
		{http.MethodGet, "/api/songs", adminID, http.StatusOK},
		{http.MethodGet, "/api/songs/featured", "", http.StatusOK},
		{http.MethodGet, "/api/songs/made-for-you", "", http.StatusOK},
		{http.MethodGet, "/api/songs/trending", "", http.StatusOK},
		{http.MethodGet, "/api/stats", "user_a", http.StatusForbidden},
		{http.MethodGet, "/api/stats", adminID, http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := s.do(t, tc.method, tc.path, tc.subject, nil, "")
		if rec.Code != tc.status {
			t.Errorf("%s %s as %q: expected %d, got %d (%s)", tc.method, tc.path, tc.subject, tc.status, rec.Code, rec.Body.String())
		}
	}
}

func TestAuthCallbackAndContacts(t *testing.T) {
	s := newTestServer(t, true)

	for _, body := range []string{
		`{"id":"user_a","firstName":"Ada","lastName":"Lovelace","imageUrl":"https://img/a.png"}`,
		`{"id":"user_b","firstName":"Alan","lastName":"Turing"}`,
		`{"id":"user_b","firstName":"Alan M.","lastName":"Turing"}`,
	} {
		rec := s.do(t, http.MethodPost, "/api/auth/callback", "", strings.NewReader(body), "application/json")
		if rec.Code != http.StatusOK || rec.Body.String() != `{"success":true}` {
			t.Fatalf("callback: unexpected response %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := s.do(t, http.MethodPost, "/api/auth/callback", "", strings.NewReader(`{"firstName":"x"}`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("callback without id: expected 400, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/api/users", "user_a", nil, "")
	var contacts []model.User
	decode(t, rec, &contacts)
	if len(contacts) != 1 || contacts[0].ExternalID != "user_b" || contacts[0].FullName != "Alan M. Turing" {
		t.Fatalf("unexpected contacts %+v", contacts)
	}
}

func TestMalformedJSONReachesFaultBoundary(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, http.MethodPost, "/api/auth/callback", "", strings.NewReader(`{"id":`), "application/json")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body struct{ Message string }
	decode(t, rec, &body)
	if !strings.HasPrefix(body.Message, "malformed JSON body") {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestQueriesBeforeConnectFailThroughBoundary(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz must answer before the database connects, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/api/albums", "", nil, "")
	if rec.Code != http.StatusInternalServerError || rec.Body.String() != `{"message":"database not connected"}` {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminCatalogLifecycle(t *testing.T) {
	s := newTestServer(t, true)
	image := formFile{field: "imageFile", name: "cover.png", data: []byte("png-bytes")}
	audio := formFile{field: "audioFile", name: "track.mp3", data: []byte("mp3-bytes")}

	body, ctype := multipartForm(t, map[string]string{"title": "Blue", "artist": "Joni", "releaseYear": "1971"}, image)
	rec := s.do(t, http.MethodPost, "/api/admin/albums", adminID, body, ctype)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create album: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var album model.Album
	decode(t, rec, &album)

	body, ctype = multipartForm(t, map[string]string{
		"title": "River", "artist": "Joni", "duration": "240", "albumId": album.ID.String(),
	}, audio, image)
	rec = s.do(t, http.MethodPost, "/api/admin/songs", adminID, body, ctype)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create song: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var song model.Song
	decode(t, rec, &song)

	if entries, _ := os.ReadDir(s.tempDir); len(entries) != 0 {
		t.Fatalf("expected staged files to be released, found %d", len(entries))
	}

	rec = s.do(t, http.MethodGet, song.AudioURL, "", nil, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "mp3-bytes" {
		t.Fatalf("serve media: unexpected response %d %q", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/albums/"+album.ID.String(), "", nil, "")
	var withSongs model.Album
	decode(t, rec, &withSongs)
	if len(withSongs.Songs) != 1 || withSongs.Songs[0].ID != song.ID {
		t.Fatalf("expected album to list the song, got %+v", withSongs.Songs)
	}

	rec = s.do(t, http.MethodGet, "/api/stats", adminID, nil, "")
	var stats service.Stats
	decode(t, rec, &stats)
	if stats.TotalSongs != 1 || stats.TotalAlbums != 1 || stats.TotalArtists != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	rec = s.do(t, http.MethodDelete, "/api/admin/albums/"+album.ID.String(), adminID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete album: expected 200, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodDelete, "/api/admin/songs/"+song.ID.String(), adminID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("song should go with its album, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, song.AudioURL, "", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("media should be removed with the album, got %d", rec.Code)
	}
}

func TestAdminCreateSongValidation(t *testing.T) {
	s := newTestServer(t, true)
	audio := formFile{field: "audioFile", name: "track.mp3", data: []byte("mp3")}

	cases := []struct {
		name   string
		fields map[string]string
		files  []formFile
		status int
	}{
		{"missing image", map[string]string{"title": "t", "artist": "a", "duration": "1"}, []formFile{audio}, http.StatusBadRequest},
		{"bad duration", map[string]string{"title": "t", "artist": "a", "duration": "long"}, []formFile{audio}, http.StatusBadRequest},
		{"bad album id", map[string]string{"title": "t", "artist": "a", "duration": "1", "albumId": "nope"}, []formFile{audio}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		body, ctype := multipartForm(t, tc.fields, tc.files...)
		rec := s.do(t, http.MethodPost, "/api/admin/songs", adminID, body, ctype)
		if rec.Code != tc.status {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.status, rec.Code, rec.Body.String())
		}
	}
	if entries, _ := os.ReadDir(s.tempDir); len(entries) != 0 {
		t.Fatalf("rejected uploads must release staged files, found %d", len(entries))
	}
}
