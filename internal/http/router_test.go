package http

// Сквозные тесты роутера: настоящие service/auth поверх мока стораджа.
// gomock падает на любом неожиданном вызове, поэтому отсутствие EXPECT
// доказывает, что запрос не дошёл до хранилища.

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/myflixjw/movie-api/internal/auth"
	"github.com/myflixjw/movie-api/internal/config"
	"github.com/myflixjw/movie-api/internal/models"
	"github.com/myflixjw/movie-api/internal/service"
	"github.com/myflixjw/movie-api/internal/storage"
	"github.com/myflixjw/movie-api/mocks"
)

type env struct {
	h      http.Handler
	store  *mocks.MockStorage
	tokens *auth.Tokens
}

func newEnv(t *testing.T, mutate func(*Options)) *env {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret:  "router-secret",
		TokenTTL:   time.Hour,
		Issuer:     "movie-api",
		Audience:   []string{"movie-api"},
		BcryptCost: bcrypt.MinCost,
	}

	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	tokens := auth.New(authCfg)
	svc := service.New(store, tokens, authCfg)

	opts := Options{
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:         5 * time.Second,
		AllowedOrigins:  []string{"http://localhost:4200"},
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
	}
	if mutate != nil {
		mutate(&opts)
	}

	return &env{h: NewRouter(svc, tokens, opts), store: store, tokens: tokens}
}

func (e *env) bearer(t *testing.T, username string) string {
	t.Helper()
	tok, err := e.tokens.Issue(username)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *env) do(method, target, body, authz string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	rr := httptest.NewRecorder()
	e.h.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestRoutes_AccessTable(t *testing.T) {
	got := map[string]Access{}
	for _, rt := range Routes(nil) {
		got[rt.Method+" "+rt.Pattern] = rt.Access
	}

	require.Equal(t, Public, got["GET /"])
	require.Equal(t, Public, got["POST /login"])
	require.Equal(t, Public, got["POST /users"])
	for _, k := range []string{"GET /movies", "GET /movies/{Title}", "GET /movies/Genre/{Title}", "GET /movies/Directors/{Name}", "GET /users"} {
		require.Equal(t, Protected, got[k], k)
	}
	for _, k := range []string{"GET /users/{Username}", "PUT /users/{Username}", "DELETE /users/{Username}",
		"POST /users/{Username}/movies/{MovieID}", "DELETE /users/{Username}/movies/{MovieID}"} {
		require.Equal(t, UserScoped, got[k], k)
		require.Equal(t, Public, got[k].effective(false))
		require.Equal(t, Protected, got[k].effective(true))
	}
}

func TestRouter_Welcome(t *testing.T) {
	e := newEnv(t, nil)

	rr := e.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Welcome to my myflix!", rr.Body.String())
	require.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

// Защищённые маршруты без/с битым токеном: 401, хранилище не вызывается.
func TestRouter_ProtectedWithoutToken_NoStoreCalls(t *testing.T) {
	e := newEnv(t, nil)

	paths := []string{"/movies", "/movies/Silence", "/movies/Genre/Silence", "/movies/Directors/Someone", "/users"}
	for _, p := range paths {
		for _, authz := range []string{"", "Bearer garbage", "Basic Zm9vOmJhcg=="} {
			rr := e.do(http.MethodGet, p, "", authz)
			require.Equal(t, http.StatusUnauthorized, rr.Code, "%s %q", p, authz)
			require.Equal(t, "unauthenticated", decode[envelope](t, rr).Error.Code)
		}
	}
}

func TestRouter_ExpiredToken(t *testing.T) {
	e := newEnv(t, nil)

	expired := auth.New(config.AuthConfig{
		JWTSecret: "router-secret",
		TokenTTL:  -time.Hour,
		Issuer:    "movie-api",
		Audience:  []string{"movie-api"},
	})
	tok, err := expired.Issue("alice")
	require.NoError(t, err)

	rr := e.do(http.MethodGet, "/movies", "", "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "token expired", decode[envelope](t, rr).Error.Message)
}

func TestRouter_Movies(t *testing.T) {
	e := newEnv(t, nil)
	authz := e.bearer(t, "alice")

	m := models.Movie{
		ID:       primitive.NewObjectID(),
		Title:    "Silence",
		Genre:    models.Genre{Name: "Drama", Description: "desc"},
		Director: models.Director{Name: "Martin Scorsese", Bio: "Bio.", Birth: "1942"},
	}

	e.store.EXPECT().Movies(gomock.Any()).Return([]models.Movie{m}, nil)
	rr := e.do(http.MethodGet, "/movies", "", authz)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, decode[[]models.Movie](t, rr), 1)

	e.store.EXPECT().MovieByTitle(gomock.Any(), "The Silence").Return(&m, nil)
	rr = e.do(http.MethodGet, "/movies/The%20Silence", "", authz)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Silence", decode[models.Movie](t, rr).Title)

	e.store.EXPECT().MovieByTitle(gomock.Any(), "Nope").Return(nil, storage.ErrNotFound)
	rr = e.do(http.MethodGet, "/movies/Nope", "", authz)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

// Литеральный "%XX" в Title не раскодируется повторно; %2F даёт "/".
func TestRouter_MovieTitle_PercentLiteral(t *testing.T) {
	e := newEnv(t, nil)
	authz := e.bearer(t, "alice")

	e.store.EXPECT().MovieByTitle(gomock.Any(), "50%41").Return(&models.Movie{Title: "50%41"}, nil)
	rr := e.do(http.MethodGet, "/movies/50%2541", "", authz)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "50%41", decode[models.Movie](t, rr).Title)

	e.store.EXPECT().MovieByTitle(gomock.Any(), "AC/DC").Return(nil, storage.ErrNotFound)
	rr = e.do(http.MethodGet, "/movies/AC%2FDC", "", authz)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

func TestRouter_GenreAndDirector(t *testing.T) {
	e := newEnv(t, nil)
	authz := e.bearer(t, "alice")

	m := &models.Movie{
		Title:    "Silence",
		Genre:    models.Genre{Name: "Drama", Description: "desc"},
		Director: models.Director{Name: "Martin Scorsese", Bio: "Bio.", Birth: "1942"},
	}

	e.store.EXPECT().MovieByTitle(gomock.Any(), "Silence").Return(m, nil)
	rr := e.do(http.MethodGet, "/movies/Genre/Silence", "", authz)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Genre: Drama.Description desc", decode[string](t, rr))

	e.store.EXPECT().MovieByDirector(gomock.Any(), "Martin Scorsese").Return(m, nil)
	rr = e.do(http.MethodGet, "/movies/Directors/Martin%20Scorsese", "", authz)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Name: Martin Scorsese. Bio: Bio. Birth: 1942", decode[string](t, rr))

	e.store.EXPECT().MovieByTitle(gomock.Any(), "Nope").Return(nil, storage.ErrNotFound)
	rr = e.do(http.MethodGet, "/movies/Genre/Nope", "", authz)
	require.Equal(t, http.StatusNotFound, rr.Code)

	e.store.EXPECT().MovieByDirector(gomock.Any(), "Nobody").Return(nil, storage.ErrNotFound)
	rr = e.do(http.MethodGet, "/movies/Directors/Nobody", "", authz)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_StoreFailure_500_NoLeak(t *testing.T) {
	e := newEnv(t, nil)

	e.store.EXPECT().Movies(gomock.Any()).Return(nil, io.ErrUnexpectedEOF)
	rr := e.do(http.MethodGet, "/movies", "", e.bearer(t, "alice"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "unexpected EOF")
}

func TestRouter_StoreDeadline_504(t *testing.T) {
	e := newEnv(t, nil)

	e.store.EXPECT().Movies(gomock.Any()).Return(nil, context.DeadlineExceeded)
	rr := e.do(http.MethodGet, "/movies", "", e.bearer(t, "alice"))
	require.Equal(t, http.StatusGatewayTimeout, rr.Code)
	require.Equal(t, "deadline_exceeded", decode[envelope](t, rr).Error.Code)
}

// Короткий Username и битый Email: 422 с двумя нарушениями, хранилище не трогаем.
func TestRouter_Register_ValidationFails(t *testing.T) {
	e := newEnv(t, nil)

	rr := e.do(http.MethodPost, "/users", `{"Username":"ab","Password":"x","Email":"bad"}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	body := decode[struct {
		Errors []struct {
			Location string `json:"location"`
			Param    string `json:"param"`
			Msg      string `json:"msg"`
		} `json:"errors"`
	}](t, rr)
	require.Len(t, body.Errors, 2)
	require.Equal(t, "Username", body.Errors[0].Param)
	require.Equal(t, "Email", body.Errors[1].Param)
	require.Equal(t, "body", body.Errors[0].Location)
}

// Пустое тело проверяется как {}: 422 по каждому полю, хранилище не трогаем.
func TestRouter_Register_EmptyBody_422(t *testing.T) {
	e := newEnv(t, nil)

	rr := e.do(http.MethodPost, "/users", "", "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	body := decode[struct {
		Errors []struct {
			Param string `json:"param"`
		} `json:"errors"`
	}](t, rr)

	params := make([]string, 0, len(body.Errors))
	for _, v := range body.Errors {
		params = append(params, v.Param)
	}
	require.ElementsMatch(t, []string{"Username", "Username", "Password", "Email"}, params)
}

func TestRouter_Register_Success_NoPasswordInResponse(t *testing.T) {
	e := newEnv(t, nil)

	var stored models.User
	e.store.EXPECT().UserByUsername(gomock.Any(), "alice").Return(nil, storage.ErrNotFound)
	e.store.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, u models.User) (*models.User, error) {
			u.ID = primitive.NewObjectID()
			u.FavoriteMovies = []primitive.ObjectID{}
			stored = u
			return &u, nil
		})

	rr := e.do(http.MethodPost, "/users",
		`{"Username":"alice","Password":"secret","Email":"alice@example.com","Birthday":"1990-01-02"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotContains(t, rr.Body.String(), "Password")

	view := decode[models.UserView](t, rr)
	require.Equal(t, "alice", view.Username)
	require.Equal(t, "alice@example.com", view.Email)
	require.NotNil(t, view.Birthday)

	require.NotEqual(t, "secret", stored.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))
}

func TestRouter_Register_Duplicate_400(t *testing.T) {
	e := newEnv(t, nil)

	e.store.EXPECT().UserByUsername(gomock.Any(), "alice").Return(&models.User{Username: "alice"}, nil)
	rr := e.do(http.MethodPost, "/users", `{"Username":"alice","Password":"p","Email":"a@b.co"}`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "alice already exists", decode[envelope](t, rr).Error.Message)
}

func TestRouter_Register_BadJSON_400(t *testing.T) {
	e := newEnv(t, nil)

	rr := e.do(http.MethodPost, "/users", `{"Username":`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(http.MethodPost, "/users", `{"Username":"alice","Admin":true}`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_UserRoutes_PublicByDefault(t *testing.T) {
	e := newEnv(t, nil)
	oid := primitive.NewObjectID()

	e.store.EXPECT().UserByUsername(gomock.Any(), "alice").Return(&models.User{ID: oid, Username: "alice", Password: "hash"}, nil)
	rr := e.do(http.MethodGet, "/users/alice", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "hash")

	e.store.EXPECT().UserByUsername(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)
	rr = e.do(http.MethodGet, "/users/ghost", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

func TestRouter_UserRoutes_ProtectedByFlag(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.ProtectUserRoutes = true })
	movieID := primitive.NewObjectID().Hex()

	reqs := []struct{ method, path string }{
		{http.MethodGet, "/users/alice"},
		{http.MethodPut, "/users/alice"},
		{http.MethodDelete, "/users/alice"},
		{http.MethodPost, "/users/alice/movies/" + movieID},
		{http.MethodDelete, "/users/alice/movies/" + movieID},
	}
	for _, r := range reqs {
		rr := e.do(r.method, r.path, "", "")
		require.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", r.method, r.path)
	}

	// Регистрация остаётся публичной.
	rr := e.do(http.MethodPost, "/users", `{"Username":"ab"}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	e.store.EXPECT().UserByUsername(gomock.Any(), "alice").Return(&models.User{Username: "alice"}, nil)
	rr = e.do(http.MethodGet, "/users/alice", "", e.bearer(t, "alice"))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_UpdateUser(t *testing.T) {
	e := newEnv(t, nil)

	e.store.EXPECT().UpdateUser(gomock.Any(), "alice", gomock.Any()).DoAndReturn(
		func(_ any, _ string, upd models.UserUpdate) (*models.User, error) {
			require.NotEqual(t, "newpass", upd.Password)
			return &models.User{Username: upd.Username, Email: upd.Email, Password: upd.Password}, nil
		})

	rr := e.do(http.MethodPut, "/users/alice", `{"Username":"alice2","Password":"newpass","Email":"n@b.co"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "alice2", decode[models.UserView](t, rr).Username)

	e.store.EXPECT().UpdateUser(gomock.Any(), "alice", gomock.Any()).Return(nil, storage.ErrConflict)
	rr = e.do(http.MethodPut, "/users/alice", `{"Username":"bob","Password":"p","Email":"b@b.co"}`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "bob already exists", decode[envelope](t, rr).Error.Message)

	e.store.EXPECT().UpdateUser(gomock.Any(), "alice", gomock.Any()).Return(nil, storage.ErrConflict)
	rr = e.do(http.MethodPut, "/users/alice", `{"Username":" bob ","Password":"p","Email":"b@b.co"}`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "bob already exists", decode[envelope](t, rr).Error.Message)

	e.store.EXPECT().UpdateUser(gomock.Any(), "ghost", gomock.Any()).Return(nil, storage.ErrNotFound)
	rr = e.do(http.MethodPut, "/users/ghost", `{"Username":"ghost","Password":"p","Email":"g@b.co"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

func TestRouter_Favorites(t *testing.T) {
	e := newEnv(t, nil)
	oid := primitive.NewObjectID()

	e.store.EXPECT().AddFavorite(gomock.Any(), "alice", oid).
		Return(&models.User{Username: "alice", FavoriteMovies: []primitive.ObjectID{oid, oid}}, nil)
	rr := e.do(http.MethodPost, "/users/alice/movies/"+oid.Hex(), "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, []string{oid.Hex(), oid.Hex()}, decode[models.UserView](t, rr).FavoriteMovies)

	e.store.EXPECT().RemoveFavorite(gomock.Any(), "alice", oid).
		Return(&models.User{Username: "alice", FavoriteMovies: []primitive.ObjectID{}}, nil)
	rr = e.do(http.MethodDelete, "/users/alice/movies/"+oid.Hex(), "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, decode[models.UserView](t, rr).FavoriteMovies)

	rr = e.do(http.MethodPost, "/users/alice/movies/not-an-object-id", "", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_DeleteUser(t *testing.T) {
	e := newEnv(t, nil)

	e.store.EXPECT().DeleteUser(gomock.Any(), "alice").Return(nil)
	rr := e.do(http.MethodDelete, "/users/alice", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "alice was deleted.", rr.Body.String())

	e.store.EXPECT().DeleteUser(gomock.Any(), "ghost").Return(storage.ErrNotFound)
	rr = e.do(http.MethodDelete, "/users/ghost", "", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "ghost was not found")
}

func TestRouter_Login(t *testing.T) {
	e := newEnv(t, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: primitive.NewObjectID(), Username: "alice", Password: string(hash)}

	// JSON-тело.
	e.store.EXPECT().UserByUsername(gomock.Any(), "alice").Return(user, nil)
	rr := e.do(http.MethodPost, "/login", `{"Username":"alice","Password":"secret"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), string(hash))

	resp := decode[struct {
		User  models.UserView `json:"user"`
		Token string          `json:"token"`
	}](t, rr)
	require.Equal(t, "alice", resp.User.Username)

	claims, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)

	// Выданный токен открывает защищённые маршруты.
	e.store.EXPECT().Users(gomock.Any()).Return([]models.User{*user}, nil)
	rr = e.do(http.MethodGet, "/users", "", "Bearer "+resp.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	// Query-параметры.
	e.store.EXPECT().UserByUsername(gomock.Any(), "alice").Return(user, nil)
	q := url.Values{"Username": {"alice"}, "Password": {"secret"}}
	rr = e.do(http.MethodPost, "/login?"+q.Encode(), "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	// Неверный пароль и неизвестный пользователь неразличимы.
	e.store.EXPECT().UserByUsername(gomock.Any(), "alice").Return(user, nil)
	rr = e.do(http.MethodPost, "/login", `{"Username":"alice","Password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	wrongPass := decode[envelope](t, rr).Error.Message

	e.store.EXPECT().UserByUsername(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)
	rr = e.do(http.MethodPost, "/login", `{"Username":"ghost","Password":"secret"}`, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, wrongPass, decode[envelope](t, rr).Error.Message)
}

func TestRouter_Login_RateLimited(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.LoginRateLimit = 1 })

	rr := e.do(http.MethodPost, "/login", `{}`, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = e.do(http.MethodPost, "/login", `{}`, "")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRouter_CORS(t *testing.T) {
	e := newEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	e.h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Contains(t, decode[envelope](t, rr).Error.Message, "https://evil.example")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	rr = httptest.NewRecorder()
	e.h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "http://localhost:4200", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_StaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "documentation.html"), []byte("<h1>docs</h1>"), 0o644))

	e := newEnv(t, func(o *Options) { o.StaticDir = dir })

	rr := e.do(http.MethodGet, "/documentation.html", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "docs")

	rr = e.do(http.MethodGet, "/missing.html", "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(http.MethodPost, "/documentation.html", "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_NoStaticDir_404Envelope(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.StaticDir = filepath.Join(t.TempDir(), "absent") })

	rr := e.do(http.MethodGet, "/whatever", "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "not_found", decode[envelope](t, rr).Error.Code)
}
