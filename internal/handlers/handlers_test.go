package handlers

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/saecki/minesweeper/internal/config"
	"github.com/saecki/minesweeper/internal/middleware"
	"github.com/saecki/minesweeper/internal/repository"
	"github.com/saecki/minesweeper/mines"
)

// memStore keeps players and sessions in maps, standing in for the
// postgres backed repository.
type memStore struct {
	mu       sync.Mutex
	players  map[string]*repository.Player
	sessions map[int64]*repository.GameSession
	nextId   int64
}

func newMemStore() *memStore {
	return &memStore{
		players:  make(map[string]*repository.Player),
		sessions: make(map[int64]*repository.GameSession),
	}
}

func (m *memStore) CreatePlayer(_ context.Context, username string, passwordHash []byte) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[username]; ok {
		return nil, repository.ErrDuplicateUsername
	}
	m.nextId++
	player := &repository.Player{
		PlayerId:     m.nextId,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	}
	m.players[username] = player
	return player, nil
}

func (m *memStore) FetchPlayer(_ context.Context, username string) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	player, ok := m.players[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return player, nil
}

func (m *memStore) CreateGameSession(_ context.Context, playerId *int64, game *mines.Game) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextId++
	session := &repository.GameSession{
		GameSessionId: m.nextId,
		PlayerId:      playerId,
		StartedAt:     pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	}
	if err := session.SetGame(game); err != nil {
		return nil, err
	}
	m.sessions[session.GameSessionId] = session
	clone := *session
	return &clone, nil
}

func (m *memStore) FetchGameSession(_ context.Context, gameSessionId int64) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[gameSessionId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (m *memStore) UpdateGameSession(_ context.Context, session *repository.GameSession) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.GameSessionId]; !ok {
		return nil, repository.ErrNotFound
	}
	clone := *session
	m.sessions[session.GameSessionId] = &clone
	out := clone
	return &out, nil
}

// Generating an RSA key per test adds up, one pair is plenty.
var testKeys struct {
	once    sync.Once
	private string
	public  string
	err     error
}

func testKeyPEMs(t *testing.T) (string, string) {
	t.Helper()
	testKeys.once.Do(func() {
		key, err := rsa.GenerateKey(cryptorand.Reader, 2048)
		if err != nil {
			testKeys.err = err
			return
		}
		testKeys.private = string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		}))
		publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		if err != nil {
			testKeys.err = err
			return
		}
		testKeys.public = string(pem.EncodeToMemory(&pem.Block{
			Type:  "PUBLIC KEY",
			Bytes: publicDER,
		}))
	})
	require.NoError(t, testKeys.err)
	return testKeys.private, testKeys.public
}

func testCookies(t *testing.T) *config.Cookies {
	t.Helper()
	privatePEM, publicPEM := testKeyPEMs(t)
	t.Setenv("JWT_PRIVATE_KEY", privatePEM)
	t.Setenv("JWT_PUBLIC_KEY", publicPEM)
	t.Setenv("COOKIES_DOMAIN", "")
	t.Setenv("COOKIES_SECURE", "0")
	t.Setenv("COOKIES_SAMESITE", "lax")

	j, err := config.NewJWT()
	require.NoError(t, err)
	cookies, err := config.NewCookies(j)
	require.NoError(t, err)
	return cookies
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := newMemStore()
	cookies := testCookies(t)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	game := NewGameHandler(log, store, cookies, ws, rand.New(rand.NewPCG(1, 2)))
	auth := NewAuthHandler(log, store, cookies)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /game", game.Create)
	mux.HandleFunc("GET /game/{id}", game.Fetch)
	mux.HandleFunc("POST /game/{id}/reveal", game.Reveal)
	mux.HandleFunc("POST /game/{id}/hint", game.Hint)
	mux.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	mux.HandleFunc("POST /game/{id}/batch", game.Batch)
	mux.HandleFunc("GET /game/{id}/connect", game.Connect)
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)
	mux.HandleFunc("GET /me", auth.Me)

	handler := middleware.Wrap(mux,
		middleware.Cors(),
		middleware.Auth(log, cookies),
		middleware.Logging(log),
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, store
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func post(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := client.Post(url, "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(url, form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeSession(t *testing.T, resp *http.Response) GameSessionDTO {
	t.Helper()
	var dto GameSessionDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	return dto
}

// A board with mines at (2,2) and (2,3). Revealing (0,0) floods
// everything except the mines and (2,4), which has no zero neighbor.
const fixtureSnapshot = `width: 5
height: 5
mine_count: 2
phase: playing
content:
- "00000"
- "01110"
- "02*20"
- "02*20"
- "01110"
visibility:
- "....."
- "....."
- "....."
- "....."
- "....."
`

func fixtureSession(t *testing.T, store *memStore) string {
	t.Helper()
	game, err := mines.LoadSnapshot([]byte(fixtureSnapshot))
	require.NoError(t, err)
	session, err := store.CreateGameSession(context.Background(), nil, game)
	require.NoError(t, err)
	return strconv.FormatInt(session.GameSessionId, 10)
}
