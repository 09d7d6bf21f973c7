package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/target/recipe-finder/internal/adapters/jwtcookie"
	"github.com/target/recipe-finder/internal/adapters/mealdb"
	"github.com/target/recipe-finder/internal/adapters/memory"
	domainauth "github.com/target/recipe-finder/internal/domain/auth"
	"github.com/target/recipe-finder/internal/domain/model"
	authmocks "github.com/target/recipe-finder/internal/mocks/auth"
	"github.com/target/recipe-finder/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeAccounts is a hand-written AccountService double.
type fakeAccounts struct {
	RegisterFunc     func(ctx context.Context, username, password string) (model.User, error)
	AuthenticateFunc func(ctx context.Context, username, password string) (model.User, error)
}

func (f *fakeAccounts) Register(ctx context.Context, username, password string) (model.User, error) {
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, username, password)
	}
	return model.User{Username: username}, nil
}

func (f *fakeAccounts) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	if f.AuthenticateFunc != nil {
		return f.AuthenticateFunc(ctx, username, password)
	}
	return model.User{Username: username}, nil
}

// fakeSessions keeps sessions in a map and uses the session ID as the cookie value.
type fakeSessions struct {
	mu         sync.Mutex
	sessions   map[string]domainauth.Session
	next       int
	rotateErr  error
	anonErr    error
	rotatedIDs []string
	loggedOut  []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]domainauth.Session)}
}

func (f *fakeSessions) add(username string) domainauth.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	s := domainauth.Session{
		ID:        fmt.Sprintf("sess-%d", f.next),
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.sessions[s.ID] = s
	return s
}

func (f *fakeSessions) Resolve(_ context.Context, token string) (domainauth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return domainauth.Session{}, service.ErrNoSession
	}
	return s, nil
}

func (f *fakeSessions) StartAnonymous(context.Context) (service.IssuedSession, error) {
	if f.anonErr != nil {
		return service.IssuedSession{}, f.anonErr
	}
	s := f.add("")
	return service.IssuedSession{Session: s, Token: s.ID}, nil
}

func (f *fakeSessions) Rotate(_ context.Context, previousID, username string) (service.IssuedSession, error) {
	if f.rotateErr != nil {
		return service.IssuedSession{}, f.rotateErr
	}
	f.mu.Lock()
	f.rotatedIDs = append(f.rotatedIDs, previousID)
	delete(f.sessions, previousID)
	f.mu.Unlock()
	s := f.add(username)
	return service.IssuedSession{Session: s, Token: s.ID}, nil
}

func (f *fakeSessions) Logout(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, id)
	delete(f.sessions, id)
	return nil
}

// fakeRecipes is a RecipeSearcher double that counts calls.
type fakeRecipes struct {
	SearchFunc func(ctx context.Context, ingredient string) (model.SearchResult, error)
	calls      atomic.Int64
}

func (f *fakeRecipes) Search(ctx context.Context, ingredient string) (model.SearchResult, error) {
	f.calls.Add(1)
	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, ingredient)
	}
	return model.SearchResult{Ingredient: ingredient, Recipes: []model.Recipe{}}, nil
}

// newTestUI returns handlers backed by the real templates and fresh fakes.
func newTestUI(t *testing.T) (*UIHandlers, *fakeAccounts, *fakeSessions, *fakeRecipes) {
	t.Helper()
	accounts := &fakeAccounts{}
	sessions := newFakeSessions()
	recipes := &fakeRecipes{}
	h := &UIHandlers{
		T:        RequireTemplateRenderer(t),
		Accounts: accounts,
		Sessions: sessions,
		Recipes:  recipes,
	}
	return h, accounts, sessions, recipes
}

// withSession attaches sess to the request context the way the Sessions middleware does.
func withSession(r *http.Request, sess domainauth.Session) *http.Request {
	return r.WithContext(SetSessionInContext(r.Context(), &sess))
}

func formRequest(method, target string, form url.Values) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// testStack runs the full router with in-memory stores against a stub recipe API.
type testStack struct {
	Server       *httptest.Server
	Client       *http.Client
	SessionStore *memory.SessionStore
	Codec        *jwtcookie.Codec
	upstreamHits atomic.Int64
}

type stackOptions struct {
	SaveUninitialized bool
	// Meals maps an ingredient to the upstream meals JSON array; others get an empty object.
	Meals map[string]string
}

func defaultMeals() map[string]string {
	return map[string]string{
		"chicken": `[{"idMeal":"52795","strMeal":"Chicken Handi","strMealThumb":"https://img.example/handi.jpg"},` +
			`{"idMeal":"52956","strMeal":"Chicken Congee","strMealThumb":"https://img.example/congee.jpg"}]`,
	}
}

func newTestStack(t *testing.T, opts stackOptions) *testStack {
	t.Helper()
	SkipIfNoTemplates(t)
	if opts.Meals == nil {
		opts.Meals = defaultMeals()
	}

	stack := &testStack{SessionStore: memory.NewSessionStore()}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stack.upstreamHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		meals, ok := opts.Meals[r.URL.Query().Get("i")]
		if !ok {
			_, _ = io.WriteString(w, `{}`)
			return
		}
		_, _ = io.WriteString(w, `{"meals":`+meals+`}`)
	}))
	t.Cleanup(upstream.Close)

	lookup, err := mealdb.NewClient(mealdb.Config{BaseURL: upstream.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	codec, err := jwtcookie.NewCodec([]byte(testSecret))
	require.NoError(t, err)
	stack.Codec = codec

	accounts := service.MustNewAccountService(service.AccountServiceOptions{
		Users:  memory.NewUserStore(),
		Hasher: authmocks.PlainHasher{},
	})
	sessions, err := service.NewSessionService(service.SessionServiceOptions{
		Store: stack.SessionStore,
		Codec: codec,
	})
	require.NoError(t, err)
	recipes, err := service.NewRecipeService(service.RecipeServiceOptions{Lookup: lookup})
	require.NoError(t, err)

	handler, err := NewRouter(RouterServices{
		Accounts:          accounts,
		Sessions:          sessions,
		Recipes:           recipes,
		SaveUninitialized: opts.SaveUninitialized,
		TemplateFS:        os.DirFS(TemplatePathFromTest),
		StaticFS:          os.DirFS("../../frontend/static"),
	})
	require.NoError(t, err)

	stack.Server = httptest.NewServer(handler)
	t.Cleanup(stack.Server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	stack.Client = &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return stack
}

// UpstreamHits reports how many requests reached the stub recipe API.
func (s *testStack) UpstreamHits() int64 { return s.upstreamHits.Load() }

func (s *testStack) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, s.Server.URL+path, nil)
	require.NoError(t, err)
	return s.do(t, req)
}

func (s *testStack) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.Server.URL+path,
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *testStack) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// sessionCookieValue returns the jar's session cookie for the stack, or "".
func (s *testStack) sessionCookieValue(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(s.Server.URL)
	require.NoError(t, err)
	for _, c := range s.Client.Jar.Cookies(u) {
		if c.Name == DefaultSessionCookieName {
			return c.Value
		}
	}
	return ""
}

func credentials(username, password string) url.Values {
	return url.Values{FieldUsername: {username}, FieldPassword: {password}}
}

func ingredientForm(ingredient string) url.Values {
	return url.Values{FieldIngredient: {ingredient}}
}
