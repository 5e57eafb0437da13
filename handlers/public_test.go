package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/portfoliokit/portfolio/internal/mailer"
	"github.com/portfoliokit/portfolio/internal/messages"
	"github.com/portfoliokit/portfolio/internal/projects"
	"github.com/portfoliokit/portfolio/internal/settings"
	"github.com/portfoliokit/portfolio/internal/spamcheck"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSettingsRepo serves a single in-memory settings document.
type stubSettingsRepo struct {
	s *settings.Settings
}

func (r *stubSettingsRepo) Get(context.Context) (*settings.Settings, error) {
	if r.s == nil {
		r.s = settings.Defaults()
	}
	return r.s, nil
}

func (r *stubSettingsRepo) Save(_ context.Context, s *settings.Settings) error {
	r.s = s
	return nil
}

// alwaysSpam flags every submission.
type alwaysSpam struct{}

func (alwaysSpam) Check(context.Context, spamcheck.Comment) (bool, error) { return true, nil }

type publicEnv struct {
	router   *gin.Engine
	projects *projects.Service
	messages *messages.MemoryRepository
}

func newPublicEnv(t *testing.T, spam spamcheck.Checker) *publicEnv {
	t.Helper()
	projRepo := projects.NewMemoryRepository()
	projSvc := projects.NewService(projRepo)
	msgRepo := messages.NewMemoryRepository()
	cache := settings.NewCache(&stubSettingsRepo{}, time.Minute)

	r := gin.New()
	r.LoadHTMLGlob("../templates/*.html")
	NewPublicHandler(projSvc, cache, msgRepo, mailer.Noop{}, spam).Register(r)
	return &publicEnv{router: r, projects: projSvc, messages: msgRepo}
}

func (e *publicEnv) get(path string) *httptest.ResponseRecorder {
	rq := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, rq)
	return w
}

func (e *publicEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	rq := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	rq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, rq)
	return w
}

func TestHome_RendersSettingsAndFeatured(t *testing.T) {
	env := newPublicEnv(t, spamcheck.Disabled{})
	p := &projects.Project{Title: "Weather Station", Description: "ESP32 sensors", Featured: true}
	require.NoError(t, env.projects.Create(context.Background(), p))

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Hi, I build things for the web.")
	require.Contains(t, w.Body.String(), "Weather Station")
	require.Contains(t, w.Body.String(), "/projects/weather-station")
}

func TestProjectBySlug(t *testing.T) {
	env := newPublicEnv(t, spamcheck.Disabled{})
	p := &projects.Project{Title: "Chess Engine", Description: "Bitboards and alpha-beta"}
	require.NoError(t, env.projects.Create(context.Background(), p))

	w := env.get("/projects/chess-engine")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Chess Engine")
	require.Contains(t, w.Body.String(), "Bitboards and alpha-beta")
}

func TestProjectBySlug_NotFound(t *testing.T) {
	env := newPublicEnv(t, spamcheck.Disabled{})
	w := env.get("/projects/no-such-project")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactSubmit_StoresMessage(t *testing.T) {
	env := newPublicEnv(t, spamcheck.Disabled{})

	form := url.Values{}
	form.Set("name", "Ada")
	form.Set("email", "ada@example.com")
	form.Set("body", "Hi, love your work.")
	w := env.postForm("/contact", form)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "your message has been sent")

	list, err := env.messages.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ada", list[0].Name)
	require.False(t, list[0].Spam)
}

func TestContactSubmit_MissingFields(t *testing.T) {
	env := newPublicEnv(t, spamcheck.Disabled{})

	form := url.Values{}
	form.Set("name", "Ada")
	w := env.postForm("/contact", form)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "All fields are required.")

	list, err := env.messages.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestContactSubmit_SpamStoredFlagged(t *testing.T) {
	env := newPublicEnv(t, alwaysSpam{})

	form := url.Values{}
	form.Set("name", "v1agra")
	form.Set("email", "spam@example.com")
	form.Set("body", "buy now")
	w := env.postForm("/contact", form)

	// same thank-you page, nothing for the bot to learn from
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "your message has been sent")

	list, err := env.messages.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Spam)
}
