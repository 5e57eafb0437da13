package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portfoliokit/portfolio/internal/admins"
	"github.com/portfoliokit/portfolio/internal/config"
	"github.com/portfoliokit/portfolio/internal/messages"
	"github.com/portfoliokit/portfolio/internal/projects"
	"github.com/portfoliokit/portfolio/internal/sessions"
	"github.com/portfoliokit/portfolio/internal/settings"
	"github.com/portfoliokit/portfolio/internal/storage"
	"github.com/portfoliokit/portfolio/pkg/logger"
	"github.com/portfoliokit/portfolio/pkg/middleware"
)

// AdminHandler serves the session-gated admin panel.
type AdminHandler struct {
	cfg          *config.Config
	projectsSvc  *projects.Service
	settingsRepo settings.Repository
	settingsCch  *settings.Cache
	messagesRepo messages.Repository
	adminsSvc    *admins.Service
	sessionsSvc  *sessions.Service
	images       *storage.ImageStorage // nil when object storage is not configured
}

func NewAdminHandler(cfg *config.Config, p *projects.Service, sr settings.Repository, sc *settings.Cache,
	mr messages.Repository, a *admins.Service, ss *sessions.Service, img *storage.ImageStorage) *AdminHandler {
	return &AdminHandler{
		cfg:          cfg,
		projectsSvc:  p,
		settingsRepo: sr,
		settingsCch:  sc,
		messagesRepo: mr,
		adminsSvc:    a,
		sessionsSvc:  ss,
		images:       img,
	}
}

// Register routes under /admin. SessionAuth must already be installed on the
// engine; the gated group adds RequireAdmin and CSRF on top.
func (h *AdminHandler) Register(r *gin.Engine) {
	r.GET("/admin/login", h.LoginForm)
	r.POST("/admin/login", h.Login)

	g := r.Group("/admin",
		middleware.RequireAdmin("/admin/login"),
		middleware.CSRF(h.cfg.Session.CSRFSecret),
	)
	g.GET("", h.Dashboard)
	g.POST("/logout", h.Logout)
	g.GET("/projects", h.ProjectList)
	g.POST("/projects", h.ProjectCreate)
	g.GET("/projects/:id/edit", h.ProjectEditForm)
	g.POST("/projects/:id", h.ProjectUpdate)
	g.POST("/projects/:id/delete", h.ProjectDelete)
	g.POST("/projects/:id/image", h.ProjectImageUpload)
	g.GET("/messages", h.MessageList)
	g.POST("/messages/:id/read", h.MessageMarkRead)
	g.POST("/messages/:id/delete", h.MessageDelete)
	g.GET("/settings", h.SettingsForm)
	g.POST("/settings", h.SettingsSave)
}

// csrf returns the form token bound to the current session.
func (h *AdminHandler) csrf(c *gin.Context) string {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return ""
	}
	return middleware.CSRFToken(h.cfg.Session.CSRFSecret, sess.Token)
}

func (h *AdminHandler) LoginForm(c *gin.Context) {
	if middleware.SessionFrom(c) != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

func (h *AdminHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	admin, err := h.adminsSvc.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		logger.Errorf("admin login: %v", err)
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{"error": "Login temporarily unavailable"})
		return
	}
	if admin == nil {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{"error": "Invalid username or password"})
		return
	}
	tok, err := h.sessionsSvc.CreateSession(c.Request.Context(), admin.ID.Hex(), h.cfg.Session.TTL)
	if err != nil {
		logger.Errorf("admin login: create session: %v", err)
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{"error": "Login temporarily unavailable"})
		return
	}
	c.SetCookie(h.cfg.Session.CookieName, tok, int(h.cfg.Session.TTL.Seconds()), "/", "", h.cfg.Session.Secure, true)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) Logout(c *gin.Context) {
	if sess := middleware.SessionFrom(c); sess != nil {
		if err := h.sessionsSvc.Delete(c.Request.Context(), sess.Token); err != nil {
			logger.Warnf("admin logout: delete session: %v", err)
		}
	}
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.Secure, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	projectCount, err := h.projectsSvc.Count(ctx)
	if err != nil {
		logger.Errorf("dashboard: project count: %v", err)
	}
	unread, err := h.messagesRepo.CountUnread(ctx)
	if err != nil {
		logger.Errorf("dashboard: unread count: %v", err)
	}
	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"projectCount": projectCount,
		"unread":       unread,
		"csrf":         h.csrf(c),
	})
}

func (h *AdminHandler) ProjectList(c *gin.Context) {
	list, err := h.projectsSvc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("admin projects: list: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "admin_projects.html", gin.H{
		"projects": list,
		"csrf":     h.csrf(c),
	})
}

// projectFromForm fills p from the submitted form fields.
func projectFromForm(c *gin.Context, p *projects.Project) {
	p.Title = strings.TrimSpace(c.PostForm("title"))
	p.Description = strings.TrimSpace(c.PostForm("description"))
	p.GithubURL = strings.TrimSpace(c.PostForm("githubUrl"))
	p.DemoURL = strings.TrimSpace(c.PostForm("demoUrl"))
	p.Featured = c.PostForm("featured") != ""
	p.Year = strings.TrimSpace(c.PostForm("year"))
	p.Tech = nil
	for _, t := range strings.Split(c.PostForm("tech"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			p.Tech = append(p.Tech, t)
		}
	}
}

func (h *AdminHandler) ProjectCreate(c *gin.Context) {
	var p projects.Project
	projectFromForm(c, &p)
	if p.Title == "" || p.Description == "" {
		c.HTML(http.StatusBadRequest, "admin_projects.html", gin.H{
			"error": "Title and description are required",
			"csrf":  h.csrf(c),
		})
		return
	}
	if err := h.projectsSvc.Create(c.Request.Context(), &p); err != nil {
		logger.Errorf("admin projects: create: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.Redirect(http.StatusFound, "/admin/projects")
}

func (h *AdminHandler) ProjectEditForm(c *gin.Context) {
	p := h.loadProject(c)
	if p == nil {
		return
	}
	c.HTML(http.StatusOK, "admin_project_edit.html", gin.H{
		"project": p,
		"csrf":    h.csrf(c),
	})
}

func (h *AdminHandler) ProjectUpdate(c *gin.Context) {
	p := h.loadProject(c)
	if p == nil {
		return
	}
	projectFromForm(c, p)
	if p.Title == "" || p.Description == "" {
		c.HTML(http.StatusBadRequest, "admin_project_edit.html", gin.H{
			"project": p,
			"error":   "Title and description are required",
			"csrf":    h.csrf(c),
		})
		return
	}
	if err := h.projectsSvc.Update(c.Request.Context(), p); err != nil {
		logger.Errorf("admin projects: update %s: %v", p.ID.Hex(), err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.Redirect(http.StatusFound, "/admin/projects")
}

func (h *AdminHandler) ProjectDelete(c *gin.Context) {
	p := h.loadProject(c)
	if p == nil {
		return
	}
	if err := h.projectsSvc.Delete(c.Request.Context(), p.ID); err != nil {
		logger.Errorf("admin projects: delete %s: %v", p.ID.Hex(), err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	if h.images != nil && p.ImagePublicID != "" {
		if err := h.images.Remove(c.Request.Context(), p.ImagePublicID); err != nil {
			// the record is gone, an orphaned object is only a cleanup concern
			logger.Warnf("admin projects: remove image %s: %v", p.ImagePublicID, err)
		}
	}
	c.Redirect(http.StatusFound, "/admin/projects")
}

func (h *AdminHandler) ProjectImageUpload(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}
	p := h.loadProject(c)
	if p == nil {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, key, err := h.images.Upload(c.Request.Context(), filepath.Base(fh.Filename), f, fh.Size, contentType)
	if err != nil {
		logger.Errorf("admin projects: upload image for %s: %v", p.ID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	oldKey := p.ImagePublicID
	p.ImageURL = url
	p.ImagePublicID = key
	if err := h.projectsSvc.Update(c.Request.Context(), p); err != nil {
		logger.Errorf("admin projects: persist image for %s: %v", p.ID.Hex(), err)
		_ = h.images.Remove(c.Request.Context(), key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	if oldKey != "" {
		if err := h.images.Remove(c.Request.Context(), oldKey); err != nil {
			logger.Warnf("admin projects: remove replaced image %s: %v", oldKey, err)
		}
	}
	c.Redirect(http.StatusFound, "/admin/projects/"+p.ID.Hex()+"/edit")
}

// loadProject resolves the :id parameter. On failure it writes the response
// and returns nil.
func (h *AdminHandler) loadProject(c *gin.Context) *projects.Project {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return nil
	}
	p, err := h.projectsSvc.GetByID(c.Request.Context(), id)
	if err == projects.ErrNotFound {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return nil
	}
	if err != nil {
		logger.Errorf("admin projects: load %s: %v", id.Hex(), err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return nil
	}
	return p
}

func (h *AdminHandler) MessageList(c *gin.Context) {
	list, err := h.messagesRepo.List(c.Request.Context())
	if err != nil {
		logger.Errorf("admin messages: list: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "admin_messages.html", gin.H{
		"messages": list,
		"csrf":     h.csrf(c),
	})
}

func (h *AdminHandler) MessageMarkRead(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	if err := h.messagesRepo.MarkRead(c.Request.Context(), id); err != nil {
		logger.Errorf("admin messages: mark read %s: %v", id.Hex(), err)
	}
	c.Redirect(http.StatusFound, "/admin/messages")
}

func (h *AdminHandler) MessageDelete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	if err := h.messagesRepo.Delete(c.Request.Context(), id); err != nil {
		logger.Errorf("admin messages: delete %s: %v", id.Hex(), err)
	}
	c.Redirect(http.StatusFound, "/admin/messages")
}

func (h *AdminHandler) SettingsForm(c *gin.Context) {
	s, err := h.settingsRepo.Get(c.Request.Context())
	if err != nil {
		logger.Errorf("admin settings: load: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "admin_settings.html", gin.H{
		"settings": s,
		"csrf":     h.csrf(c),
	})
}

// SettingsSave persists the profile form and drops the read cache so public
// pages pick the change up immediately instead of after the freshness window.
func (h *AdminHandler) SettingsSave(c *gin.Context) {
	s, err := h.settingsRepo.Get(c.Request.Context())
	if err != nil {
		logger.Errorf("admin settings: load before save: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	settingsFromForm(c, s)
	if err := h.settingsRepo.Save(c.Request.Context(), s); err != nil {
		logger.Errorf("admin settings: save: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	h.settingsCch.Invalidate()
	c.Redirect(http.StatusFound, "/admin/settings")
}

func settingsFromForm(c *gin.Context, s *settings.Settings) {
	s.Name = strings.TrimSpace(c.PostForm("name"))
	s.Headline = strings.TrimSpace(c.PostForm("headline"))
	s.Summary = strings.TrimSpace(c.PostForm("summary"))
	s.AvatarURL = strings.TrimSpace(c.PostForm("avatarUrl"))
	s.GithubURL = strings.TrimSpace(c.PostForm("githubUrl"))
	s.LinkedinURL = strings.TrimSpace(c.PostForm("linkedinUrl"))
	s.TwitterURL = strings.TrimSpace(c.PostForm("twitterUrl"))
	s.ContactEmail = strings.TrimSpace(c.PostForm("contactEmail"))
	s.HeroTitle = strings.TrimSpace(c.PostForm("heroTitle"))
	s.HeroSubtitle = strings.TrimSpace(c.PostForm("heroSubtitle"))
	s.CTAText = strings.TrimSpace(c.PostForm("ctaText"))
	s.Notes = c.PostForm("notes")
	s.Skills = parseSkills(c.PostForm("skills"))
	s.Timeline = parseTimeline(c.PostForm("timeline"))
	s.Testimonials = parseTestimonials(c.PostForm("testimonials"))
}

// parseSkills reads one skill per line, "Name | Level".
func parseSkills(raw string) []settings.SkillEntry {
	out := []settings.SkillEntry{}
	for _, line := range strings.Split(raw, "\n") {
		fields := splitFields(line, 2)
		if fields == nil {
			continue
		}
		out = append(out, settings.SkillEntry{Name: fields[0], Level: fields[1]})
	}
	return out
}

// parseTimeline reads one entry per line, "Title | Company | Start | End | Description".
func parseTimeline(raw string) []settings.TimelineEntry {
	out := []settings.TimelineEntry{}
	for _, line := range strings.Split(raw, "\n") {
		fields := splitFields(line, 5)
		if fields == nil {
			continue
		}
		out = append(out, settings.TimelineEntry{
			Title:       fields[0],
			Company:     fields[1],
			Start:       fields[2],
			End:         fields[3],
			Description: fields[4],
		})
	}
	return out
}

// parseTestimonials reads one entry per line, "Author | Role | Quote".
func parseTestimonials(raw string) []settings.Testimonial {
	out := []settings.Testimonial{}
	for _, line := range strings.Split(raw, "\n") {
		fields := splitFields(line, 3)
		if fields == nil {
			continue
		}
		out = append(out, settings.Testimonial{Author: fields[0], Role: fields[1], Quote: fields[2]})
	}
	return out
}

// splitFields splits a "a | b | c" line into exactly n trimmed fields,
// padding missing trailing ones. Blank lines yield nil.
func splitFields(line string, n int) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	parts := strings.Split(line, "|")
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(parts) {
			out[i] = strings.TrimSpace(parts[i])
		}
	}
	if out[0] == "" {
		return nil
	}
	return out
}
