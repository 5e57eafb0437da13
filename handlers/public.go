package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/portfoliokit/portfolio/internal/mailer"
	"github.com/portfoliokit/portfolio/internal/messages"
	"github.com/portfoliokit/portfolio/internal/projects"
	"github.com/portfoliokit/portfolio/internal/settings"
	"github.com/portfoliokit/portfolio/internal/spamcheck"
	"github.com/portfoliokit/portfolio/pkg/logger"
	"github.com/portfoliokit/portfolio/pkg/metrics"
)

// PublicHandler serves the visitor-facing pages.
type PublicHandler struct {
	projectsSvc  *projects.Service
	settingsCch  *settings.Cache
	messagesRepo messages.Repository
	mail         mailer.Mailer
	spam         spamcheck.Checker
}

func NewPublicHandler(p *projects.Service, s *settings.Cache, m messages.Repository, ml mailer.Mailer, sp spamcheck.Checker) *PublicHandler {
	return &PublicHandler{projectsSvc: p, settingsCch: s, messagesRepo: m, mail: ml, spam: sp}
}

// Register routes on the engine root
func (h *PublicHandler) Register(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/about", h.About)
	r.GET("/projects", h.Projects)
	r.GET("/projects/:slug", h.ProjectBySlug)
	r.GET("/skills", h.Skills)
	r.GET("/contact", h.ContactForm)
	r.POST("/contact", h.ContactSubmit)
}

func (h *PublicHandler) Home(c *gin.Context) {
	s := h.settingsCch.Get(c.Request.Context())
	featured, err := h.projectsSvc.ListFeatured(c.Request.Context(), 3)
	if err != nil {
		logger.Errorf("home: list featured projects: %v", err)
		featured = nil
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"settings": s,
		"featured": featured,
	})
}

func (h *PublicHandler) About(c *gin.Context) {
	s := h.settingsCch.Get(c.Request.Context())
	c.HTML(http.StatusOK, "about.html", gin.H{"settings": s})
}

func (h *PublicHandler) Projects(c *gin.Context) {
	s := h.settingsCch.Get(c.Request.Context())
	list, err := h.projectsSvc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("projects page: list: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"settings": s})
		return
	}
	c.HTML(http.StatusOK, "projects.html", gin.H{
		"settings": s,
		"projects": list,
	})
}

func (h *PublicHandler) ProjectBySlug(c *gin.Context) {
	s := h.settingsCch.Get(c.Request.Context())
	p, err := h.projectsSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err == projects.ErrNotFound {
		c.HTML(http.StatusNotFound, "404.html", gin.H{"settings": s})
		return
	}
	if err != nil {
		logger.Errorf("project page: get by slug: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"settings": s})
		return
	}
	c.HTML(http.StatusOK, "project.html", gin.H{
		"settings": s,
		"project":  p,
	})
}

func (h *PublicHandler) Skills(c *gin.Context) {
	s := h.settingsCch.Get(c.Request.Context())
	c.HTML(http.StatusOK, "skills.html", gin.H{
		"settings": s,
		"skills":   s.Skills,
	})
}

func (h *PublicHandler) ContactForm(c *gin.Context) {
	s := h.settingsCch.Get(c.Request.Context())
	c.HTML(http.StatusOK, "contact.html", gin.H{"settings": s})
}

// ContactSubmit validates the form, runs the spam check (fail-open), stores
// the message, and relays a notification email. A spam verdict stores the
// message flagged but shows the same thank-you page, so bots learn nothing.
func (h *PublicHandler) ContactSubmit(c *gin.Context) {
	s := h.settingsCch.Get(c.Request.Context())
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	body := strings.TrimSpace(c.PostForm("body"))
	if name == "" || email == "" || body == "" {
		c.HTML(http.StatusBadRequest, "contact.html", gin.H{
			"settings": s,
			"error":    "All fields are required.",
			"name":     name,
			"email":    email,
			"body":     body,
		})
		return
	}

	isSpam, err := h.spam.Check(c.Request.Context(), spamcheck.Comment{
		AuthorName:  name,
		AuthorEmail: email,
		Content:     body,
		UserAgent:   c.Request.UserAgent(),
		UserIP:      c.ClientIP(),
	})
	if err != nil {
		logger.Warnf("contact: spam check unavailable, storing unverified: %v", err)
		isSpam = false
	}
	verdict := "ham"
	if isSpam {
		verdict = "spam"
	}
	metrics.ContactMessages.WithLabelValues(verdict).Inc()

	msg := &messages.Message{Name: name, Email: email, Body: body, Spam: isSpam}
	if err := h.messagesRepo.Create(c.Request.Context(), msg); err != nil {
		logger.Errorf("contact: store message: %v", err)
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{"settings": s})
		return
	}

	if !isSpam {
		subject := fmt.Sprintf("New contact message from %s", name)
		mailBody := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, body)
		if err := h.mail.Send(c.Request.Context(), subject, mailBody); err != nil {
			// the message is already stored, a relay failure is not fatal
			logger.Errorf("contact: notification email: %v", err)
		}
	}

	c.HTML(http.StatusOK, "contact.html", gin.H{
		"settings": s,
		"sent":     true,
	})
}
