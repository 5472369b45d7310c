package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zidio-dev/inkpress/pkg/validation"
	"github.com/zidio-dev/inkpress/services/client/content"
	"github.com/zidio-dev/inkpress/services/client/notify"
	"github.com/zidio-dev/inkpress/services/client/session"
)

// sessionResponse is the wire form of a session snapshot.
type sessionResponse struct {
	Authenticated bool              `json:"isAuthenticated"`
	Loading       bool              `json:"isLoading"`
	User          *session.Identity `json:"user"`
}

func toSessionResponse(snap session.Session) sessionResponse {
	return sessionResponse{
		Authenticated: snap.Authenticated,
		Loading:       snap.Loading,
		User:          snap.Identity,
	}
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionResponse(s.session.Snapshot()))
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds validation.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := validation.ValidateCredentials(creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !s.session.Login(c.Request.Context(), creds.Email, creds.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": s.session.Snapshot().Identity})
}

func (s *Server) handleOAuthLogin(c *gin.Context) {
	provider := session.Provider(c.Param("provider"))
	if !s.session.LoginWithProvider(c.Request.Context(), provider) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": s.session.Snapshot().Identity})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.session.Logout()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var patch session.IdentityPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	form := validation.ProfileUpdate{}
	if patch.Name != nil {
		form.Name = *patch.Name
	}
	if patch.Email != nil {
		form.Email = *patch.Email
	}
	if patch.Website != nil {
		form.Website = *patch.Website
	}
	if patch.Bio != nil {
		form.Bio = *patch.Bio
	}
	if err := validation.ValidateProfileUpdate(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch err := s.session.UpdateIdentity(patch); {
	case errors.Is(err, session.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
	case errors.Is(err, session.ErrEmptyPatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
	default:
		c.JSON(http.StatusOK, gin.H{"user": s.session.Snapshot().Identity})
	}
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var form validation.PasswordChange
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if err := validation.ValidatePasswordChange(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.session.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- notifications ---

func (s *Server) handleNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": s.notify.All(),
		"unreadCount":   s.notify.UnreadCount(),
	})
}

func (s *Server) handleAddNotification(c *gin.Context) {
	var in notify.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if in.Title == "" || in.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and message are required"})
		return
	}
	c.JSON(http.StatusCreated, s.notify.Add(in))
}

func (s *Server) handleMarkRead(c *gin.Context) {
	if !s.notify.MarkAsRead(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": s.notify.UnreadCount()})
}

func (s *Server) handleMarkAllRead(c *gin.Context) {
	s.notify.MarkAllAsRead()
	c.JSON(http.StatusOK, gin.H{"unreadCount": 0})
}

func (s *Server) handleDeleteNotification(c *gin.Context) {
	if !s.notify.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": s.notify.UnreadCount()})
}

// --- content ---

func (s *Server) handlePosts(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		c.JSON(http.StatusOK, s.catalog.ByCategory(category))
		return
	}
	c.JSON(http.StatusOK, s.catalog.Posts())
}

func (s *Server) handlePost(c *gin.Context) {
	p, ok := s.catalog.Post(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown post"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleAddPost(c *gin.Context) {
	if !s.session.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	var in content.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	if in.Title == "" || in.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}
	c.JSON(http.StatusCreated, s.catalog.AddPost(in))
}

func (s *Server) handleUpdatePost(c *gin.Context) {
	if !s.session.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	var patch content.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	p, ok := s.catalog.UpdatePost(c.Param("id"), patch)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown post"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleComments(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Comments(c.Param("id")))
}

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleAddComment(c *gin.Context) {
	snap := s.session.Snapshot()
	if !snap.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment content is required"})
		return
	}

	author := content.Author{
		Name:     snap.Identity.Name,
		Avatar:   snap.Identity.Avatar,
		Username: snap.Identity.GitHub,
	}
	cm, ok := s.catalog.AddComment(c.Param("id"), author, req.Content)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown post"})
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Categories())
}

func (s *Server) handleFeatured(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Featured())
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	results := s.catalog.Search(q)
	c.JSON(http.StatusOK, gin.H{"query": q, "results": results, "count": len(results)})
}

func (s *Server) handleTrending(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Trending())
}
