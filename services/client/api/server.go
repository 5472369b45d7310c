// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package api exposes the client core over HTTP for the presentation
// shell: session and profile operations, the notification feed, the
// content catalog, a websocket event stream, and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/zidio-dev/inkpress/services/client/content"
	"github.com/zidio-dev/inkpress/services/client/events"
	"github.com/zidio-dev/inkpress/services/client/notify"
	"github.com/zidio-dev/inkpress/services/client/session"
)

// Config parameterizes the shell API server.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8470".
	Addr string

	// LoginRate and LoginBurst throttle the login endpoints.
	LoginRate  float64
	LoginBurst int

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Server wires the client core into a Gin router.
//
// Thread Safety: Safe for concurrent use once constructed.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	router  *gin.Engine
	session *session.Store
	notify  *notify.Store
	catalog *content.Catalog
	bus     *events.Bus
	limiter *rate.Limiter
}

// New constructs the server and registers all routes.
func New(cfg Config, sess *session.Store, feed *notify.Store,
	catalog *content.Catalog, bus *events.Bus) (*Server, error) {

	if sess == nil || feed == nil || catalog == nil || bus == nil {
		return nil, errors.New("api: nil dependency")
	}
	if cfg.Addr == "" {
		return nil, errors.New("api: empty listen address")
	}
	if cfg.LoginRate <= 0 {
		cfg.LoginRate = 1
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = 5
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger.With(slog.String("component", "api")),
		session: sess,
		notify:  feed,
		catalog: catalog,
		bus:     bus,
		limiter: rate.NewLimiter(rate.Limit(cfg.LoginRate), cfg.LoginBurst),
	}
	s.initRouter()
	return s, nil
}

// Router returns the underlying Gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// initRouter sets up the Gin router with all routes.
func (s *Server) initRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		sess := api.Group("/session")
		{
			sess.GET("", s.handleSession)
			sess.POST("/login", s.loginThrottle(), s.handleLogin)
			sess.POST("/oauth/:provider", s.loginThrottle(), s.handleOAuthLogin)
			sess.POST("/logout", s.handleLogout)
			sess.PATCH("/profile", s.handleUpdateProfile)
			sess.POST("/password", s.handleChangePassword)
		}

		notif := api.Group("/notifications")
		{
			notif.GET("", s.handleNotifications)
			notif.POST("", s.handleAddNotification)
			notif.POST("/read-all", s.handleMarkAllRead)
			notif.POST("/:id/read", s.handleMarkRead)
			notif.DELETE("/:id", s.handleDeleteNotification)
		}

		api.GET("/posts", s.handlePosts)
		api.POST("/posts", s.handleAddPost)
		api.GET("/posts/:id", s.handlePost)
		api.PATCH("/posts/:id", s.handleUpdatePost)
		api.GET("/posts/:id/comments", s.handleComments)
		api.POST("/posts/:id/comments", s.handleAddComment)
		api.GET("/categories", s.handleCategories)
		api.GET("/featured", s.handleFeatured)
		api.GET("/search", s.handleSearch)
		api.GET("/trending", s.handleTrending)

		api.GET("/events", s.handleEvents)
	}
}

// loginThrottle rejects login attempts beyond the configured rate with
// 429.
func (s *Server) loginThrottle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "too many login attempts, slow down"})
			return
		}
		c.Next()
	}
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails. Shutdown is graceful within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("shell api listening", slog.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down shell api")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
