package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwannatoa/ooc-app-sub000/pkg/config"
	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
	"github.com/iwannatoa/ooc-app-sub000/pkg/handler"
	"github.com/iwannatoa/ooc-app-sub000/pkg/service"
	"github.com/iwannatoa/ooc-app-sub000/pkg/utils"
)

type Server struct {
	ginEngine *gin.Engine
	cfg       *config.AppConfig
	logger    *slog.Logger
	port      int
}

func NewServer() (*Server, error) {
	cfg, configFile, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("configuration loaded", "file", configFile)

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	// CORS middleware: allow common localhost dev origins only. The
	// backend is bound locally and has no auth layer of its own.
	ginEngine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" {
			allowed := strings.HasPrefix(origin, "http://localhost") ||
				strings.HasPrefix(origin, "http://127.0.0.1") ||
				strings.HasPrefix(origin, "https://localhost") ||
				strings.HasPrefix(origin, "https://127.0.0.1")

			if allowed {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			} else {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	server := &Server{
		ginEngine: ginEngine,
		cfg:       cfg,
		logger:    utils.GetLogger(),
	}

	if err := server.SetupRoutes(); err != nil {
		return nil, err
	}

	return server, nil
}

func (s *Server) SetupRoutes() error {
	dbPath, err := s.cfg.DatabasePath()
	if err != nil {
		return err
	}
	gdb, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}
	s.logger.Info("database ready", "path", dbPath)

	aiService := service.NewAIService(service.Timeouts{
		Ollama:   s.cfg.OllamaTimeout(),
		Deepseek: s.cfg.DeepseekTimeout(),
		OpenAI:   s.cfg.OpenAITimeout(),
	})

	conversationService := service.NewConversationService(gdb)
	chatService := service.NewChatService(gdb)
	characterService := service.NewCharacterService(gdb, nil)
	chatService.SetCharacterService(characterService)
	storyService := service.NewStoryService(gdb)
	configService := service.NewAIConfigService(gdb)
	summaryService := service.NewSummaryService(gdb, chatService, aiService, s.cfg.SummaryThreshold())
	orchestrationService := service.NewChatOrchestrationService(chatService, configService, aiService)
	generationService := service.NewStoryGenerationService(
		conversationService, chatService, storyService, summaryService,
		characterService, configService, aiService,
		service.GenerationConfig{
			SummaryThreshold:          s.cfg.SummaryThreshold(),
			MaxMessageHistory:         s.cfg.MaxMessageHistory(),
			RecentMessagesWithSummary: s.cfg.RecentMessagesWithSummary(),
			MaxContextTokens:          s.cfg.MaxContextTokens(),
		},
	)

	apiGroup := s.ginEngine.Group("/api")

	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.NewChatHandler(orchestrationService, chatService, conversationService).RegisterRoutes(apiGroup)
	handler.NewStoryHandler(generationService, storyService).RegisterRoutes(apiGroup)
	handler.NewSummaryHandler(summaryService, configService).RegisterRoutes(apiGroup)
	handler.NewSettingsHandler(conversationService, characterService).RegisterRoutes(apiGroup)
	handler.NewProviderHandler(configService).RegisterRoutes(apiGroup)

	return nil
}

func (s *Server) Start(ctx context.Context) error {
	port := s.cfg.Port()
	if v := os.Getenv("OOC_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			port = p
		} else {
			s.logger.Warn("invalid OOC_PORT value, falling back to config", "value", v)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host(), port)
	srv := &http.Server{Addr: addr, Handler: s.ginEngine}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	} else {
		s.port = port
	}
	s.logger.Info("server listening", "addr", addr)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	default:
	}
	return nil
}
