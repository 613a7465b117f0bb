package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Gvirgo2/touropia/config"
	"github.com/Gvirgo2/touropia/internal/auth"
)

// Registrar mounts a handler group onto the API router.
type Registrar interface {
	Register(router *gin.RouterGroup)
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, handlers ...Registrar) error {
	router := newRouter(cfg, handlers...)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, handlers ...Registrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware(cfg.Auth.Secret))
	for _, h := range handlers {
		h.Register(v1)
	}

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
