package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikemajara/ai-chatbot/internal/conf"
	"github.com/mikemajara/ai-chatbot/internal/server/handlers"
	"github.com/mikemajara/ai-chatbot/internal/server/middleware"
	"github.com/mikemajara/ai-chatbot/internal/server/resp"
	"github.com/mikemajara/ai-chatbot/internal/server/router"
	"github.com/mikemajara/ai-chatbot/internal/utils/log"
)

var httpSrv http.Server

// New builds the engine serving the capability endpoints and /metrics.
func New(deps handlers.Deps, allowOrigins string) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorf("panic serving %s: %v", c.Request.URL.Path, recovered)
		resp.Error(c, http.StatusInternalServerError, resp.ErrInternalServer)
	}))

	if conf.IsDebug() {
		r.Use(middleware.Logger())
	}
	r.Use(middleware.Cors(allowOrigins))

	reg := router.NewRegistry()
	handlers.RegisterCapability(reg, deps)
	handlers.RegisterMetrics(reg)
	if err := reg.RegisterAll(r); err != nil {
		return nil, err
	}
	return r, nil
}

func Start(deps handlers.Deps) error {
	if conf.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := New(deps, conf.AppConfig.Cors.AllowOrigins)
	if err != nil {
		return err
	}

	httpSrv.Addr = fmt.Sprintf("%s:%d", conf.AppConfig.Server.Host, conf.AppConfig.Server.Port)
	httpSrv.Handler = r
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server listen and serve error: %v", err)
		}
	}()
	log.Infof("http server listening on %s", httpSrv.Addr)
	return nil
}

func Close() error {
	return httpSrv.Close()
}
