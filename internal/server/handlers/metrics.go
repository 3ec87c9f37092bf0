package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikemajara/ai-chatbot/internal/server/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterMetrics(reg *router.Registry) {
	reg.NewGroupRouter("").
		AddRoute(
			router.NewRoute("/metrics", http.MethodGet).
				Handle(gin.WrapH(promhttp.Handler())),
		)
}
