package metricsController

import (
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Controller {
	return &Controller{metrics: m}
}

func (c *Controller) RegisterRoutes(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(c.metrics.Handler()))
}
