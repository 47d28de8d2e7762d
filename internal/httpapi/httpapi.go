// Package httpapi exposes the debug snapshot, health check, and version
// query over HTTP. Grounded on the teacher's router setup
// (internal/adapters/http/router.go): gin.New() plus gin.Recovery(), a
// conditional debug logger, and a route group — generalized here to the
// core's read-only debug surface rather than the signalling WS endpoint.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/voicebridge/internal/debugsnapshot"
	"github.com/dkeye/voicebridge/internal/signalling"
	"github.com/dkeye/voicebridge/internal/version"
)

// HealthChecker is the narrow capability /health dispatches into. Satisfied
// by *bridge.Bridge; kept as an interface here so this package doesn't
// import bridge.
type HealthChecker interface {
	HealthCheck() signalling.HealthCheckReply
}

// requestIDMiddleware stamps every request with a correlation id, generated
// fresh per request since the debug surface has no client session to read
// one back from.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// NewRouter builds the gin engine serving /debug, /debug/:id, /health, and
// /version. mode controls gin's own mode ("release" silences gin's
// default debug warnings) and whether the request logger middleware is
// attached.
func NewRouter(mode string, builder *debugsnapshot.Builder, health HealthChecker) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())

	r.GET("/health", func(c *gin.Context) {
		handleHealthCheck(c, health)
	})
	r.GET("/version", handleVersion)

	debug := r.Group("/debug")
	debug.GET("", func(c *gin.Context) {
		handleDebug(c, builder, "")
	})
	debug.GET("/:id", func(c *gin.Context) {
		handleDebug(c, builder, c.Param("id"))
	})

	log.Info().Str("module", "httpapi").Msg("router setup")
	return r
}

func handleDebug(c *gin.Context, builder *debugsnapshot.Builder, conferenceID string) {
	endpointID := c.Query("endpoint")
	log.Debug().Str("request_id", c.GetString("request_id")).Str("conference_id", conferenceID).Msg("debug snapshot requested")
	snapshot := builder.Snapshot(conferenceID, endpointID)
	c.JSON(http.StatusOK, snapshot)
}

// handleHealthCheck reports success unless the injected HealthChecker
// recovered from a dispatcher-level panic, in which case it answers
// internal_server_error with the panic's message.
func handleHealthCheck(c *gin.Context, health HealthChecker) {
	reply := health.HealthCheck()
	if !reply.OK {
		c.JSON(http.StatusInternalServerError, gin.H{
			"result":    "error",
			"condition": "internal_server_error",
			"text":      reply.Error,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

func handleVersion(c *gin.Context) {
	info := version.Current()
	c.JSON(http.StatusOK, gin.H{
		"name":    info.Name,
		"version": info.Version,
		"os":      info.OS,
	})
}
