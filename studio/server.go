// Package studio serves the schema editor over HTTP. A Server owns exactly one
// Schema; every request runs to completion under the server lock before the
// next one observes the model, and every mutation answers with the refreshed
// SQL text.
package studio

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/ridoystarlord/visusql/generator"
	"github.com/ridoystarlord/visusql/schema"
)

// Config tunes a Server.
type Config struct {
	AllowedOrigins []string         // "*" allows any origin
	AccessLog      bool             // gin request logging
	Now            func() time.Time // export timestamps, defaults to time.Now
}

type Server struct {
	mu     sync.Mutex
	schema *schema.Schema
	cfg    Config
}

// NewServer wraps s. The caller hands over ownership of s.
func NewServer(s *schema.Schema, cfg Config) *Server {
	if s == nil {
		s = schema.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Server{schema: s, cfg: cfg}
}

// Router builds the gin engine with every studio route registered. Request
// bodies carrying fields outside the target struct are rejected.
func (s *Server) Router() *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	if s.cfg.AccessLog {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := router.Group("/api")
	{
		api.GET("/schema", s.getSchema)
		api.POST("/reset", s.reset)

		api.POST("/tables", s.createTable)
		api.PUT("/tables/:id", s.updateTable)
		api.DELETE("/tables/:id", s.deleteTable)

		api.POST("/tables/:id/columns", s.addColumn)
		api.PATCH("/tables/:id/columns/:columnId", s.updateColumn)
		api.DELETE("/tables/:id/columns/:columnId", s.deleteColumn)

		api.POST("/relationships", s.connect)
		api.DELETE("/relationships/:id", s.disconnect)

		api.GET("/sql", s.getSQL)
		api.GET("/export/sql", s.exportSQL)
		api.GET("/export/json", s.exportJSON)
		api.GET("/docs/mermaid", s.getMermaid)
		api.GET("/validate", s.validate)
	}

	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.ExposeHeaders = []string{"Content-Disposition"}

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// withSchema runs fn while holding the server lock.
func (s *Server) withSchema(fn func(*schema.Schema)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.schema)
}

// sqlOf must be called with the lock held.
func sqlOf(sc *schema.Schema) string {
	return generator.GenerateSQL(sc.Tables())
}

