package web

import (
	"fmt"
	"net/http"

	"github.com/Sternrassler/swapi-browser/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Route is one entry of the routing table.
type Route struct {
	Method  string
	Path    string
	Name    string
	Handler gin.HandlerFunc
}

// Routes returns the routing table. Anything not listed here redirects to "/".
func (s *Server) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/", Name: "home", Handler: s.homePage},
		{Method: http.MethodGet, Path: "/healthz", Name: "health", Handler: healthHandler},
		{Method: http.MethodGet, Path: "/metrics", Name: "metrics", Handler: gin.WrapH(metrics.Handler())},
	}
}

// setupRoutes registers the routing table on the router.
func (s *Server) setupRoutes() error {
	for _, r := range s.Routes() {
		switch r.Method {
		case http.MethodGet:
			s.Router.GET(r.Path, r.Handler)
		default:
			return fmt.Errorf("route %s: unsupported method %s", r.Name, r.Method)
		}
	}

	s.Router.StaticFS("/static", staticFiles())
	s.Router.NoRoute(redirectHome)
	return nil
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// redirectHome sends unmatched paths to the home view.
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}
