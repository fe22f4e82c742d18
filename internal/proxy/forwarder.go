// Package proxy is the boundary to the routing/load-balancing chain the
// admission layer delegates to. Route resolution here is a static prefix
// table; dynamic discovery and balancing live behind this interface.
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/Ak47-369/bookticket-api-gateway/pkg/config"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"

	"github.com/labstack/echo/v4"
)

var (
	noRouteBody  = []byte(`{"error":"Not Found","message":"No route matches the request path."}`)
	upstreamBody = []byte(`{"error":"Bad Gateway","message":"Upstream service is unavailable."}`)
)

// Forwarder hands an admitted request to its upstream.
type Forwarder interface {
	Forward(c echo.Context) error
}

type route struct {
	prefix string
	proxy  *httputil.ReverseProxy
}

// StaticForwarder proxies by longest matching path prefix from a fixed
// route table.
type StaticForwarder struct {
	routes []route
	logger *applogger.Logger
}

// NewStaticForwarder builds the route table. Longer prefixes win.
func NewStaticForwarder(routes []config.Route, l *applogger.Logger) (*StaticForwarder, error) {
	f := &StaticForwarder{logger: l}

	for _, r := range routes {
		target, err := url.Parse(r.Target)
		if err != nil {
			return nil, fmt.Errorf("route %s: parse target: %w", r.Prefix, err)
		}

		rp := httputil.NewSingleHostReverseProxy(target)
		rp.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			if l != nil {
				l.Error("upstream request failed",
					applogger.String("path", req.URL.Path),
					applogger.Error(err),
				)
			}
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write(upstreamBody)
		}

		f.routes = append(f.routes, route{prefix: r.Prefix, proxy: rp})
	}

	sort.Slice(f.routes, func(i, j int) bool {
		return len(f.routes[i].prefix) > len(f.routes[j].prefix)
	})

	return f, nil
}

// Forward proxies the request to the matching upstream, or responds 404
// when no route matches.
func (f *StaticForwarder) Forward(c echo.Context) error {
	path := c.Request().URL.Path
	for _, r := range f.routes {
		if strings.HasPrefix(path, r.prefix) {
			r.proxy.ServeHTTP(c.Response(), c.Request())
			return nil
		}
	}

	if f.logger != nil {
		f.logger.Debug("no route for path", applogger.String("path", path))
	}
	return c.JSONBlob(http.StatusNotFound, noRouteBody)
}
