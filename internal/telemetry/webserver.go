package telemetry

import (
	"context"
	"log"
	"net/http"
	"time"
)

const indexPage = `<!doctype html>
<html><head><title>HS900 monitor</title></head>
<body>
<h1>HS900 monitor</h1>
<pre id="log"></pre>
<script>
const log = document.getElementById("log");
const es = new EventSource("/api/live");
es.onmessage = (e) => {
  const s = JSON.parse(e.data);
  log.textContent += s.timestamp + " " + s.channel + " " + s.tempC + "C " +
    s.refSource + " " + s.refMHz + "MHz " + s.pll + "\n";
};
</script>
</body></html>
`

// WebServer exposes monitor history and live updates over HTTP.
type WebServer struct {
	srv *http.Server
	hub *Hub
}

// NewWebServer builds an HTTP server serving the history, live and config
// endpoints plus a minimal inline status page.
func NewWebServer(addr string, hub *Hub) *WebServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/history", hub.handleHistory)
	mux.HandleFunc("/api/live", hub.handleLive)
	mux.HandleFunc("/api/config", hub.handleGetConfig)
	mux.HandleFunc("/api/config/update", hub.handleSetConfig)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexPage))
	})

	return &WebServer{
		hub: hub,
		srv: &http.Server{Addr: addr, Handler: mux},
	}
}

// Start begins listening and shuts down when the context is canceled.
func (w *WebServer) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := w.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("monitor web shutdown: %v", err)
		}
	}()

	if err := w.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("monitor web server error: %v", err)
	}
}
