// Package web implements the Provisioning Portal: a single HTTP resource
// serving a status page with Wi-Fi/broker forms and a wipe action.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/meridian-iot/gatekeeper/internal/broker"
	"github.com/meridian-iot/gatekeeper/internal/config"
	"github.com/meridian-iot/gatekeeper/internal/netsup"
	"github.com/meridian-iot/gatekeeper/internal/status"
)

// Deps wires the portal to the rest of the system. Supervisor, Broker,
// and Restart may be nil in tests that don't exercise those paths.
type Deps struct {
	Store      config.Store
	Supervisor *netsup.Supervisor
	Broker     broker.Channel
	Tracker    *status.Tracker
	Restart    func()
}

// Server serves the provisioning portal over HTTP.
type Server struct {
	httpServer *http.Server
	deps       Deps
}

// New creates a Server bound to deps.
func New(addr string, deps Deps) *Server {
	s := &Server{deps: deps}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error { return s.httpServer.ListenAndServe() }

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error { return s.httpServer.Serve(ln) }

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error { return s.httpServer.Shutdown(ctx) }

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("wipe") == "1" {
			s.handleWipe(w, r)
			return
		}
		s.handleIndex(w, r)
	case http.MethodPost:
		s.handlePost(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Store.Load(r.Context())
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	var snap status.Snapshot
	if s.deps.Tracker != nil {
		snap = s.deps.Tracker.Snapshot()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderIndex(w, rec, snap)
}

// handlePost parses the POSTed form and dispatches on the "act" field.
// Bodies are capped at MaxBodyBytes; empty or oversized bodies are
// rejected with 400.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength <= 0 || r.ContentLength > MaxBodyBytes {
		http.Error(w, "body too long or empty", http.StatusBadRequest)
		return
	}
	body := make([]byte, r.ContentLength)
	if _, err := io.ReadFull(r.Body, body); err != nil {
		http.Error(w, "recv error", http.StatusInternalServerError)
		return
	}
	fields := parseForm(string(body))

	ctx := r.Context()
	switch fields["act"] {
	case "wifi":
		if err := s.applyWifi(ctx, fields); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	case "mqtt":
		if err := s.applyMQTT(ctx, fields); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	default:
		http.Error(w, "unknown act", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyWifi persists new Wi-Fi credentials and requests the Connectivity
// Supervisor to reconfigure, disconnect, reconnect, and re-arm the
// connect watchdog — keeping boot_mode PROVISIONING so a failed attempt
// falls back to the portal after the watchdog horizon.
func (s *Server) applyWifi(ctx context.Context, fields map[string]string) error {
	ssid := fields["ssid"]
	if ssid == "" {
		return errRequiredField("ssid")
	}
	pass := fields["pass"]

	rec, err := s.deps.Store.Load(ctx)
	if err != nil {
		return err
	}
	rec.WifiSSID, rec.WifiPass = ssid, pass
	rec.BootMode = config.BootProvisioning
	if err := s.deps.Store.Save(ctx, rec); err != nil {
		return err
	}
	if s.deps.Supervisor != nil {
		s.deps.Supervisor.Reconfigure(ssid, pass)
	}
	return nil
}

// applyMQTT overwrites whichever broker fields were supplied non-empty
// and restarts the Broker Channel. The restart fires on every submission
// even when nothing changed, so the form doubles as a force-reconnect.
func (s *Server) applyMQTT(ctx context.Context, fields map[string]string) error {
	rec, err := s.deps.Store.Load(ctx)
	if err != nil {
		return err
	}
	if v := fields["broker"]; v != "" {
		rec.BrokerURI = v
	}
	if v := fields["t1"]; v != "" {
		rec.TopicCmd = v
	}
	if v := fields["t2"]; v != "" {
		rec.TopicStat = v
	}
	if v := fields["t3"]; v != "" {
		rec.TopicTele = v
	}
	if err := s.deps.Store.Save(ctx, rec); err != nil {
		return err
	}
	if s.deps.Broker != nil {
		return s.deps.Broker.Restart(rec)
	}
	return nil
}

// handleWipe erases all stored credentials and broker configuration,
// forces boot_mode PROVISIONING, responds with a confirmation page, and
// reboots the process after ~250ms.
func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Store.Wipe(r.Context()); err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, wipeConfirmationHTML)

	if s.deps.Restart != nil {
		go func() {
			time.Sleep(250 * time.Millisecond)
			s.deps.Restart()
		}()
	}
}

type errRequiredField string

func (e errRequiredField) Error() string { return string(e) + " is required" }
