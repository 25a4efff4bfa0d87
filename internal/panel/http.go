package panel

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

// liveReloadScript polls /version and reloads when the content changes.
const liveReloadScript = `<script>
(function(){var v=null;setInterval(function(){fetch("/version").then(function(r){return r.text()}).then(function(t){if(v===null){v=t}else if(t!==v){location.reload()}}).catch(function(){})},1000)})();
</script>
`

// HTTPPanel serves the current HTML on a loopback HTTP server and opens it in
// a browser on first navigation.
type HTTPPanel struct {
	addr     string
	browser  string
	flags    string
	autoOpen bool
	live     bool
	goos     string
	launch   Launcher
	log      *log.Logger

	mu       sync.Mutex
	html     string
	etag     string
	srv      *http.Server
	ln       net.Listener
	opened   bool
	loaded   bool
	disposed bool
	waiting  []func()
	pending  []func()
	wake     chan struct{}
	done     chan struct{}
}

type Option func(*HTTPPanel)

// WithAddr sets the listen address; the default picks a free loopback port.
func WithAddr(addr string) Option { return func(p *HTTPPanel) { p.addr = addr } }

// WithBrowser sets the browser command line used to open the panel.
func WithBrowser(cmd string) Option { return func(p *HTTPPanel) { p.browser = cmd } }

// WithBrowserArguments seeds the browser startup argument string.
func WithBrowserArguments(args string) Option { return func(p *HTTPPanel) { p.flags = args } }

// WithAutoOpen controls whether a browser is launched on first navigation.
func WithAutoOpen(open bool) Option { return func(p *HTTPPanel) { p.autoOpen = open } }

// WithLiveReload makes the page reload itself after a later navigation.
func WithLiveReload(live bool) Option { return func(p *HTTPPanel) { p.live = live } }

func WithLauncher(l Launcher) Option { return func(p *HTTPPanel) { p.launch = l } }

func WithLogger(l *log.Logger) Option { return func(p *HTTPPanel) { p.log = l } }

func NewHTTPPanel(opts ...Option) *HTTPPanel {
	p := &HTTPPanel{
		addr:     "127.0.0.1:0",
		autoOpen: true,
		goos:     defaultGOOS(),
		launch:   execLauncher,
		log:      log.New(io.Discard, "", 0),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// SetPreLaunchFlag appends flag to the browser startup arguments. It has no
// effect once the browser has been launched.
func (p *HTTPPanel) SetPreLaunchFlag(flag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opened {
		p.log.Printf("panel: ignoring flag %s after launch", flag)
		return
	}
	p.flags = strings.TrimSpace(p.flags + " " + flag)
}

// BrowserArguments returns the accumulated startup argument string.
func (p *HTTPPanel) BrowserArguments() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags
}

// Router returns the panel's http.Handler.
func (p *HTTPPanel) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/version", p.handleVersion)
	mux.HandleFunc("/", p.handleIndex)
	return mux
}

// NavigateToHTML replaces the displayed content. The first call starts the
// server and, unless disabled, launches the browser.
func (p *HTTPPanel) NavigateToHTML(html string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return ErrDisposed
	}
	if p.live {
		html += liveReloadScript
	}
	sum := blake3.Sum256([]byte(html))
	p.html = html
	p.etag = `"` + hex.EncodeToString(sum[:16]) + `"`

	if p.srv == nil {
		if err := p.start(); err != nil {
			return err
		}
	}
	if !p.autoOpen {
		p.markLoadedLocked()
		return nil
	}
	if !p.opened {
		name, args := browserCommand(p.goos, p.browser, p.flags, p.urlLocked())
		p.opened = true
		if err := p.launch(name, args...); err != nil {
			p.log.Printf("panel: open browser: %v (visit %s)", err, p.urlLocked())
		}
	}
	return nil
}

func (p *HTTPPanel) start() error {
	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return err
	}
	p.ln = ln
	p.srv = &http.Server{Handler: p.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.log.Printf("panel: serve: %v", err)
		}
	}()
	go p.dispatch()
	p.log.Printf("panel: serving %s", p.urlLocked())
	return nil
}

// AfterLoaded runs fn once content has been delivered; immediately (on the
// dispatcher) if that already happened.
func (p *HTTPPanel) AfterLoaded(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	if p.loaded {
		p.postLocked(fn)
		return
	}
	p.waiting = append(p.waiting, fn)
}

func (p *HTTPPanel) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.urlLocked()
}

func (p *HTTPPanel) urlLocked() string {
	if p.ln == nil {
		return ""
	}
	return "http://" + p.ln.Addr().String() + "/"
}

// Dispose stops the server. Calling it more than once is harmless.
func (p *HTTPPanel) Dispose() error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return nil
	}
	p.disposed = true
	srv := p.srv
	p.waiting = nil
	p.pending = nil
	close(p.done)
	p.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (p *HTTPPanel) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p.mu.Lock()
	html, etag := p.html, p.etag
	p.mu.Unlock()

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		p.markLoaded()
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, html); err != nil {
		p.log.Printf("panel: write response: %v", err)
		return
	}
	p.markLoaded()
}

func (p *HTTPPanel) handleVersion(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	etag := p.etag
	p.mu.Unlock()
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, etag)
}

func (p *HTTPPanel) markLoaded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markLoadedLocked()
}

func (p *HTTPPanel) markLoadedLocked() {
	if p.loaded || p.disposed {
		return
	}
	p.loaded = true
	for _, fn := range p.waiting {
		p.postLocked(fn)
	}
	p.waiting = nil
}

func (p *HTTPPanel) postLocked(fn func()) {
	p.pending = append(p.pending, fn)
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// dispatch runs queued callbacks in order on a single goroutine.
func (p *HTTPPanel) dispatch() {
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
			p.mu.Lock()
			fns := p.pending
			p.pending = nil
			p.mu.Unlock()
			for _, fn := range fns {
				fn()
			}
		}
	}
}
