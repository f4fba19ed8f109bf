package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Config holds browser configuration.
type Config struct {
	// DebuggerURL attaches to an already-running Chrome instead of
	// launching one. Useful for reusing a logged-in profile.
	DebuggerURL string
	// Bin overrides the Chrome binary path.
	Bin string
	// ExtraFlags are additional Chrome switches in "--name=value" form.
	ExtraFlags []string
	// Headless disables the visible window. Paste-based entry relies on
	// the host clipboard, which is most reliable with a headful browser.
	Headless            bool
	ViewportWidth       int
	ViewportHeight      int
	NavigationTimeoutMs int
}

// defaultLaunchFlags keep the target application from flagging the
// session as automated and stabilize Chrome in containers.
var defaultLaunchFlags = []string{
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-blink-features=AutomationControlled",
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            false,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
	}
}

// IsHeadless returns the headless setting.
func (c Config) IsHeadless() bool {
	return c.Headless
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// NavigationTimeout bounds navigations and individual element operations.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Manager owns the Chrome process and the single tab the wizard works in.
type Manager struct {
	cfg Config
	log *zap.Logger

	mu         sync.Mutex
	browser    *rod.Browser
	page       *rod.Page
	controlURL string
}

// NewManager creates a manager. It does not touch the browser until Start.
func NewManager(cfg Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{cfg: cfg, log: log}
}

// Start connects to an existing Chrome or launches a new one, then opens
// the working tab. Calling Start on a healthy manager is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		_, err := m.browser.Version()
		if err == nil {
			return nil
		}
		m.log.Warn("stale browser connection detected, reconnecting", zap.Error(err))
		_ = m.browser.Close()
		m.browser = nil
		m.page = nil
		m.controlURL = ""
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		url, err := m.launch()
		if err != nil {
			return err
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.GetViewportWidth(),
		Height:            m.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		m.log.Warn("failed to set viewport", zap.Error(err))
	}

	m.browser = browser
	m.page = page
	m.controlURL = controlURL
	m.log.Info("browser ready",
		zap.Bool("headless", m.cfg.IsHeadless()),
		zap.Int("viewport_width", m.cfg.GetViewportWidth()),
		zap.Int("viewport_height", m.cfg.GetViewportHeight()))
	m.log.Debug("devtools endpoint", zap.String("control_url", controlURL))
	return nil
}

func (m *Manager) launch() (string, error) {
	url, err := m.launchWith(m.cfg.ExtraFlags)
	if err == nil {
		return url, nil
	}
	if len(m.cfg.ExtraFlags) == 0 {
		return "", fmt.Errorf("launch chrome: %w", err)
	}
	// Retry without user flags so a bad switch doesn't block the run.
	m.log.Warn("launch with extra flags failed, retrying with defaults", zap.Error(err))
	alt, altErr := m.launchWith(nil)
	if altErr != nil {
		return "", fmt.Errorf("launch chrome: %w (fallback: %v)", err, altErr)
	}
	return alt, nil
}

func (m *Manager) launchWith(extra []string) (string, error) {
	launch := launcher.New().Headless(m.cfg.IsHeadless())
	if m.cfg.Bin != "" {
		launch = launch.Bin(m.cfg.Bin)
	}
	for _, rawFlag := range append(append([]string{}, defaultLaunchFlags...), extra...) {
		flagStr := strings.TrimLeft(rawFlag, "-")
		name, val, hasVal := strings.Cut(flagStr, "=")
		if hasVal {
			launch = launch.Set(flags.Flag(name), val)
		} else {
			launch = launch.Set(flags.Flag(name))
		}
	}
	launch = launch.Set(flags.Flag("window-size"),
		fmt.Sprintf("%d,%d", m.cfg.GetViewportWidth(), m.cfg.GetViewportHeight()))
	return launch.Launch()
}

// Page returns the working tab.
func (m *Manager) Page() (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.page == nil {
		return nil, errors.New("browser not started")
	}
	timeout := m.cfg.NavigationTimeout()
	return newRodPage(m.page, timeout, timeout), nil
}

// ControlURL returns the WebSocket debugger URL.
func (m *Manager) ControlURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controlURL
}

// IsConnected returns whether the browser is connected.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// Shutdown closes the tab and the browser.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		_ = m.page.Close()
		m.page = nil
	}
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	m.controlURL = ""
	return err
}
