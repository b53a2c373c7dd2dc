package tray

import (
	"log"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	shutdownFunc ShutdownFunc
	padURL       string
	viewerURL    string
	once         sync.Once
	shuttingDown atomic.Bool
	menuPad      *systray.MenuItem
	menuViewer   *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance. padURL and viewerURL are opened from the
// menu.
func New(padURL, viewerURL string, shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		shutdownFunc: shutdownFn,
		padURL:       padURL,
		viewerURL:    viewerURL,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

// Quit removes the tray icon, making Run return.
func (t *Tray) Quit() {
	if t.shuttingDown.CompareAndSwap(false, true) {
		systray.Quit()
	}
}

// onReady is called when the tray is ready
func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("touchjoy")
	systray.SetTooltip("touchjoy - " + t.padURL)

	t.menuPad = systray.AddMenuItem("Open Touch Pad", "Open the on-screen controls")
	t.menuViewer = systray.AddMenuItem("Open Viewer", "Open the pad state viewer")
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	log.Println("System tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuPad.ClickedCh:
			t.openBrowser(t.padURL)
		case <-t.menuViewer.ClickedCh:
			t.openBrowser(t.viewerURL)
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

// onExit is called when the tray is exiting
func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Println("System tray exiting")
}

// openBrowser opens url in the default web browser
func (t *Tray) openBrowser(url string) {
	// Prevent browser launches during shutdown
	if t.shuttingDown.Load() {
		return
	}

	if err := browserCommand(url).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

func browserCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
