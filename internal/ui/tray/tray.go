// Package tray hosts the radial progress icon and menu in the system tray.
package tray

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"pixelclock/internal/ui/icon"
)

// Host is the part of the desktop driver the tray needs.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(resource fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow func()
	OnQuit func()
}

// Manager handles system tray state.
type Manager struct {
	mu        sync.Mutex
	host      Host
	callbacks Callbacks
	logger    *slog.Logger
	do        func(func())
	scale     int
	fraction  float64
	variant   fyne.ThemeVariant
}

// New creates a tray manager, installs the menu and draws an empty ring.
func New(host Host, callbacks Callbacks, logger *slog.Logger) *Manager {
	return newManager(host, callbacks, logger, fyne.Do)
}

func newManager(host Host, callbacks Callbacks, logger *slog.Logger, do func(func())) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	manager := &Manager{
		host:      host,
		callbacks: callbacks,
		logger:    logger,
		do:        do,
		scale:     2,
		variant:   theme.VariantDark,
	}

	show := fyne.NewMenuItem("Show", func() {
		if manager.callbacks.OnShow != nil {
			manager.callbacks.OnShow()
		}
	})
	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true

	host.SetSystemTrayMenu(fyne.NewMenu("PixelClock", show, fyne.NewMenuItemSeparator(), quit))
	manager.redraw()
	return manager
}

// SetProgress redraws the icon for the elapsed fraction of the phase.
func (manager *Manager) SetProgress(fraction float64) {
	manager.mu.Lock()
	manager.fraction = fraction
	manager.mu.Unlock()
	manager.redraw()
}

// SetThemeVariant redraws the icon with the accent for variant.
func (manager *Manager) SetThemeVariant(variant fyne.ThemeVariant) {
	manager.mu.Lock()
	manager.variant = variant
	manager.mu.Unlock()
	manager.redraw()
}

func (manager *Manager) redraw() {
	manager.mu.Lock()
	fraction := manager.fraction
	variant := manager.variant
	manager.mu.Unlock()

	img := icon.RenderSize(fraction, icon.Accent(variant), icon.Size*manager.scale)
	encoded, err := icon.PNG(img)
	if err != nil {
		manager.logger.Error("encode tray icon", "error", err)
		return
	}
	resource := fyne.NewStaticResource(resourceName(fraction, variant), encoded)
	manager.do(func() {
		manager.host.SetSystemTrayIcon(resource)
	})
}

// resourceName labels a drawn icon by variant and progress.
func resourceName(fraction float64, variant fyne.ThemeVariant) string {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	permille := int(math.Round(math.Max(0, math.Min(1, fraction)) * 1000))
	return fmt.Sprintf("pixelclock-%d-%04d.png", variant, permille)
}
