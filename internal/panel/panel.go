// Package panel hosts rendered HTML for display in a browser.
package panel

import "errors"

// ForceDarkFlag makes Chromium-based engines darken web contents.
const ForceDarkFlag = "--enable-features=WebContentsForceDark"

var ErrDisposed = errors.New("panel disposed")

// Panel displays raw HTML and must be disposed explicitly.
type Panel interface {
	NavigateToHTML(html string) error
	// AfterLoaded schedules fn on the panel's dispatcher once the content
	// has actually been delivered for display.
	AfterLoaded(fn func())
	URL() string
	Dispose() error
}

// PreLaunchFlagSetter is implemented by panels whose browser engine accepts
// startup flags. Flags only take effect before the first navigation.
type PreLaunchFlagSetter interface {
	SetPreLaunchFlag(flag string)
}
