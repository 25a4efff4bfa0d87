package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem in v at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	switch strings.ToLower(strings.TrimSpace(v.GetString("theme"))) {
	case "auto", "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("theme must be auto, dark or light (got %q)", v.GetString("theme")))
	}
	if strings.TrimSpace(v.GetString("renderer.command")) == "" {
		errs = append(errs, errors.New("renderer.command is required"))
	}
	if v.GetInt("view.width") <= 0 {
		errs = append(errs, errors.New("view.width must be greater than 0"))
	}
	if v.GetInt("view.height") <= 0 {
		errs = append(errs, errors.New("view.height must be greater than 0"))
	}
	if addr := strings.TrimSpace(v.GetString("panel.addr")); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errs = append(errs, fmt.Errorf("panel.addr is invalid: %v", err))
		}
	}
	if s := strings.TrimSpace(v.GetString("watch.debounce")); s != "" {
		if d, err := time.ParseDuration(s); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("watch.debounce must be a positive duration (got %q)", s))
		}
	}
	return errors.Join(errs...)
}
