package cfg

import (
	"io"

	"ecocoleta/internal"
	"ecocoleta/internal/app/apps"

	"github.com/pkg/errors"
)

// HostCfg is configuration for the server host a client connects to.
type HostCfg struct {
	host string
}

// NewHostCfg creates a new HostCfg.
func NewHostCfg(host string) *HostCfg {
	return &HostCfg{host: host}
}

// HostFromEnv creates a new HostCfg from the current environment.
func HostFromEnv() *HostCfg {
	return &HostCfg{host: internal.Host}
}

// ApplyClientApp applies the HostCfg to a ClientApp.
func (cfg HostCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Host = cfg.host
	return nil
}

// IOCfg sets where a ClientApp reads operator input and renders the menu.
type IOCfg struct {
	in  io.Reader
	out io.Writer
}

// NewIOCfg creates a new IOCfg.
func NewIOCfg(in io.Reader, out io.Writer) *IOCfg {
	return &IOCfg{in: in, out: out}
}

// ApplyClientApp applies the IOCfg to a ClientApp.
func (cfg IOCfg) ApplyClientApp(app *apps.ClientApp) error {
	if cfg.in == nil || cfg.out == nil {
		return errors.New("input and output are required")
	}
	app.In = cfg.in
	app.Out = cfg.out
	return nil
}
