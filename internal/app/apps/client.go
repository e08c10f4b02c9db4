package apps

import (
	"context"
	"fmt"
	"io"
	"os"

	"ecocoleta/internal/pkg/client"
	"ecocoleta/internal/pkg/menu"
	"ecocoleta/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp is the interactive EcoColeta client.
type ClientApp struct {
	Host string `validate:"required,hostname_rfc1123|ip"`
	Port uint16 `validate:"required"`

	In  io.Reader `validate:"required"`
	Out io.Writer `validate:"required"`
}

// NewClientApp creates a new ClientApp reading from stdin and writing to
// stdout unless configured otherwise.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{
		In:  os.Stdin,
		Out: os.Stdout,
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

// Run connects to the server and drives the menu until the operator exits.
func (app *ClientApp) Run(ctx context.Context, args []string) error {
	c, err := client.NewClient(client.WithServerAddr(app.Host, app.Port))
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	defer c.Close()

	greeting, err := c.Connect(ctx)
	if err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	fmt.Fprintln(app.Out, greeting.Message)

	cfgs := []menu.Cfg{
		menu.WithRegistry(c),
		menu.WithAddr(c.Addr()),
		menu.WithInput(app.In),
		menu.WithOutput(app.Out),
	}
	if f, ok := app.In.(*os.File); ok {
		cfgs = append(cfgs, menu.WithTerminal(f))
	}
	m, err := menu.NewMenu(cfgs...)
	if err != nil {
		return errors.Wrap(err, "create menu failed")
	}
	return errors.Wrap(m.Run(ctx), "run menu failed")
}
