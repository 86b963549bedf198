// Command profile-peek serves Steam profile lookups enriched with FACEIT
// statistics.
package main

import (
	"github.com/profile-peek/profile-peek/internal/app"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		app.Module,
		fx.Invoke(app.RunHTTP),
	).Run()
}
