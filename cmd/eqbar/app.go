package main

import (
	"github.com/GreyRaphael/eqClient/internal/app"
	"github.com/GreyRaphael/eqClient/internal/run"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *app.Config
	Runner *run.Runner
}
