//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/GreyRaphael/eqClient/internal/app"
	"github.com/GreyRaphael/eqClient/internal/calendar"
)

// InitializeApp builds App (Config + Runner) via Wire.
// Caller must call the cleanup when done.
func InitializeApp(o app.Overrides) (*App, func(), error) {
	wire.Build(
		app.ProviderSet,
		wire.Struct(new(App), "Config", "Runner"),
	)
	return nil, nil, nil
}

// InitializeCalendar builds only what the calendar command needs.
func InitializeCalendar(o app.Overrides) (*calendar.Calendar, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideCalendar,
	)
	return nil, nil
}
