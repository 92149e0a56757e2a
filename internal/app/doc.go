// Package app implements the request pipeline and the boot-time module
// registry at the core of the application.
//
// # Request Pipeline
//
// Every request flows through a fixed, ordered chain before the matched
// handler runs:
//
//  1. Extraction: path segments, referer (default "/"), session load, CSRF
//     token provisioning.
//  2. Auth resolution: the session's user id is resolved to a live record; a
//     stale or inactive record clears the session and redirects to the site
//     root, halting the chain.
//  3. Render-context building: site settings with fallbacks, auth state,
//     drained flash messages, unread notification count, CSRF token.
//  4. Admin gating: requests under the configured privileged prefix run the
//     panel gate before routing proceeds.
//  5. The matched handler, or the catch-all 404 page.
//
// A short-circuit sends exactly one response and never invokes later stages.
//
// # Module Registry
//
// Route and service modules are explicit values passed to New via WithRoutes
// and WithServices. Each registration runs with failure isolation: an error
// or panic is logged with the module's identity and boot continues, so one
// broken module never takes the whole application down.
//
//	a := app.New(
//	    app.WithLogger(log),
//	    app.WithViews(renderer),
//	    app.WithStores(users, settings, notifications),
//	    app.WithRoutes(routes.NewHome(), routes.NewNotifications(notifications)),
//	    app.WithServices(services.NewCleanup(notifications, log)),
//	)
//	err := a.Run(":3000", app.ShutdownHook(db.Shutdown(pool)))
//
// # Context
//
// Handlers receive a Context carrying the decorated response operations:
// Render, Reload, ThrowError, Throw404, JSON envelopes, and ValidateInput.
// Context embeds context.Context, so it can be passed directly to store
// calls and anything else expecting a standard library context.
package app
