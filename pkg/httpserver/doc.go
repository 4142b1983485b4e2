// Package httpserver runs an http.Handler with configured timeouts and
// graceful shutdown.
//
// Run binds the listener before returning control to the start hooks, then
// blocks until its context is cancelled, SIGINT or SIGTERM arrives, or
// Shutdown is called. Shutdown drains in-flight requests within the
// shutdown timeout and then runs the stop hooks, which is where background
// work such as pending mail deliveries should be awaited.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(context.Context, *slog.Logger) { svc.Wait() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler serve JSON health probes. Readiness
// checks run with the request context, so a client disconnect cancels them.
//
// Bind and serve failures wrap ErrStart; drain failures wrap ErrShutdown.
package httpserver
