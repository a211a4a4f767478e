package solwatch

// Option configures a Manager with optional dependencies.
type Option func(*managerOptions)

// managerOptions holds optional Manager configuration.
type managerOptions struct {
	logger  Logger
	metrics MetricsCollector
}

// WithLogger sets a logger. Without this option the manager logs through
// slog.Default().
//
// Parameters:
//   - logger: Logger implementation (keys-and-values structured logger)
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	mgr, err := solwatch.NewManager(clients, cfg, solwatch.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewManager
//
// Example:
//
//	collector := myPrometheusCollector
//	mgr, err := solwatch.NewManager(clients, cfg, solwatch.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *managerOptions) {
		o.metrics = metrics
	}
}
