// Package observe provides telemetry for API calls: OpenTelemetry tracing and
// metrics, a redacting JSON logger, and a middleware that instruments any
// transport.Sender.
//
// The SDK is silent unless a logger is configured; the default logger used by
// the platform package only reports errors.
package observe
