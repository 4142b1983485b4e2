// Package mongo connects to MongoDB with the official v2 driver.
//
// New retries the initial connection and ping, NewWithDatabase selects the
// configured database, and Healthcheck wraps Ping for readiness probes.
package mongo
