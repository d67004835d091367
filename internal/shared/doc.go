// Package shared holds code used by more than one internal package without belonging
// to any of them. Today that is only testutil: the slog capture handler and the
// Shiller CSV fixtures shared by the dataprocessing, exporter and command tests.
package shared
