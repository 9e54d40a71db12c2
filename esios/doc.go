// Package esios fetches indicator data from the ESIOS REST API of Red
// Eléctrica de España and persists it for the dashboard.
//
// A fetch is a single best-effort GET: failures are returned to the caller
// without retry.
package esios
