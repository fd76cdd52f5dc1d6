// Package services implements the driving ports: the feed sync engine, the
// query service over the record store, the interval scheduler and settings.
// Services depend only on domain types and driven ports.
package services
