// Package services implements the reconciliation engine: identity
// derivation, row validation, the tri-store status reconciler and the
// lifecycle drivers (promote, delete, repair, propose). Services depend
// only on the driven ports and are exercised through the driving ports.
package services
