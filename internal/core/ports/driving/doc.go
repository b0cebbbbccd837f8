// Package driving defines the inbound ports: the operations the CLI (or
// any other harness) can invoke on the reconciliation engine.
package driving
