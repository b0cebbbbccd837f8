// Package driven defines the outbound ports: the minimal contracts the
// core needs from the three document stores (sheet, Drive, Qdrant) and
// from supporting infrastructure (indexing, reports, audit log, config).
// Adapters implement these; the core depends on nothing else.
package driven
