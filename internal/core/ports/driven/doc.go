// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): stores, the text-generation service and
// the document fetcher. Core services depend on these interfaces,
// never on concrete adapters.
package driven
