// Package core contains the business logic for the news harvester.
// It is designed to be framework-agnostic and can be used independently
// of any browser engine or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Contains pure domain models (ArticleRecord, ArticleLocation)
// - harvest: Click-driven listing traversal collecting article locations
// - extract: Field extraction from rendered article HTML
// - photo: Header photo fetch, recompression, and accent color
// - pipeline: Per-article fetch/extract/store orchestration
// - discovery: Optional feed-based location discovery
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (browser, cache, HTTP, logger, store)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies beyond parsing libraries
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
package core
