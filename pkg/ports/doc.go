/*
Package ports defines the driven ports (interfaces) for the burette core.

These interfaces decouple the titration engine from external implementations,
allowing it to work with various storage backends, reagent catalogs, and
coordination services.

# Key Interfaces

  - RunStore: persists and restores titration runs (memory, file, Redis, SQL).
  - Catalog: resolves stock reagents by ID (memory or Loam shelf).
  - DistributedLocker: coordinates run access across multiple replicas.
  - Workbench: the driving surface adapters (HTTP, MCP, CLI) consume.
*/
package ports
