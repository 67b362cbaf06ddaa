// Package services implements the driving ports: the ingestion
// orchestrator (IndexService) and the similarity retriever (QueryService).
//
// Services depend only on domain types and driven ports. Adapters are
// injected by whoever constructs the application; there is no ambient
// singleton store.
package services
