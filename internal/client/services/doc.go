// Package services holds the journal's application services: JournalService
// for local CRUD and SyncCoordinator, which moves offline entries to the
// remote journal API when connectivity comes back.
package services
