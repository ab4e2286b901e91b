package services

import (
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// reportCache may be nil, in which case reports are always computed.
func NewServiceContainer(repos portsrepo.RepositoryProvider, reportCache portsrepo.ReportCache) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.JournalRepo)

	var journalOpts []JournalServiceOption
	var reportingOpts []ReportingServiceOption
	if reportCache != nil {
		journalOpts = append(journalOpts, WithJournalReportCache(reportCache))
		reportingOpts = append(reportingOpts, WithReportCache(reportCache))
	}
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, journalOpts...)
	container.Reporting = NewReportingService(repos.ReportingRepo, reportingOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
	_ portssvc.LedgerService    = (*ledgerService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
)
