package domain

import "github.com/shopspring/decimal"

// FundSnapshot is a point-in-time read of the fund aggregates used by
// validation. Consumers must treat every snapshot as fresh; two snapshots
// taken around a write are not guaranteed to agree.
type FundSnapshot struct {
	FundBalance      decimal.Decimal `json:"fundBalance"`
	TotalActiveLoans decimal.Decimal `json:"totalActiveLoans"`
}

// FundSummary is the aggregate view exposed to reporting collaborators
type FundSummary struct {
	TotalContributions          decimal.Decimal `json:"totalContributions"`
	ExternalInvestmentRemaining decimal.Decimal `json:"externalInvestmentRemaining"`
	TotalInterestApplied        decimal.Decimal `json:"totalInterestApplied"`
	TotalActiveLoans            decimal.Decimal `json:"totalActiveLoans"`
	TotalCashedOut              decimal.Decimal `json:"totalCashedOut"`
	FundBalance                 decimal.Decimal `json:"fundBalance"`
	UtilizationPercentage       decimal.Decimal `json:"utilizationPercentage"`
	ActiveMemberCount           int64           `json:"activeMemberCount"`
	TotalMemberCount            int64           `json:"totalMemberCount"`
	ActiveLoanCount             int64           `json:"activeLoanCount"`
}

// MemberAggregates are the per-member totals shown on a member report
type MemberAggregates struct {
	TotalContributions decimal.Decimal `json:"totalContributions"`
	TotalRepaid        decimal.Decimal `json:"totalRepaid"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	ActiveLoanCount    int64           `json:"activeLoanCount"`
}

// MemberReport bundles everything a statement consumer needs for one member
type MemberReport struct {
	Member       *Member          `json:"member"`
	Payments     []*Payment       `json:"payments"`
	Transactions []*Transaction   `json:"transactions"`
	Loans        []*Loan          `json:"loans"`
	Aggregates   MemberAggregates `json:"aggregates"`
}
