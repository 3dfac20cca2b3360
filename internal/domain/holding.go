package domain

import "strings"

// FilingMetadata describes one submission picked from the EDGAR index.
// It is stamped onto every Holding extracted from that filing.
type FilingMetadata struct {
	FundName        string `json:"name"`
	Form            string `json:"form"`
	AccessionNumber string `json:"accessionNumber"`
	FilingDate      string `json:"filingDate"`
	ReportDate      string `json:"reportDate"`
}

// AccessionPath returns the undashed form used in EDGAR archive URLs,
// e.g. "0000950123-24-011775" -> "000095012324011775".
func (m FilingMetadata) AccessionPath() string {
	return strings.ReplaceAll(m.AccessionNumber, "-", "")
}

// Holding is one disclosed security position. Column names mirror the
// info-table tags so filters and raw SQL read like the source documents.
// Dates stay in their source string form (YYYY-MM-DD), not parsed.
type Holding struct {
	ID                   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NameOfIssuer         string `gorm:"column:nameOfIssuer" json:"nameOfIssuer"`
	TitleOfClass         string `gorm:"column:titleOfClass" json:"titleOfClass"`
	Cusip                string `gorm:"column:cusip" json:"cusip"`
	Value                int64  `gorm:"column:value" json:"value"`
	SshPrnamt            int64  `gorm:"column:sshPrnamt" json:"sshPrnamt"`
	SshPrnamtType        string `gorm:"column:sshPrnamtType" json:"sshPrnamtType"`
	InvestmentDiscretion string `gorm:"column:investmentDiscretion" json:"investmentDiscretion"`
	VotingSole           int64  `gorm:"column:voting_Sole" json:"voting_Sole"`
	VotingShared         int64  `gorm:"column:voting_Shared" json:"voting_Shared"`
	VotingNone           int64  `gorm:"column:voting_None" json:"voting_None"`
	FundName             string `gorm:"column:fundName" json:"fundName"`
	Form                 string `gorm:"column:form" json:"form"`
	AccessionNumber      string `gorm:"column:accessionNumber" json:"accessionNumber"`
	FilingDate           string `gorm:"column:filingDate" json:"filingDate"`
	ReportDate           string `gorm:"column:reportDate" json:"reportDate"`
}

func (Holding) TableName() string {
	return "holdings"
}

// SetMetadata copies the five filing-level fields onto the row.
func (h *Holding) SetMetadata(m FilingMetadata) {
	h.FundName = m.FundName
	h.Form = m.Form
	h.AccessionNumber = m.AccessionNumber
	h.FilingDate = m.FilingDate
	h.ReportDate = m.ReportDate
}
