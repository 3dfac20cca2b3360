package edgar

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/jamesdamant/overTheHedge/internal/domain"
)

// infoTableDoc collects the holding entries that are direct children of the
// document root. Tags are unqualified; the sanitizer has stripped prefixes.
type infoTableDoc struct {
	XMLName xml.Name
	Entries []infoTableEntry `xml:"infoTable"`
}

// infoTableEntry keeps every leaf as *string so a missing element is
// distinguishable from an empty or zero one.
type infoTableEntry struct {
	NameOfIssuer         *string         `xml:"nameOfIssuer"`
	TitleOfClass         *string         `xml:"titleOfClass"`
	Cusip                *string         `xml:"cusip"`
	Value                *string         `xml:"value"`
	ShrsOrPrnAmt         shrsOrPrnAmt    `xml:"shrsOrPrnAmt"`
	InvestmentDiscretion *string         `xml:"investmentDiscretion"`
	VotingAuthority      votingAuthority `xml:"votingAuthority"`
}

type shrsOrPrnAmt struct {
	SshPrnamt     *string `xml:"sshPrnamt"`
	SshPrnamtType *string `xml:"sshPrnamtType"`
}

type votingAuthority struct {
	Sole   *string `xml:"Sole"`
	Shared *string `xml:"Shared"`
	None   *string `xml:"None"`
}

// ExtractHoldings parses a sanitized info table into one Holding per entry,
// in document order, with the filing metadata stamped on every row. A missing
// or non-numeric required field fails the whole document: a structural break
// in one entry means the document does not follow the expected schema.
func ExtractHoldings(cleanXML []byte, meta domain.FilingMetadata) ([]domain.Holding, error) {
	var doc infoTableDoc
	if err := xml.Unmarshal(cleanXML, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	holdings := make([]domain.Holding, 0, len(doc.Entries))
	for i, entry := range doc.Entries {
		h, err := entry.toHolding()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedDocument, i, err)
		}
		h.SetMetadata(meta)
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func (e infoTableEntry) toHolding() (domain.Holding, error) {
	var h domain.Holding
	var err error

	if h.NameOfIssuer, err = textField("nameOfIssuer", e.NameOfIssuer); err != nil {
		return h, err
	}
	if h.TitleOfClass, err = textField("titleOfClass", e.TitleOfClass); err != nil {
		return h, err
	}
	if h.Cusip, err = textField("cusip", e.Cusip); err != nil {
		return h, err
	}
	if h.Value, err = intField("value", e.Value); err != nil {
		return h, err
	}
	if h.SshPrnamt, err = intField("shrsOrPrnAmt/sshPrnamt", e.ShrsOrPrnAmt.SshPrnamt); err != nil {
		return h, err
	}
	if h.SshPrnamtType, err = textField("shrsOrPrnAmt/sshPrnamtType", e.ShrsOrPrnAmt.SshPrnamtType); err != nil {
		return h, err
	}
	if h.InvestmentDiscretion, err = textField("investmentDiscretion", e.InvestmentDiscretion); err != nil {
		return h, err
	}
	if h.VotingSole, err = intField("votingAuthority/Sole", e.VotingAuthority.Sole); err != nil {
		return h, err
	}
	if h.VotingShared, err = intField("votingAuthority/Shared", e.VotingAuthority.Shared); err != nil {
		return h, err
	}
	if h.VotingNone, err = intField("votingAuthority/None", e.VotingAuthority.None); err != nil {
		return h, err
	}
	return h, nil
}

func textField(name string, v *string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("missing %s", name)
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", fmt.Errorf("empty %s", name)
	}
	return s, nil
}

func intField(name string, v *string) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric %s: %q", name, *v)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s: %d", name, n)
	}
	return n, nil
}
