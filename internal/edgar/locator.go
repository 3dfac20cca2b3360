package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jamesdamant/overTheHedge/internal/domain"

	"github.com/rs/zerolog/log"
)

// Form13FHR is the quarterly holdings-disclosure form type.
const Form13FHR = "13F-HR"

// submissionsIndex mirrors the EDGAR per-filer submissions JSON. The four
// arrays under filings.recent are positionally aligned, most recent first.
type submissionsIndex struct {
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
		} `json:"recent"`
	} `json:"filings"`
}

// LatestFiling returns the most recent filing of the given form type for the
// CIK. The caller passes a normalized (10-digit) CIK. A drifted or truncated
// index document is reported as ErrNoFiling, not as a crash; which key was
// missing is logged for diagnostics.
func (c *Client) LatestFiling(ctx context.Context, cik, formType string) (domain.FilingMetadata, error) {
	if formType == "" {
		formType = Form13FHR
	}

	body, err := c.fetchSubmissions(ctx, cik)
	if err != nil {
		return domain.FilingMetadata{}, err
	}

	var idx submissionsIndex
	if err := json.Unmarshal(body, &idx); err != nil {
		log.Warn().Str("cik", cik).Err(err).Msg("submissions index is not valid JSON")
		return domain.FilingMetadata{}, fmt.Errorf("%w: submissions index unreadable", ErrNoFiling)
	}
	if key := missingIndexKey(idx); key != "" {
		log.Warn().Str("cik", cik).Str("missing_key", key).Msg("submissions index missing required key")
		return domain.FilingMetadata{}, fmt.Errorf("%w: submissions index missing %s", ErrNoFiling, key)
	}

	recent := idx.Filings.Recent
	for i, form := range recent.Form {
		if form != formType {
			continue
		}
		if i >= len(recent.AccessionNumber) || i >= len(recent.FilingDate) || i >= len(recent.ReportDate) {
			log.Warn().Str("cik", cik).Int("index", i).Msg("submissions index arrays are not aligned")
			return domain.FilingMetadata{}, fmt.Errorf("%w: submissions index arrays misaligned", ErrNoFiling)
		}
		return domain.FilingMetadata{
			FundName:        idx.Name,
			Form:            form,
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      recent.FilingDate[i],
			ReportDate:      recent.ReportDate[i],
		}, nil
	}
	return domain.FilingMetadata{}, fmt.Errorf("%w: no %s filing for CIK %s", ErrNoFiling, formType, cik)
}

// fetchSubmissions returns the raw index JSON, consulting the cache first.
func (c *Client) fetchSubmissions(ctx context.Context, cik string) ([]byte, error) {
	url := c.submissionsBase + "CIK" + cik + ".json"
	if c.cache != nil {
		if b, ok := c.cache.Get(ctx, url); ok {
			return b, nil
		}
	}

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: no submissions index for CIK %s", ErrNoFiling, cik)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: submissions index returned %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(ctx, url, body, c.cacheTTL)
	}
	return body, nil
}

func missingIndexKey(idx submissionsIndex) string {
	switch {
	case idx.Name == "":
		return "name"
	case idx.Filings.Recent.Form == nil:
		return "filings.recent.form"
	case idx.Filings.Recent.AccessionNumber == nil:
		return "filings.recent.accessionNumber"
	case idx.Filings.Recent.FilingDate == nil:
		return "filings.recent.filingDate"
	case idx.Filings.Recent.ReportDate == nil:
		return "filings.recent.reportDate"
	}
	return ""
}
