package edgar

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Candidate document names for the holdings info table, tried in order.
// Filer tooling is inconsistent: most filings use infotable.xml, older ones
// spell it out, and some vendors upload under their own name.
var infoTableCandidates = []string{
	"infotable.xml",
	"informationtable.xml",
	"MLP_Filing_20250930.xml",
}

// InfoTableResult is a successfully fetched info-table document together
// with which candidate file name answered and every name probed on the way.
type InfoTableResult struct {
	Data     []byte
	Document string
	Tried    []string
}

// FetchInfoTable probes the candidate file names under the accession's
// archive directory. A 404 advances to the next candidate; any other error
// status is terminal. All candidates 404ing is ErrNoFiling.
func (c *Client) FetchInfoTable(ctx context.Context, cik, accession string) (*InfoTableResult, error) {
	dir := c.archivesBase + cik + "/" + strings.ReplaceAll(accession, "-", "") + "/"

	tried := make([]string, 0, len(infoTableCandidates))
	for _, name := range infoTableCandidates {
		tried = append(tried, name)

		resp, err := c.get(ctx, dir+name)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			log.Debug().Str("cik", cik).Str("document", name).Msg("info table candidate not found")
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: document fetch returned %d for %s", ErrSourceUnavailable, resp.StatusCode, name)
		}

		data, err := readBody(resp)
		if err != nil {
			return nil, err
		}
		return &InfoTableResult{Data: data, Document: name, Tried: tried}, nil
	}
	return nil, fmt.Errorf("%w: no info table document under accession %s", ErrNoFiling, accession)
}
