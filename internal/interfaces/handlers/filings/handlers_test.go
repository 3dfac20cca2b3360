package filings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	holdsvc "github.com/jamesdamant/overTheHedge/internal/application/holdings"
	ingestsvc "github.com/jamesdamant/overTheHedge/internal/application/ingest"
	"github.com/jamesdamant/overTheHedge/internal/domain"
	"github.com/jamesdamant/overTheHedge/internal/edgar"
	"github.com/jamesdamant/overTheHedge/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const submissionsJSON = `{
	"name": "NISA INVESTMENT ADVISORS, LLC",
	"filings": {
		"recent": {
			"form": ["13F-HR"],
			"accessionNumber": ["0001000045-24-000123"],
			"filingDate": ["2024-11-14"],
			"reportDate": ["2024-09-30"]
		}
	}
}`

const infoTableXML = `<informationTable>
	<infoTable>
		<nameOfIssuer>APPLE INC</nameOfIssuer>
		<titleOfClass>COM</titleOfClass>
		<cusip>037833100</cusip>
		<value>150000</value>
		<shrsOrPrnAmt><sshPrnamt>1000</sshPrnamt><sshPrnamtType>SH</sshPrnamtType></shrsOrPrnAmt>
		<investmentDiscretion>SOLE</investmentDiscretion>
		<votingAuthority><Sole>1000</Sole><Shared>0</Shared><None>0</None></votingAuthority>
	</infoTable>
</informationTable>`

func setupFilingsTest(t *testing.T) (*fiber.App, *gorm.DB, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/submissions/CIK0001000045.json":
			fmt.Fprint(w, submissionsJSON)
		case strings.HasSuffix(r.URL.Path, "/infotable.xml"):
			fmt.Fprint(w, infoTableXML)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Holding{}, &domain.IngestionRun{}))

	client := edgar.NewClient(edgar.ClientConfig{
		UserAgent:          "test@example.com",
		SubmissionsBaseURL: srv.URL + "/submissions/",
		ArchivesBaseURL:    srv.URL + "/Archives/edgar/data/",
	})
	svc := &ingestsvc.Service{
		Edgar:       client,
		Holdings:    &holdsvc.Service{DB: db},
		DB:          db,
		DefaultForm: edgar.Form13FHR,
	}

	h := &Handlers{Service: svc}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Get("/filings/latest", h.Latest)
	app.Get("/filings/preview", h.Preview)
	app.Post("/ingest", h.Ingest)
	app.Get("/runs", h.Runs)
	return app, db, srv
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestLatest(t *testing.T) {
	app, _, _ := setupFilingsTest(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/filings/latest?cik=1000045", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, "NISA INVESTMENT ADVISORS, LLC", data["name"])
	assert.Equal(t, "0001000045-24-000123", data["accessionNumber"])
}

func TestLatest_MissingCIK(t *testing.T) {
	app, _, _ := setupFilingsTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/filings/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestLatest_BadCIKReportsStage(t *testing.T) {
	app, _, _ := setupFilingsTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/filings/latest?cik=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	body := decodeBody(t, resp)
	errObj, _ := body["error"].(map[string]interface{})
	details, _ := errObj["details"].(map[string]interface{})
	assert.Equal(t, "locate", details["stage"])
}

func TestLatest_UnknownFilerIs404(t *testing.T) {
	app, _, _ := setupFilingsTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/filings/latest?cik=77", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	app, db, _ := setupFilingsTest(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/filings/preview?cik=1000045", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	data, _ := body["data"].([]interface{})
	require.Len(t, data, 1)
	meta, _ := body["metadata"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["count"])

	var n int64
	require.NoError(t, db.Model(&domain.Holding{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestIngestEndpoint(t *testing.T) {
	app, db, _ := setupFilingsTest(t)

	payload, _ := json.Marshal(map[string]interface{}{"cik": "1000045"})
	req := httptest.NewRequest("POST", "/ingest", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["rows_stored"])

	var n int64
	require.NoError(t, db.Model(&domain.Holding{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIngestEndpoint_InvalidMode(t *testing.T) {
	app, _, _ := setupFilingsTest(t)

	payload, _ := json.Marshal(map[string]interface{}{"cik": "1000045", "mode": "upsert"})
	req := httptest.NewRequest("POST", "/ingest", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestIngestEndpoint_MissingCIK(t *testing.T) {
	app, _, _ := setupFilingsTest(t)

	req := httptest.NewRequest("POST", "/ingest", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRunsEndpoint(t *testing.T) {
	app, _, _ := setupFilingsTest(t)

	payload, _ := json.Marshal(map[string]interface{}{"cik": "1000045", "mode": "skip"})
	req := httptest.NewRequest("POST", "/ingest", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	data, _ := body["data"].([]interface{})
	require.Len(t, data, 1)
	run, _ := data[0].(map[string]interface{})
	assert.Equal(t, "ok", run["status"])
}
