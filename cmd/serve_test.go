package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/cloud66-oss/myip/page"
	"github.com/cloud66-oss/myip/provider"
	"github.com/cloud66-oss/myip/utils"
	"github.com/labstack/echo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testV4Host = "https://ipv4.example.test/"
	testV6Host = "https://ipv6.example.test/"
)

type mockProvider struct {
	mock.Mock
}

var _ provider.AddressProvider = &mockProvider{}

func (mp *mockProvider) Fetch(ctx context.Context, endpointURL string) (*utils.GeoResponse, error) {
	args := mp.Called(ctx, endpointURL)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*utils.GeoResponse), args.Error(1)
}

type serveCmdTestSuite struct {
	suite.Suite
	provider *mockProvider
}

func (suite *serveCmdTestSuite) SetupTest() {
	ctx := context.Background()
	utils.Container.Clear(ctx)

	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = log.With().Caller().Logger()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	viper.Set("hosts.v4", testV4Host)
	viper.Set("hosts.v6", testV6Host)
	viper.Set("api_only", false)
	viper.Set("host_view.timeout", "5s")

	suite.provider = &mockProvider{}
	utils.Container.Assign(ctx, utils.AddressProvider, suite.provider)
}

func (suite *serveCmdTestSuite) response(body string) *utils.GeoResponse {
	data, err := utils.DecodeGeoResponse([]byte(body))
	suite.Require().NoError(err)
	return data
}

func (suite *serveCmdTestSuite) mockBoth() {
	suite.provider.On("Fetch", mock.Anything, testV4Host).Return(suite.response(`{
		"ip": "185.130.44.1",
		"geo": {"as_name": "Privex Inc.", "as_number": 210083, "country": "Sweden", "country_code": "SE", "city": "Stockholm"}
	}`), nil)
	suite.provider.On("Fetch", mock.Anything, testV6Host).Return(nil, &utils.EndpointError{URL: testV6Host, Err: errors.New("no route to host")})
}

func (suite *serveCmdTestSuite) get(target string, accept string, remoteAddr string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/")

	suite.Require().NoError(index(c))
	return rec
}

func (suite *serveCmdTestSuite) TestPing() {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/_ping")

	if suite.Assert().NoError(ping(c)) {
		suite.Assert().EqualValues(http.StatusOK, rec.Code)
		suite.Assert().Equal("pong", rec.Body.String())
	}
}

func (suite *serveCmdTestSuite) TestIndexHTML() {
	rec := suite.get("/", "text/html,application/xhtml+xml,application/json;q=0.9", "198.51.100.7:40000")

	// the visitor's browser loads the endpoints, the server never does
	suite.provider.AssertNotCalled(suite.T(), "Fetch", mock.Anything, mock.Anything)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Header().Get(echo.HeaderContentType), "text/html")

	body := rec.Body.String()
	for _, version := range page.Versions {
		ids := page.IDsFor(version)
		suite.Contains(body, `<td id="`+ids.Address+`">Loading...</td>`)
		suite.Contains(body, `<td id="`+ids.City+`">Loading...</td>`)
		suite.Contains(body, `id="`+ids.Info+`" class="ui definition table">`)
		suite.Contains(body, `id="`+ids.InfoFail+`" class="ui warning message hidden">`)
	}

	suite.NotContains(body, "185.130.44.1")
	suite.NotContains(body, "198.51.100.7")
	suite.Contains(body, `loadAddress("4", hosts["4"]);`)
	suite.Contains(body, `ipv4.example.test`)
	suite.Contains(body, `ipv6.example.test`)
	suite.NotContains(body, `class="title active"`)
}

func (suite *serveCmdTestSuite) TestIndexJSON() {
	for _, tt := range []struct {
		target string
		accept string
	}{
		{"/?format=json", ""},
		{"/?format=JSON", "text/html"},
		{"/", "application/json"},
	} {
		rec := suite.get(tt.target, tt.accept, "")
		suite.Equal(http.StatusOK, rec.Code)

		var out struct {
			Hosts    map[string]string `json:"hosts"`
			Document struct {
				Elements  []page.Element `json:"elements"`
				Accordion []bool         `json:"accordion"`
			} `json:"document"`
		}
		suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), tt.target)

		suite.Equal(map[string]string{"v4_host": testV4Host, "v6_host": testV6Host}, out.Hosts)

		elements := make(map[string]page.Element)
		for _, el := range out.Document.Elements {
			elements[el.ID] = el
		}
		suite.Equal(page.Loading, elements["addr-v4"].Content)
		suite.True(elements["ipv6-info-fail"].Hidden)
		suite.Equal([]bool{false, false}, out.Document.Accordion)
	}

	suite.provider.AssertNotCalled(suite.T(), "Fetch", mock.Anything, mock.Anything)
}

func (suite *serveCmdTestSuite) TestIndexAPIOnly() {
	viper.Set("api_only", true)

	rec := suite.get("/", "text/html", "")
	suite.Contains(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

func (suite *serveCmdTestSuite) TestHostView() {
	suite.mockBoth()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/host", nil)
	req.RemoteAddr = "198.51.100.7:40000"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/host")

	suite.Require().NoError(hostView(c))
	suite.provider.AssertExpectations(suite.T())
	suite.Equal(http.StatusOK, rec.Code)

	var out struct {
		View     string `json:"view"`
		Document struct {
			Elements []page.Element `json:"elements"`
		} `json:"document"`
	}
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	suite.Equal("host", out.View)

	elements := make(map[string]page.Element)
	for _, el := range out.Document.Elements {
		elements[el.ID] = el
	}

	// the endpoints report the address the server connected from
	suite.EqualValues("185.130.44.1", elements["addr-v4"].Content)
	suite.True(elements["ipv6-info"].Hidden)
	suite.False(elements["ipv6-info-fail"].Hidden)
}

func (suite *serveCmdTestSuite) TestWantJSON() {
	for _, tt := range []struct {
		target string
		accept string
		want   bool
	}{
		{"/", "", false},
		{"/", "*/*", false},
		{"/", "application/json", true},
		{"/", "application/json; charset=utf-8", true},
		{"/", "text/html, application/json", false},
		{"/", "application/json, text/html", true},
		{"/?format=json", "text/html", true},
		{"/?format=html", "application/json", true},
	} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		req.Header.Set(echo.HeaderAccept, tt.accept)
		c := e.NewContext(req, httptest.NewRecorder())

		suite.Equal(tt.want, wantJSON(c), "%s %q", tt.target, tt.accept)
	}
}

func (suite *serveCmdTestSuite) TestPrintPanels() {
	suite.mockBoth()

	var buf bytes.Buffer
	suite.Require().NoError(printPanels(&buf, loadPanels(context.Background())))

	suite.Equal("IPv4\n"+
		"  address: 185.130.44.1\n"+
		"  isp:     Privex Inc. (ASN 210083)\n"+
		"  country: Sweden\n"+
		"  city:    Stockholm\n"+
		"IPv6\n"+
		"  not available\n", buf.String())
}

func TestServeCmdTestSuite(t *testing.T) {
	suite.Run(t, new(serveCmdTestSuite))
}
