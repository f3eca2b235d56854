package cmd

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cloud66-oss/myip/page"
	"github.com/cloud66-oss/myip/panel"
	"github.com/cloud66-oss/myip/utils"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed templates/index.html
var indexSource string

var indexTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"ids": page.IDsFor}).
	Parse(indexSource))

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the address page",
	Run:   execServe,
}

type indexData struct {
	Doc      *page.Document
	Config   panel.Config
	Versions []string
	Version  string
}

func init() {
	serveCmd.PersistentFlags().String("binding", "127.0.0.1", "API binding")
	serveCmd.PersistentFlags().Int("port", 5111, "API port")
	serveCmd.PersistentFlags().Bool("api-only", false, "always respond with JSON, never HTML")
	serveCmd.PersistentFlags().String("static", "./static", "directory served under /static, flags live in static/flags")

	viper.BindPFlag("api.binding", serveCmd.PersistentFlags().Lookup("binding"))
	viper.BindPFlag("api.port", serveCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("api_only", serveCmd.PersistentFlags().Lookup("api-only"))
	viper.BindPFlag("static.dir", serveCmd.PersistentFlags().Lookup("static"))

	viper.SetDefault("api.binding", "127.0.0.1")
	viper.SetDefault("api.port", 5111)
	viper.SetDefault("api_only", false)
	viper.SetDefault("static.dir", "./static")
	viper.SetDefault("host_view.timeout", "10s")

	rootCmd.AddCommand(serveCmd)
}

// wantJSON reports whether the client asked for JSON instead of the page.
// ?format=json always wins; otherwise the first html or json type in the
// Accept header decides and anything else means HTML.
func wantJSON(c echo.Context) bool {
	if viper.GetBool("api_only") {
		return true
	}

	if strings.EqualFold(c.QueryParam("format"), "json") {
		return true
	}

	for _, mt := range strings.Split(c.Request().Header.Get(echo.HeaderAccept), ",") {
		mt = strings.ToLower(strings.TrimSpace(strings.SplitN(mt, ";", 2)[0]))
		if strings.Contains(mt, "html") {
			return false
		}
		if mt == echo.MIMEApplicationJSON {
			return true
		}
	}

	return false
}

// shellResponse is the JSON form of the page: the endpoints the client has
// to query itself and the document before any data arrived
type shellResponse struct {
	Hosts    panel.Config   `json:"hosts"`
	Document *page.Document `json:"document"`
}

// hostResponse is the address panels as seen from this server, not from
// the client making the request
type hostResponse struct {
	View     string         `json:"view"`
	Document *page.Document `json:"document"`
}

// index serves the page shell. The v4 and v6 endpoints are loaded by the
// visitor's browser; fetching them here would report the server's addresses.
func index(c echo.Context) error {
	doc := panel.Shell()
	config := panelConfig()

	if wantJSON(c) {
		return c.JSON(http.StatusOK, shellResponse{Hosts: config, Document: doc})
	}

	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{
		Doc:      doc,
		Config:   config,
		Versions: page.Versions,
		Version:  utils.Version,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to render the index page")
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, utils.ErrorResponse{
			Error: "failed to render the page",
		})
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// hostView loads both panels from the server itself
func hostView(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), viper.GetDuration("host_view.timeout"))
	defer cancel()

	return c.JSON(http.StatusOK, hostResponse{
		View:     "host",
		Document: loadPanels(ctx),
	})
}

func ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

func newServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(utils.ZeroLogger(&log.Logger))
	e.GET("/", index)
	e.GET("/_ping", ping)
	e.GET("/v1/host", hostView)

	staticDir := viper.GetString("static.dir")
	if utils.DirExists(staticDir) {
		e.Static("/static", staticDir)
	} else {
		log.Warn().Str("dir", staticDir).Msg("static directory not found, flags will not be served")
	}

	return e
}

func execServe(cmd *cobra.Command, args []string) {
	log.Info().
		Str("v4_host", viper.GetString("hosts.v4")).
		Str("v6_host", viper.GetString("hosts.v6")).
		Msg("using address endpoints")

	if err := startServer(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to start the server")
	}
}

func startServer(_ context.Context) error {
	e := newServer()

	address := fmt.Sprintf("%s:%d", viper.GetString("api.binding"), viper.GetInt("api.port"))
	log.Info().Str("address", address).Msg("listening")

	go func() {
		if err := e.Start(address); err != nil {
			if err != http.ErrServerClosed {
				log.Error().Err(err).Msg("failed to start the server")
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return e.Shutdown(ctx)
}
