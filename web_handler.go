package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	uuid "github.com/satori/go.uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pivolan/sales_insights/domain/models"
	"github.com/pivolan/sales_insights/echart"
	"github.com/pivolan/sales_insights/insight"
	"github.com/pivolan/sales_insights/plot"
	"github.com/pivolan/sales_insights/summary"
)

const (
	pageTitle       = "Dynamic Graph Generator"
	shutdownTimeout = 10 * time.Second
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{ .Title }}</title>
    <meta charset="utf-8" />
</head>
<body>
    <h1 style="text-align: center;">{{ .Title }}</h1>
    <div style="margin: 20px;">
        <form method="POST" action="/">
            <label>Enter your query:</label>
            <input type="text" name="user_input" value="{{ .Query }}" placeholder="e.g., Show the trend of sales over time" style="width: 100%;" />
            <button type="submit" style="margin-top: 10px;">Generate</button>
        </form>
    </div>
    <div style="margin-top: 20px;">
        <iframe src="{{ .ChartURL }}" title="{{ .ChartTitle }}" style="width: 100%; height: 560px; border: 0;"></iframe>
        <p><a href="{{ .ImageURL }}">PNG</a></p>
    </div>
    <div style="margin-top: 40px;">
        <h3>Data Summary:</h3>
        <p>{{ .Summary }}</p>
    </div>
</body>
</html>
`))

type pageData struct {
	Title      string
	Query      string
	ChartURL   string
	ImageURL   string
	ChartTitle string
	Summary    string
}

type answerResponse struct {
	Query          string         `json:"query"`
	Intent         models.Intent  `json:"intent"`
	Rule           string         `json:"rule"`
	RenderedIntent models.Intent  `json:"rendered_intent"`
	Fallback       bool           `json:"fallback"`
	Kind           string         `json:"kind"`
	Title          string         `json:"title"`
	XField         string         `json:"x_field,omitempty"`
	YField         string         `json:"y_field"`
	ColorField     string         `json:"color_field,omitempty"`
	GroupMode      string         `json:"group_mode"`
	Source         string         `json:"source"`
	Rows           int            `json:"rows"`
	Summary        summaryPayload `json:"summary"`
	SummaryText    string         `json:"summary_text"`
}

type summaryPayload struct {
	TotalSales   *float64 `json:"total_sales"`
	AverageSales *float64 `json:"average_sales"`
	TopRegion    *string  `json:"top_region"`
	TopProduct   *string  `json:"top_product"`
}

type webHandler struct {
	svc *insight.Service
	log *zap.Logger
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query page and chart endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, svc, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer log.Sync()
			if addr == "" {
				addr = cfg.ListenAddr
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           newRouter(svc, log),
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      30 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, server, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides LISTEN_ADDR")
	return cmd
}

// serve runs server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, server *http.Server, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listen", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(svc *insight.Service, log *zap.Logger) http.Handler {
	h := &webHandler{svc: svc, log: log}
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/", h.index)
	r.Post("/", h.index)
	r.Get("/chart", h.chartHTML)
	r.Get("/chart.png", h.chartPNG)
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
			MaxAge:         300,
		}))
		r.Get("/answer", h.answer)
	})
	return r
}

type ctxKey struct{}

// requestID tags every request with a fresh id, echoed in X-Request-Id.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewV4().String()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("request_id", requestIDFrom(r)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

// query reads the user's question from the form (POST) or the q parameter.
func query(r *http.Request) string {
	if r.Method == http.MethodPost {
		return r.FormValue("user_input")
	}
	return r.URL.Query().Get("q")
}

func (h *webHandler) resolve(r *http.Request) insight.Answer {
	a := h.svc.Answer(query(r))
	h.log.Debug("query resolved",
		zap.String("request_id", requestIDFrom(r)),
		zap.String("query", a.Query),
		zap.String("rule", a.Rule),
		zap.String("intent", string(a.Intent)),
		zap.String("rendered", string(a.Spec.Intent)),
		zap.Bool("fallback", a.Spec.Fallback),
	)
	return a
}

func (h *webHandler) index(w http.ResponseWriter, r *http.Request) {
	a := h.resolve(r)
	q := url.Values{"q": {a.Query}}.Encode()
	data := pageData{
		Title:      pageTitle,
		Query:      a.Query,
		ChartURL:   "/chart?" + q,
		ImageURL:   "/chart.png?" + q,
		ChartTitle: a.Spec.Title,
		Summary:    summary.Format(a.Summary),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.log.Error("render page", zap.String("request_id", requestIDFrom(r)), zap.Error(err))
	}
}

func (h *webHandler) chartHTML(w http.ResponseWriter, r *http.Request) {
	a := h.resolve(r)
	body, err := echart.Render(a.Spec)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (h *webHandler) chartPNG(w http.ResponseWriter, r *http.Request) {
	a := h.resolve(r)
	body, err := plot.Render(a.Spec)
	if errors.Is(err, plot.ErrNoData) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(body)
}

func (h *webHandler) answer(w http.ResponseWriter, r *http.Request) {
	a := h.resolve(r)
	resp := answerResponse{
		Query:          a.Query,
		Intent:         a.Intent,
		Rule:           a.Rule,
		RenderedIntent: a.Spec.Intent,
		Fallback:       a.Spec.Fallback,
		Kind:           string(a.Spec.Kind),
		Title:          a.Spec.Title,
		XField:         a.Spec.XField,
		YField:         a.Spec.YField,
		ColorField:     a.Spec.ColorField,
		GroupMode:      string(a.Spec.GroupMode),
		Source:         a.Spec.Data.Description,
		Rows:           len(a.Spec.Data.Records),
		Summary:        newSummaryPayload(a.Summary),
		SummaryText:    summary.Format(a.Summary),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("encode answer", zap.String("request_id", requestIDFrom(r)), zap.Error(err))
	}
}

func (h *webHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("render chart", zap.String("request_id", requestIDFrom(r)), zap.Error(err))
	http.Error(w, "cannot render chart", http.StatusInternalServerError)
}

func newSummaryPayload(stats models.SummaryStats) summaryPayload {
	var p summaryPayload
	if stats.TotalSales.Valid {
		p.TotalSales = &stats.TotalSales.Float64
	}
	if stats.AverageSales.Valid {
		p.AverageSales = &stats.AverageSales.Float64
	}
	if stats.TopRegion.Valid {
		p.TopRegion = &stats.TopRegion.String
	}
	if stats.TopProduct.Valid {
		p.TopProduct = &stats.TopProduct.String
	}
	return p
}
