package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/ehf-cli/internal/config"
	"github.com/sells-group/ehf-cli/internal/pdfsource"
	"github.com/sells-group/ehf-cli/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start upload server for extract analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		src, err := pdfsource.New(cfg.PDF)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
			return eris.Wrapf(err, "serve: create upload dir %s", cfg.Server.UploadDir)
		}

		p := pipeline.New(src, cfg.Output.Dir)
		router := newRouter(cfg.Server, p)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

const uploadPage = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Analyse d'extrait hypothécaire</title></head>
<body>
<h1>Analyse d'extrait hypothécaire</h1>
<form action="/analyze" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".pdf" required>
  <button type="submit">Analyser</button>
</form>
</body>
</html>
`

func newRouter(serverCfg config.ServerConfig, p *pipeline.Pipeline) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(serverCfg.UploadsPerSec), 1)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, uploadPage)
	})

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/analyze", func(w http.ResponseWriter, req *http.Request) {
		if !limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "trop de requêtes, réessayez plus tard")
			return
		}

		req.Body = http.MaxBytesReader(w, req.Body, serverCfg.MaxUploadMB<<20)
		file, header, err := req.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "fichier manquant ou trop volumineux")
			return
		}
		defer file.Close()

		if !allowedFile(header.Filename) {
			writeError(w, http.StatusBadRequest, "seuls les fichiers PDF sont acceptés")
			return
		}

		// Keep the original stem so the output files carry the uploaded name.
		tmpPath := filepath.Join(serverCfg.UploadDir, uuid.NewString()+"_"+filepath.Base(header.Filename))
		dst, err := os.Create(tmpPath)
		if err != nil {
			zap.L().Error("upload save failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "échec de l'enregistrement du fichier")
			return
		}
		defer os.Remove(tmpPath)

		_, err = io.Copy(dst, file)
		dst.Close()
		if err != nil {
			zap.L().Error("upload save failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "échec de l'enregistrement du fichier")
			return
		}

		result, err := p.Run(req.Context(), tmpPath)
		if err != nil {
			zap.L().Error("analysis failed",
				zap.String("file", header.Filename),
				zap.Error(err),
			)
			writeError(w, http.StatusUnprocessableEntity, "échec de l'analyse du document")
			return
		}
		result.Filename = filepath.Base(header.Filename)

		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.Encode(result)
	})

	return r
}

func allowedFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
