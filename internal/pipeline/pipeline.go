// Package pipeline turns one registry-extract PDF into structured JSON:
// formality records, surviving mortgages, mutation detail, and the
// reconstructed current ownership of the reference property.
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ehf-cli/internal/model"
	"github.com/sells-group/ehf-cli/internal/pdfsource"
)

// Pipeline runs the full extraction for one document. Processing is
// synchronous and single-threaded per document; a Pipeline holds no
// per-document state and is safe to reuse across documents.
type Pipeline struct {
	source pdfsource.Source
	outDir string
	now    func() time.Time
}

// New creates a Pipeline writing its JSON documents under outDir. An empty
// outDir disables file output.
func New(source pdfsource.Source, outDir string) *Pipeline {
	return &Pipeline{source: source, outDir: outDir, now: time.Now}
}

// Result describes one completed extraction.
type Result struct {
	ID             string                     `json:"id"`
	Filename       string                     `json:"filename"`
	DateAnalyse    string                     `json:"date_analyse"`
	FormalitesFile string                     `json:"formalites_file,omitempty"`
	ImmeublesFile  string                     `json:"immeubles_file,omitempty"`
	Document       *model.FormalitiesDocument `json:"document"`
	Immeubles      []model.ReferenceProperty  `json:"immeubles"`
}

// Run processes one PDF end to end. Field-level parse misses degrade to
// sentinels inside the stages; only an unreadable document aborts the run.
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*Result, error) {
	id := uuid.NewString()
	log := zap.L().With(
		zap.String("extraction_id", id),
		zap.String("file", pdfPath),
	)
	log.Info("extraction started")

	text, err := p.source.Text(ctx, pdfPath)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read document text")
	}

	formalities := ParseFormalities(text)
	log.Info("formalities extracted", zap.Int("count", len(formalities)))

	counts := CountActeTypes(formalities)
	mortgages := ActiveMortgages(formalities)
	log.Info("active mortgages resolved", zap.Int("count", len(mortgages)))

	mutations := AnalyzeMutations(formalities)
	log.Info("mutations extracted", zap.Int("count", len(mutations)))

	rows, lastPage, err := p.source.LastPageRows(ctx, pdfPath)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read last-page tables")
	}
	immeubles := ExtractReferenceRows(rows, lastPage)
	log.Info("reference properties extracted", zap.Int("count", len(immeubles)))

	ownership := ReconstructOwnership(mutations, immeubles)
	log.Info("ownership reconstructed", zap.Int("owners", len(ownership)))

	if ownership == nil {
		ownership = []model.OwnershipRecord{}
	}
	if immeubles == nil {
		immeubles = []model.ReferenceProperty{}
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	now := p.now()
	doc := &model.FormalitiesDocument{
		Formalites:         formalities,
		HypothequesActives: mortgages,
		Mutations:          mutations,
		Statistiques: model.Statistics{
			NombreTotalFormalites:    len(formalities),
			NombreHypothequesActives: len(mortgages),
			NombreMutations:          len(mutations),
			ComptageParType:          counts,
			DateExtraction:           now.Format("2006-01-02"),
			FichierSource:            stem,
			ProprieteReconstituee:    len(ownership) > 0,
		},
		ProprieteActuelle: ownership,
	}

	result := &Result{
		ID:          id,
		Filename:    filepath.Base(pdfPath),
		DateAnalyse: now.Format("02/01/2006 15:04:05"),
		Document:    doc,
		Immeubles:   immeubles,
	}

	if p.outDir != "" {
		if err := os.MkdirAll(p.outDir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "pipeline: create output dir %s", p.outDir)
		}
		result.FormalitesFile = filepath.Join(p.outDir, stem+"_formalites.json")
		result.ImmeublesFile = filepath.Join(p.outDir, stem+"_immeubles_derniere_page.json")
		if err := writeJSON(result.FormalitesFile, doc); err != nil {
			return nil, err
		}
		if err := writeJSON(result.ImmeublesFile, immeubles); err != nil {
			return nil, err
		}
		log.Info("documents written",
			zap.String("formalites", result.FormalitesFile),
			zap.String("immeubles", result.ImmeublesFile),
		)
	}

	return result, nil
}

// writeJSON writes v as indented UTF-8 JSON without HTML escaping, so the
// French text stays readable in the output files.
func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "pipeline: create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrapf(err, "pipeline: encode %s", path)
	}
	return nil
}
