package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"rankdash/internal/excel"
	"rankdash/internal/ingest"
	"rankdash/internal/metrics"
	"rankdash/internal/models"
	"rankdash/internal/validation"
)

var errMissingFile = errors.New(`multipart upload must include a "file" field`)

// ImportHandler handles CSV and spreadsheet imports and template downloads.
type ImportHandler struct {
	store Store
}

// NewImportHandler creates a new API import handler.
func NewImportHandler(store Store) *ImportHandler {
	return &ImportHandler{store: store}
}

// KeywordsCSV imports a keyword export. The CSV is the raw request body or
// the "file" field of a multipart form. ?strict=true rejects rows with
// unparseable numbers instead of storing them as 0; ?category= tags every
// imported keyword.
func (h *ImportHandler) KeywordsCSV(c fiber.Ctx) error {
	const kind = "keywords_csv"

	data, err := readUpload(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := ingest.ParseKeywordsCSVWithOptions(string(data), importOptions(c))
	if err != nil {
		metrics.RecordImport(kind, "unreadable", 0)
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	resp := models.ImportResponse{
		Errors:   nonNil(result.Errors),
		Warnings: ingest.WarningStrings(result.Warnings),
	}
	if len(result.Keywords) == 0 {
		metrics.RecordImport(kind, "rejected", 0)
		return jsonRejected(c, "no valid keywords found", resp)
	}

	if category := c.Query("category"); category != "" {
		for i := range result.Keywords {
			result.Keywords[i].Category = category
		}
	}

	created, err := h.store.CreateKeywords(c.Context(), result.Keywords)
	if err != nil {
		slog.Error("keyword import failed", "error", err)
		metrics.RecordImport(kind, "failed", 0)
		return jsonError(c, fiber.StatusInternalServerError, "failed to save keywords")
	}

	resp.Imported = len(created)
	resp.Valid = len(resp.Errors) == 0
	metrics.RecordImport(kind, outcome(resp), resp.Imported)
	slog.Info("imported keywords", "count", resp.Imported, "warnings", len(resp.Warnings), "errors", len(resp.Errors))
	return jsonSuccess(c, resp)
}

// RankingsCSV imports a ranking export against the stored keywords and
// refreshes keyword ranks from the result.
func (h *ImportHandler) RankingsCSV(c fiber.Ctx) error {
	const kind = "rankings_csv"

	data, err := readUpload(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	keywords, err := h.store.ListKeywords(c.Context(), "")
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
	}

	result, err := ingest.ParseRankingsCSVWithOptions(string(data), keywords, importOptions(c))
	if err != nil {
		metrics.RecordImport(kind, "unreadable", 0)
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	resp := models.ImportResponse{
		Errors:   nonNil(result.Errors),
		Warnings: ingest.WarningStrings(result.Warnings),
	}
	if result.Unmatched > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d rows matched no keyword and were skipped", result.Unmatched))
	}
	if len(result.Rankings) == 0 {
		metrics.RecordImport(kind, "rejected", 0)
		return jsonRejected(c, "no valid rankings found", resp)
	}

	saved, err := h.store.UpsertRankings(c.Context(), result.Rankings)
	if err != nil {
		slog.Error("ranking import failed", "error", err)
		metrics.RecordImport(kind, "failed", 0)
		return jsonError(c, fiber.StatusInternalServerError, "failed to save rankings")
	}
	if _, err := syncKeywordRanks(c.Context(), h.store); err != nil {
		slog.Error("rank sync failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to update keyword ranks")
	}

	resp.Imported = len(saved)
	resp.Valid = len(resp.Errors) == 0
	metrics.RecordImport(kind, outcome(resp), resp.Imported)
	return jsonSuccess(c, resp)
}

// Excel imports a spreadsheet built from one of the templates. The workbook
// is the "file" field of a multipart form. Valid rows are stored even when
// other rows fail; every row error is returned.
func (h *ImportHandler) Excel(c fiber.Ctx) error {
	kind, err := excel.ParseKind(c.Params("kind"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, err.Error())
	}
	metricKind := "excel_" + string(kind)

	data, err := readUpload(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, err := excel.ParseFile(bytes.NewReader(data))
	if err != nil {
		metrics.RecordImport(metricKind, "unreadable", 0)
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var resp models.ImportResponse
	var validRows int
	switch kind {
	case excel.KindClient:
		res := excel.ValidateClientData(rows)
		resp.Errors, validRows = res.Errors, len(res.Data)
		if validRows > 0 {
			resp.Imported, err = h.store.CreateClients(c.Context(), res.Data)
		}
	case excel.KindKeyword:
		res := excel.ValidateKeywordData(rows)
		resp.Errors, validRows = res.Errors, len(res.Data)
		if validRows > 0 {
			var created []models.Keyword
			created, err = h.store.CreateKeywords(c.Context(), res.Data)
			resp.Imported = len(created)
		}
	case excel.KindCompetitor:
		res := excel.ValidateCompetitorData(rows)
		resp.Errors, validRows = res.Errors, len(res.Data)
		if validRows > 0 {
			resp.Imported, resp.Warnings, err = h.importCompetitors(c, res.Data)
		}
	case excel.KindGlobalKeyword:
		res := excel.ValidateGlobalKeywordData(rows)
		resp.Errors, validRows = res.Errors, len(res.Data)
		if validRows > 0 {
			resp.Imported, err = h.store.UpsertGlobalKeywords(c.Context(), res.Data)
		}
	}
	resp.Errors = nonNil(resp.Errors)

	if err != nil {
		slog.Error("spreadsheet import failed", "kind", kind, "error", err)
		metrics.RecordImport(metricKind, "failed", 0)
		return jsonError(c, fiber.StatusInternalServerError, "failed to save imported rows")
	}
	if validRows == 0 {
		metrics.RecordImport(metricKind, "rejected", 0)
		return jsonRejected(c, "no valid rows found", resp)
	}

	resp.Valid = len(resp.Errors) == 0
	metrics.RecordImport(metricKind, outcome(resp), resp.Imported)
	return jsonSuccess(c, resp)
}

// importCompetitors matches competitor rows to stored keywords by text and
// upserts them as rankings.
func (h *ImportHandler) importCompetitors(c fiber.Ctx, rows []excel.CompetitorRow) (int, []string, error) {
	keywords, err := h.store.ListKeywords(c.Context(), "")
	if err != nil {
		return 0, nil, err
	}
	byText := make(map[string]models.Keyword, len(keywords))
	for _, kw := range keywords {
		key := validation.NormalizeKeyword(kw.Text)
		if _, dup := byText[key]; !dup {
			byText[key] = kw
		}
	}

	var warnings []string
	var rankings []models.Ranking
	for _, row := range rows {
		kw, ok := byText[validation.NormalizeKeyword(row.Keyword)]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Keyword %q not found, competitor %q skipped", row.Keyword, row.Name))
			continue
		}
		rankings = append(rankings, row.Ranking(kw.ID))
	}
	if len(rankings) == 0 {
		return 0, warnings, nil
	}

	saved, err := h.store.UpsertRankings(c.Context(), rankings)
	if err != nil {
		return 0, warnings, err
	}
	if _, err := syncKeywordRanks(c.Context(), h.store); err != nil {
		return 0, warnings, err
	}
	return len(saved), warnings, nil
}

// Template downloads a sample workbook for a spreadsheet kind.
func (h *ImportHandler) Template(c fiber.Ctx) error {
	kind, err := excel.ParseKind(c.Params("kind"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, err.Error())
	}

	f, err := excel.GenerateTemplate(kind)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to build template")
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to build template")
	}

	c.Attachment(string(kind) + "_template.xlsx")
	return c.Send(buf.Bytes())
}

// readUpload returns the "file" field of a multipart form, or the raw body.
func readUpload(c fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return c.Body(), nil
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

func importOptions(c fiber.Ctx) ingest.Options {
	return ingest.Options{Strict: validation.ParseBool(c.Query("strict"))}
}

func outcome(resp models.ImportResponse) string {
	if len(resp.Errors) > 0 {
		return "partial"
	}
	return "ok"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
