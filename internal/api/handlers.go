package api

import (
	"net/http"
	"strconv"

	"github.com/dpshade/quranembed/internal/corpus"
	"github.com/labstack/echo/v4"
)

// Handler serves an embedded corpus over HTTP
type Handler struct {
	corpus *corpus.Corpus
	surahs map[int]*corpus.Surah
}

// NewHandler creates a handler over a loaded corpus
func NewHandler(c *corpus.Corpus) *Handler {
	surahs := make(map[int]*corpus.Surah, len(c.Surahs))
	for _, s := range c.Surahs {
		surahs[s.ID] = s
	}
	return &Handler{
		corpus: c,
		surahs: surahs,
	}
}

// Health handles health check requests
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// StatusResponse summarizes the loaded corpus
type StatusResponse struct {
	TotalSurahs          int `json:"total_surahs"`
	TotalVerses          int `json:"total_verses"`
	VersesWithEmbeddings int `json:"verses_with_embeddings"`
	Dimensions           int `json:"dimensions"`
}

// Status reports corpus totals and embedding coverage
func (h *Handler) Status(c echo.Context) error {
	status := StatusResponse{
		TotalSurahs: h.corpus.TotalSurahs,
		TotalVerses: h.corpus.TotalVerses,
	}

	for _, surah := range h.corpus.Surahs {
		for i := range surah.Verses {
			verse := &surah.Verses[i]
			if verse.HasEmbedding() {
				status.VersesWithEmbeddings++
				if status.Dimensions == 0 {
					status.Dimensions = len(verse.Embedding.Vector())
				}
			}
		}
	}

	return c.JSON(http.StatusOK, status)
}

// GetSurah returns one surah with its verses and embeddings
func (h *Handler) GetSurah(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 || id > corpus.MaxSurahs {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid surah id",
		})
	}

	surah, ok := h.surahs[id]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Surah not found",
		})
	}

	return c.JSON(http.StatusOK, surah)
}

// GetVerse returns a single verse of a surah
func (h *Handler) GetVerse(c echo.Context) error {
	surahID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid surah id",
		})
	}
	verseID, err := strconv.Atoi(c.Param("verse"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid verse id",
		})
	}

	surah, ok := h.surahs[surahID]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Surah not found",
		})
	}

	for i := range surah.Verses {
		if surah.Verses[i].ID == verseID {
			return c.JSON(http.StatusOK, &surah.Verses[i])
		}
	}

	return c.JSON(http.StatusNotFound, map[string]string{
		"error": "Verse not found",
	})
}
