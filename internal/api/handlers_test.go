package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dpshade/quranembed/internal/corpus"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *Handler {
	c := corpus.New([]*corpus.Surah{
		{
			ID:              1,
			Name:            "الفاتحة",
			Transliteration: "Al-Fatihah",
			Verses: []corpus.Verse{
				{ID: 1, Translation: "In the name of God", Embedding: corpus.Ok([]float32{0.1, 0.2})},
				{ID: 2, Translation: "Praise be to God", Embedding: corpus.Failed("provider exploded")},
			},
		},
	}, 2)
	return NewHandler(c)
}

func doRequest(t *testing.T, handler func(echo.Context) error, path string, names []string, values []string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	require.NoError(t, handler(c))
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, testHandler().Health, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestStatus(t *testing.T) {
	rec := doRequest(t, testHandler().Status, "/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 1, status.TotalSurahs)
	assert.Equal(t, 2, status.TotalVerses)
	assert.Equal(t, 1, status.VersesWithEmbeddings)
	assert.Equal(t, 2, status.Dimensions)
}

func TestGetSurah(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h.GetSurah, "/surahs/1", []string{"id"}, []string{"1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var surah corpus.Surah
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &surah))
	assert.Equal(t, "Al-Fatihah", surah.Transliteration)
	assert.Len(t, surah.Verses, 2)

	rec = doRequest(t, h.GetSurah, "/surahs/2", []string{"id"}, []string{"2"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h.GetSurah, "/surahs/115", []string{"id"}, []string{"115"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h.GetSurah, "/surahs/abc", []string{"id"}, []string{"abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVerse(t *testing.T) {
	h := testHandler()

	rec := doRequest(t, h.GetVerse, "/surahs/1/verses/1", []string{"id", "verse"}, []string{"1", "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var verse corpus.Verse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verse))
	assert.Equal(t, "In the name of God", verse.Translation)
	assert.True(t, verse.HasEmbedding())

	// Failed embeddings come back as null, not an error.
	rec = doRequest(t, h.GetVerse, "/surahs/1/verses/2", []string{"id", "verse"}, []string{"1", "2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"embedding":null`)

	rec = doRequest(t, h.GetVerse, "/surahs/1/verses/99", []string{"id", "verse"}, []string{"1", "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
