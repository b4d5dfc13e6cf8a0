package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/model"
	"github.com/iecs-iedis/casita_api/shared"
)

func testPagesService(t *testing.T, files map[string]string) *PagesService {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return &PagesService{dir: dir, publisherID: "ca-pub-1234567890"}
}

func renderedEval() *dto.AdEvaluation {
	return &dto.AdEvaluation{Decision: model.AdDecisionResult{AdsEligible: true, AdsRendered: true}}
}

func TestRenderPageInjectsAtMarker(t *testing.T) {
	svc := testPagesService(t, map[string]string{
		"inscripciones.html": "<html><body><h1>Inscripciones</h1><!-- ADS_SLOT --></body></html>",
	})

	html, err := svc.RenderPage("inscripciones.html", renderedEval())
	require.NoError(t, err)

	assert.Contains(t, html, "adsbygoogle")
	assert.Contains(t, html, "ca-pub-1234567890")
	assert.NotContains(t, html, "ADS_SLOT")
}

func TestRenderPageNoAdWhenNotRendered(t *testing.T) {
	svc := testPagesService(t, map[string]string{
		"page.html": "<html><body><!-- ADS_SLOT --></body></html>",
	})

	eval := &dto.AdEvaluation{Decision: model.AdDecisionResult{AdsEligible: true, AdsRendered: false}}
	html, err := svc.RenderPage("page.html", eval)
	require.NoError(t, err)

	assert.NotContains(t, html, "adsbygoogle")
	assert.NotContains(t, html, "ADS_SLOT", "the marker comment never reaches the client")
}

func TestRenderPageNilEvaluation(t *testing.T) {
	svc := testPagesService(t, map[string]string{
		"page.html": "<html><body><!-- ADS_SLOT --></body></html>",
	})

	html, err := svc.RenderPage("page.html", nil)
	require.NoError(t, err)
	assert.NotContains(t, html, "adsbygoogle")
}

func TestRenderPageFallsBackBeforeBody(t *testing.T) {
	svc := testPagesService(t, map[string]string{
		"old.html": "<html><body><p>pre-marker page</p></body></html>",
	})

	html, err := svc.RenderPage("old.html", renderedEval())
	require.NoError(t, err)

	idx := len(html) - len("</body></html>")
	assert.Contains(t, html[:idx], "adsbygoogle", "fragment lands before the closing body tag")
}

func TestRenderPageNoPublisherMeansNoAd(t *testing.T) {
	svc := testPagesService(t, map[string]string{
		"page.html": "<html><body><!-- ADS_SLOT --></body></html>",
	})
	svc.publisherID = ""

	html, err := svc.RenderPage("page.html", renderedEval())
	require.NoError(t, err)
	assert.NotContains(t, html, "adsbygoogle")
}

func TestRenderPageRejectsTraversal(t *testing.T) {
	svc := testPagesService(t, nil)

	for _, name := range []string{"../etc/passwd", "..%2Fsecret.html", "nested/page.html", "page.htm", ""} {
		_, err := svc.RenderPage(name, nil)
		require.Error(t, err, "name %q", name)

		appErr, ok := shared.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
	}
}

func TestRenderPageMissingFile(t *testing.T) {
	svc := testPagesService(t, nil)

	_, err := svc.RenderPage("nope.html", nil)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestRenderIndexInjectsNews(t *testing.T) {
	svc := testPagesService(t, map[string]string{
		"index.html": "<html><body><!-- NEWS_SLOT --><!-- ADS_SLOT --></body></html>",
	})

	noticias := []dto.NoticiaResponse{
		{ID: 1, Fecha: "2026-08-20", Titulo: "Inicio de clases"},
		{ID: 2, Fecha: "2026-08-15", Titulo: "Junta <de> padres"},
	}

	html, err := svc.RenderIndex(renderedEval(), noticias)
	require.NoError(t, err)

	assert.Contains(t, html, "Inicio de clases")
	assert.Contains(t, html, "/noticias/1")
	assert.Contains(t, html, "Junta &lt;de&gt; padres", "titles are escaped")
	assert.Contains(t, html, "adsbygoogle")
}

func TestRenderIndexEmptyNewsRemovesMarker(t *testing.T) {
	svc := testPagesService(t, map[string]string{
		"index.html": "<html><body><!-- NEWS_SLOT --></body></html>",
	})

	html, err := svc.RenderIndex(nil, nil)
	require.NoError(t, err)

	assert.NotContains(t, html, "NEWS_SLOT")
	assert.NotContains(t, html, "noticias-recientes")
}
