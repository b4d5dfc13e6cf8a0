package services

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alphabatem/common/context"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/shared"
)

// PagesService serves the designer's legacy HTML untouched on disk,
// injecting dynamic fragments (ad markup, recent news) at marker comments
// before the response goes out. The HTML files themselves are never
// modified.
type PagesService struct {
	context.DefaultService

	dir         string
	publisherID string
}

const PAGES_SVC = "pages_svc"

const (
	adSlotMarker   = "<!-- ADS_SLOT -->"
	newsSlotMarker = "<!-- NEWS_SLOT -->"
)

var legacyPageName = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.html$`)

func (svc PagesService) Id() string {
	return PAGES_SVC
}

func (svc *PagesService) Configure(ctx *context.Context) error {
	svc.dir = os.Getenv("LEGACY_HTML_DIR")
	if svc.dir == "" {
		svc.dir = filepath.Join("public", "legacy")
	}
	svc.publisherID = os.Getenv("ADSENSE_PUBLISHER_ID")

	return svc.DefaultService.Configure(ctx)
}

func (svc *PagesService) Start() error {
	return nil
}

// PublisherID exposes the configured AdSense publisher id for ads.txt.
func (svc *PagesService) PublisherID() string {
	return svc.publisherID
}

func (svc *PagesService) readLegacyHTML(filename string) (string, error) {
	if !legacyPageName.MatchString(filename) {
		return "", shared.NewNotFoundError(fmt.Errorf("invalid legacy page name %q", filename), "Not Found")
	}

	b, err := os.ReadFile(filepath.Join(svc.dir, filename))
	if err != nil {
		return "", shared.NewNotFoundError(err, "Not Found")
	}
	return string(b), nil
}

// adMarkup builds the ad fragment for rendered decisions. Empty when the
// decision says no ad or no publisher is configured.
func (svc *PagesService) adMarkup(eval *dto.AdEvaluation) string {
	if eval == nil || !eval.Decision.AdsRendered || svc.publisherID == "" {
		return ""
	}

	return fmt.Sprintf(`<div class="ad-slot">
<script async src="https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js?client=%s" crossorigin="anonymous"></script>
<ins class="adsbygoogle" style="display:block" data-ad-client="%s" data-ad-format="auto" data-full-width-responsive="true"></ins>
<script>(adsbygoogle = window.adsbygoogle || []).push({});</script>
</div>`, svc.publisherID, svc.publisherID)
}

func newsMarkup(noticias []dto.NoticiaResponse) string {
	if len(noticias) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<ul class="noticias-recientes">`)
	for _, n := range noticias {
		sb.WriteString(fmt.Sprintf(
			`<li><a href="/noticias/%d"><span class="fecha">%s</span> %s</a></li>`,
			n.ID,
			template.HTMLEscapeString(n.Fecha),
			template.HTMLEscapeString(n.Titulo),
		))
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

// inject replaces a marker comment with the fragment; when the ad marker
// is missing the fragment is inserted just before </body> so legacy pages
// that predate the markers still work.
func inject(html, marker, fragment string) string {
	if strings.Contains(html, marker) {
		return strings.Replace(html, marker, fragment, 1)
	}
	if fragment == "" {
		return html
	}
	if marker == adSlotMarker {
		if i := strings.LastIndex(html, "</body>"); i >= 0 {
			return html[:i] + fragment + html[i:]
		}
	}
	return html
}

// RenderPage serves a legacy page with ad markup injected per decision.
func (svc *PagesService) RenderPage(page string, eval *dto.AdEvaluation) (string, error) {
	html, err := svc.readLegacyHTML(page)
	if err != nil {
		return "", err
	}
	return inject(html, adSlotMarker, svc.adMarkup(eval)), nil
}

// RenderIndex serves the landing page with both the ad fragment and the
// recent-news block injected.
func (svc *PagesService) RenderIndex(eval *dto.AdEvaluation, noticias []dto.NoticiaResponse) (string, error) {
	html, err := svc.readLegacyHTML("index.html")
	if err != nil {
		return "", err
	}

	html = inject(html, newsSlotMarker, newsMarkup(noticias))
	return inject(html, adSlotMarker, svc.adMarkup(eval)), nil
}
