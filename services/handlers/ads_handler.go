package handlers

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/model"
	"github.com/iecs-iedis/casita_api/shared"
)

type AdsHandler struct {
	adsSvc AdsServiceInterface
}

func NewAdsHandler(adsSvc AdsServiceInterface) *AdsHandler {
	return &AdsHandler{
		adsSvc: adsSvc,
	}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Control de anuncios</title>
<style>
body{font-family:sans-serif;max-width:720px;margin:2rem auto;padding:0 1rem}
fieldset{margin-bottom:1.5rem}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #ccc;padding:.4rem .6rem;text-align:right}
th:first-child,td:first-child{text-align:left}
.presets button{margin-right:.5rem}
</style>
</head>
<body>
<h1>Control de anuncios</h1>

<form method="post" action="/ads">
<fieldset>
<legend>Configuraci&oacute;n</legend>
<label><input type="checkbox" name="global_ads_enabled" value="1"{{if .Config.GlobalAdsEnabled}} checked{{end}}> Anuncios habilitados (global)</label><br>
<label><input type="checkbox" name="ads_for_internal" value="1"{{if .Config.AdsForInternal}} checked{{end}}> Segmento internal</label><br>
<label><input type="checkbox" name="ads_for_premium" value="1"{{if .Config.AdsForPremium}} checked{{end}}> Segmento premium</label><br>
<label><input type="checkbox" name="ads_for_daycare" value="1"{{if .Config.AdsForDaycare}} checked{{end}}> Segmento daycare</label><br>
<label><input type="checkbox" name="ads_for_organic" value="1"{{if .Config.AdsForOrganic}} checked{{end}}> Segmento organic</label><br>
<label>Rollout %: <input type="number" name="rollout_percentage" min="0" max="100" value="{{.Config.RolloutPercentage}}"></label>
</fieldset>

<div class="presets">
<button type="submit" name="preset" value="daycare-only">Solo daycare</button>
<button type="submit" name="preset" value="daycare-organic">Daycare + organic</button>
<button type="submit" name="preset" value="all-segments">Todos los segmentos</button>
<button type="submit">Guardar</button>
</div>
</form>

<h2>Visitas registradas</h2>
<table>
<tr><th>Segmento</th><th>Visitas</th><th>Elegibles</th><th>Mostrados</th></tr>
{{range .Stats.BySegment}}<tr><td>{{.UserSegment}}</td><td>{{.Visits}}</td><td>{{.Eligible}}</td><td>{{.Rendered}}</td></tr>
{{end}}<tr><th>Total</th><th>{{.Stats.TotalVisits}}</th><th>{{.Stats.TotalEligible}}</th><th>{{.Stats.TotalRendered}}</th></tr>
</table>
</body>
</html>
`))

type dashboardView struct {
	Config viewConfig
	Stats  dto.AdDashboardStats
}

type viewConfig struct {
	GlobalAdsEnabled  bool
	AdsForInternal    bool
	AdsForPremium     bool
	AdsForDaycare     bool
	AdsForOrganic     bool
	RolloutPercentage int
}

func toViewConfig(cfg *model.AdConfig) viewConfig {
	return viewConfig{
		GlobalAdsEnabled:  cfg.GlobalAdsEnabled == 1,
		AdsForInternal:    cfg.AdsForInternal == 1,
		AdsForPremium:     cfg.AdsForPremium == 1,
		AdsForDaycare:     cfg.AdsForDaycare == 1,
		AdsForOrganic:     cfg.AdsForOrganic == 1,
		RolloutPercentage: cfg.RolloutPercentage,
	}
}

// Dashboard renders the ad control page: current toggles, preset buttons
// and the aggregated audit counts.
func (h *AdsHandler) Dashboard(c *fiber.Ctx) error {
	cfg, err := h.adsSvc.GetConfig()
	if err != nil {
		return err
	}

	stats, err := h.adsSvc.DashboardStats()
	if err != nil {
		return err
	}

	var sb strings.Builder
	if err := dashboardTmpl.Execute(&sb, dashboardView{Config: toViewConfig(cfg), Stats: *stats}); err != nil {
		return shared.NewInternalError(err, "Failed to render dashboard")
	}

	return c.Type("html").SendString(sb.String())
}

func checkboxOn(v string) bool {
	switch strings.ToLower(v) {
	case "1", "on", "true":
		return true
	}
	return false
}

func formPatch(c *fiber.Ctx) dto.UpdateAdConfigRequest {
	// Unchecked boxes are absent from the form body, so every toggle is
	// always written: absent means false.
	global := checkboxOn(c.FormValue("global_ads_enabled"))
	internal := checkboxOn(c.FormValue("ads_for_internal"))
	premium := checkboxOn(c.FormValue("ads_for_premium"))
	daycare := checkboxOn(c.FormValue("ads_for_daycare"))
	organic := checkboxOn(c.FormValue("ads_for_organic"))

	req := dto.UpdateAdConfigRequest{
		GlobalAdsEnabled: &global,
		AdsForInternal:   &internal,
		AdsForPremium:    &premium,
		AdsForDaycare:    &daycare,
		AdsForOrganic:    &organic,
	}

	if raw := strings.TrimSpace(c.FormValue("rollout_percentage")); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			req.RolloutPercentage = &f
		}
	}

	return req
}

// Update applies either a named preset or the manual form patch, then
// redirects back to the dashboard.
func (h *AdsHandler) Update(c *fiber.Ctx) error {
	patch := formPatch(c)

	if preset := c.FormValue("preset"); preset != "" {
		if err := h.adsSvc.ApplyPreset(preset, patch); err != nil {
			return err
		}
		return c.Redirect("/ads", fiber.StatusFound)
	}

	if err := h.adsSvc.UpdateConfig(patch); err != nil {
		return err
	}

	return c.Redirect("/ads", fiber.StatusFound)
}

// RedirectAlias keeps the old /ad bookmark working.
func (h *AdsHandler) RedirectAlias(c *fiber.Ctx) error {
	return c.Redirect("/ads", fiber.StatusMovedPermanently)
}
