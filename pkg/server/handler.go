package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/footlab/pronos/internal/logger"
	"github.com/footlab/pronos/pkg/config"
	"github.com/footlab/pronos/pkg/datasource"
	"github.com/footlab/pronos/pkg/predict"
)

// Validation and status messages shown on the form
const (
	msgNoToken      = "Le jeton API n'est pas configuré. Configurez FOOTBALL_DATA_API_TOKEN dans .env."
	msgSelectTwo    = "Veuillez sélectionner deux équipes."
	msgSameTeam     = "Veuillez sélectionner deux équipes différentes."
	msgUnknownTeam  = "Équipe inconnue."
	msgProviderDown = "Les données de matchs sont momentanément indisponibles. Réessayez plus tard."
	msgInternal     = "Une erreur interne s'est produite."
)

// PredictionView is the display form of a prediction, with market picks
// already turned into labels
type PredictionView struct {
	Result         string                `json:"result"`
	DoubleChance   string                `json:"doubleChance"`
	ExactScore     string                `json:"exactScore"`
	ExpectedGoals  float64               `json:"expectedGoals"`
	HalfTimeWinner string                `json:"halfTimeWinner"`
	OverUnder      string                `json:"overUnder"`
	BothTeamsScore string                `json:"bothTeamsScore"`
	Probabilities  predict.Probabilities `json:"probabilities"`
}

type pageData struct {
	Teams      []string
	HomeTeam   string
	AwayTeam   string
	HomeLogo   string
	AwayLogo   string
	Error      string
	NoData     bool
	HomeStats  *predict.TeamStats
	AwayStats  *predict.TeamStats
	Prediction *PredictionView
}

// Handler serves the prediction form and the JSON API
type Handler struct {
	cfg *config.Config
	ds  *datasource.Client
}

func NewHandler(cfg *config.Config, ds *datasource.Client) *Handler {
	return &Handler{cfg: cfg, ds: ds}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/", h.Index)
	e.GET("/crest/:id", h.Crest)
	e.GET("/api/predict", h.PredictAPI)
}

// Index renders the team selection form; a POST with two teams adds the
// prediction panel
func (h *Handler) Index(c echo.Context) error {
	data := &pageData{Teams: h.cfg.TeamNames()}

	if h.cfg.API.Token == "" {
		data.Error = msgNoToken
	}

	if c.Request().Method == http.MethodPost {
		data.HomeTeam = c.FormValue("home_team")
		data.AwayTeam = c.FormValue("away_team")
		h.predictInto(data)
	}

	return c.Render(http.StatusOK, "index.html", data)
}

// predictInto validates the selected pairing and fills the page data with
// stats and market picks
func (h *Handler) predictInto(data *pageData) {
	if data.HomeTeam == "" || data.AwayTeam == "" {
		data.Error = msgSelectTwo
		return
	}
	if data.HomeTeam == data.AwayTeam {
		data.Error = msgSameTeam
		return
	}
	homeID, homeOK := h.cfg.TeamID(data.HomeTeam)
	awayID, awayOK := h.cfg.TeamID(data.AwayTeam)
	if !homeOK || !awayOK {
		data.Error = msgUnknownTeam
		return
	}

	// badges are served from our own origin via the crest proxy
	if h.ds.TeamCrest(homeID) != "" {
		data.HomeLogo = fmt.Sprintf("/crest/%d", homeID)
	}
	if h.ds.TeamCrest(awayID) != "" {
		data.AwayLogo = fmt.Sprintf("/crest/%d", awayID)
	}

	matches, err := h.ds.RelevantMatches(homeID, awayID)
	if err != nil {
		logger.Error("Failed to fetch matches", err)
		data.Error = msgProviderDown
		return
	}

	prediction, err := predict.Predict(homeID, awayID, matches)
	if err != nil {
		if errors.Is(err, predict.ErrNoData) {
			data.NoData = true
			return
		}
		logger.Error("Prediction failed", err)
		data.Error = msgInternal
		return
	}

	homeStats := predict.AggregateTeamStats(matches, homeID)
	awayStats := predict.AggregateTeamStats(matches, awayID)
	data.HomeStats = &homeStats
	data.AwayStats = &awayStats
	data.Prediction = viewOf(prediction)
}

// Crest proxies a team's crest image through our origin, validating that
// the upstream response really is an image before serving it
func (h *Handler) Crest(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.NoContent(http.StatusBadRequest)
	}

	data, contentType, err := h.ds.CrestImage(id)
	if err != nil {
		logger.Debug("No crest served", err)
		return c.NoContent(http.StatusNotFound)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400")
	return c.Blob(http.StatusOK, contentType, data)
}

// PredictAPI returns the prediction for ?home=...&away=... as JSON
func (h *Handler) PredictAPI(c echo.Context) error {
	homeTeam := c.QueryParam("home")
	awayTeam := c.QueryParam("away")

	if homeTeam == "" || awayTeam == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msgSelectTwo})
	}
	if homeTeam == awayTeam {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msgSameTeam})
	}
	homeID, homeOK := h.cfg.TeamID(homeTeam)
	awayID, awayOK := h.cfg.TeamID(awayTeam)
	if !homeOK || !awayOK {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msgUnknownTeam})
	}

	matches, err := h.ds.RelevantMatches(homeID, awayID)
	if err != nil {
		logger.Error("Failed to fetch matches", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": msgProviderDown})
	}

	prediction, err := predict.Predict(homeID, awayID, matches)
	if err != nil {
		if errors.Is(err, predict.ErrNoData) {
			return c.JSON(http.StatusOK, map[string]any{"noData": true})
		}
		logger.Error("Prediction failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": msgInternal})
	}

	homeStats := predict.AggregateTeamStats(matches, homeID)
	awayStats := predict.AggregateTeamStats(matches, awayID)
	return c.JSON(http.StatusOK, map[string]any{
		"homeTeam":   homeTeam,
		"awayTeam":   awayTeam,
		"homeStats":  homeStats,
		"awayStats":  awayStats,
		"prediction": viewOf(prediction),
	})
}

func viewOf(p *predict.Prediction) *PredictionView {
	return &PredictionView{
		Result:         string(p.Result),
		DoubleChance:   string(p.DoubleChance),
		ExactScore:     p.ExactScore,
		ExpectedGoals:  p.ExpectedGoals,
		HalfTimeWinner: string(p.HalfTimeWinner),
		OverUnder:      OverUnderLabel(p.OverUnder),
		BothTeamsScore: YesNoLabel(p.BothTeamsScore),
		Probabilities:  p.Probabilities,
	}
}
