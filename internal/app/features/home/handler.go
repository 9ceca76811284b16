// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type tile struct {
	Href  string
	Label string
	Blurb string
}

var blurbs = map[string]string{
	models.KindNotes.Name:         "Lecture notes shared by your seniors and classmates.",
	models.KindPYQs.Name:          "Previous year question papers, by subject and exam.",
	models.KindVideos.Name:        "Video lectures picked for your syllabus.",
	models.KindOpportunities.Name: "Internships, hackathons and scholarships.",
	models.KindStore.Name:         "Buy and sell books, drafters and calculators.",
	models.KindSeniors.Name:       "Find a senior to ask about courses and careers.",
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	tiles := make([]tile, 0, len(models.Kinds))
	for _, k := range models.Kinds {
		tiles = append(tiles, tile{Href: "/" + k.Name, Label: k.Label, Blurb: blurbs[k.Name]})
	}
	data := struct {
		viewdata.BaseVM
		Tiles []tile
	}{
		BaseVM: viewdata.NewBaseVM(w, r, "", "/"),
		Tiles:  tiles,
	}

	templates.Render(w, r, "home", data)
}
