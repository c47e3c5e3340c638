package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexia-ai/sous/internal/i18n"
	"github.com/lexia-ai/sous/internal/lexia"
	"github.com/lexia-ai/sous/internal/metrics"
	"github.com/lexia-ai/sous/internal/pantry"
)

// Menu gallery limits.
const (
	minImagesPerItem = 1
	maxImagesPerItem = 3
)

// MenuRequest is the input for the menu-gallery flow.
type MenuRequest struct {
	MenuText       string           `json:"menu_text"`
	ResultsPerItem int              `json:"results_per_item,omitempty"`
	Variables      []lexia.Variable `json:"variables,omitempty"`
}

// BuildMenuGallery parses menu text into items, writes them to menu.txt, and
// streams one food image per item found via the image-search API. Returns a
// combined summary of the gallery.
func (a *Agent) BuildMenuGallery(ctx context.Context, req MenuRequest, em Emitter) (string, error) {
	lang := a.detectLang(req.MenuText)
	perItem := min(max(req.ResultsPerItem, minImagesPerItem), maxImagesPerItem)

	items := pantry.ParseMenuItems(req.MenuText)
	if len(items) == 0 {
		reply := i18n.T(lang, "menu.empty")
		a.logger.Info("menu gallery requested with no parseable items")
		if err := em.Chunk(ctx, reply); err != nil {
			return "", err
		}
		return reply, nil
	}

	if _, err := a.pantry.SaveMenu(items); err != nil {
		return "", fmt.Errorf("saving menu: %w", err)
	}
	if err := em.Chunk(ctx, i18n.Sprintf(lang, "menu.saved", pantry.MenuFile, len(items))); err != nil {
		return "", err
	}

	serperKey := lexia.NewVariables(req.Variables).Get(lexia.VarSerperKey)
	combined := []string{i18n.Sprintf(lang, "menu.header", len(items))}

	for idx, item := range items {
		if err := em.Chunk(ctx, i18n.Sprintf(lang, "menu.item", idx+1, item)); err != nil {
			return "", err
		}

		foundAny := false
		for range perItem {
			imageURL, err := a.searcher.FirstImage(ctx, serperKey, item)
			if err != nil {
				a.logger.Error("image search failed", "item", item, "error", err)
				metrics.SearchesTotal.WithLabelValues("image", metrics.OutcomeError).Inc()
				break
			}
			if imageURL == "" {
				metrics.SearchesTotal.WithLabelValues("image", metrics.OutcomeNotFound).Inc()
				break
			}
			metrics.SearchesTotal.WithLabelValues("image", metrics.OutcomeFound).Inc()
			foundAny = true

			tagged := fmt.Sprintf(imageTag, imageURL)
			if err := em.Chunk(ctx, tagged); err != nil {
				return "", err
			}
			combined = append(combined, fmt.Sprintf("%d. %s: %s", idx+1, item, tagged))
		}

		if !foundAny {
			if err := em.Chunk(ctx, i18n.Sprintf(lang, "menu.no_image", item)); err != nil {
				return "", err
			}
		}
	}

	return strings.Join(combined, "\n"), nil
}
