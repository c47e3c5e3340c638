// Package agent runs the grocery pipeline: detect the user's language,
// extract the dish's ingredients via a chat-completions model, persist them,
// look up one retailer link per ingredient, and stream progress lines to the
// caller as each step completes.
//
// The pipeline is strictly linear. Outbound calls are best-effort single
// shots: a failed ingredient search logs and degrades to "not found" rather
// than retrying.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexia-ai/sous/internal/extract"
	"github.com/lexia-ai/sous/internal/i18n"
	"github.com/lexia-ai/sous/internal/lexia"
	"github.com/lexia-ai/sous/internal/log"
	"github.com/lexia-ai/sous/internal/memory"
	"github.com/lexia-ai/sous/internal/metrics"
	"github.com/lexia-ai/sous/internal/pantry"
	"github.com/lexia-ai/sous/internal/search"
)

// greetings are matched against the whole trimmed, lowercased message.
var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hola": {}, "hey": {},
	"buenas": {}, "buenos días": {}, "buenas tardes": {}, "buenas noches": {},
}

// imageTag wraps an image URL in the markers the Lexia renderer understands.
const imageTag = "[lexia.image.start]%s[lexia.image.end]"

// Agent orchestrates one request through the pipeline.
type Agent struct {
	store        *memory.Store
	pantry       *pantry.Store
	extractor    *extract.Extractor
	searcher     *search.Client
	retailerSite string
	defaultLang  string
	logger       log.Logger
}

// Options configures an Agent. All stores and clients are required.
type Options struct {
	Store        *memory.Store
	Pantry       *pantry.Store
	Extractor    *extract.Extractor
	Searcher     *search.Client
	RetailerSite string
	DefaultLang  string
	Logger       log.Logger
}

// New creates an Agent.
func New(opts Options) (*Agent, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("conversation store is required")
	}
	if opts.Pantry == nil {
		return nil, fmt.Errorf("pantry store is required")
	}
	if opts.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if opts.Searcher == nil {
		return nil, fmt.Errorf("search client is required")
	}
	if opts.RetailerSite == "" {
		return nil, fmt.Errorf("retailer site is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	lang := opts.DefaultLang
	if lang == "" {
		lang = i18n.LangES
	}
	return &Agent{
		store:        opts.Store,
		pantry:       opts.Pantry,
		extractor:    opts.Extractor,
		searcher:     opts.Searcher,
		retailerSite: opts.RetailerSite,
		defaultLang:  lang,
		logger:       logger,
	}, nil
}

// Store exposes the conversation store for the HTTP thread endpoints.
func (a *Agent) Store() *memory.Store {
	return a.store
}

// Process runs the pipeline for one chat message, streaming progress through
// em and returning the full assembled response. A returned error means the
// request failed as a whole; user-facing conditions (missing key, no
// ingredients, greeting) produce normal responses instead.
func (a *Agent) Process(ctx context.Context, msg lexia.ChatMessage, em Emitter) (string, error) {
	a.logger.Info("processing message",
		"thread_id", msg.ThreadID,
		"response_uuid", msg.ResponseUUID,
		"model", msg.Model,
	)

	lang := a.detectLang(msg.Message)
	vars := lexia.NewVariables(msg.Variables)

	if !vars.Has(lexia.VarOpenAIKey) {
		a.logger.Error("openai api key not found or empty in variables", "thread_id", msg.ThreadID)
		reply := i18n.T(lang, "agent.missing_key")
		if err := em.Chunk(ctx, reply); err != nil {
			return "", err
		}
		return reply, nil
	}

	a.store.Append(msg.ThreadID, memory.RoleUser, msg.Message)

	if err := em.Chunk(ctx, i18n.T(lang, "agent.analyzing")); err != nil {
		return "", err
	}

	if _, ok := greetings[strings.ToLower(strings.TrimSpace(msg.Message))]; ok {
		reply := i18n.T(lang, "agent.greeting")
		if err := em.Chunk(ctx, reply); err != nil {
			return "", err
		}
		return reply, nil
	}

	ingredients, err := a.extractor.Ingredients(ctx, vars.Get(lexia.VarOpenAIKey), msg.Model, msg.Message)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("extracting ingredients: %w", err)
	}
	if len(ingredients) == 0 {
		metrics.ExtractionsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		reply := i18n.T(lang, "agent.no_items")
		if err := em.Chunk(ctx, reply); err != nil {
			return "", err
		}
		return reply, nil
	}
	metrics.ExtractionsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	if _, err := a.pantry.SaveIngredients(ingredients); err != nil {
		return "", fmt.Errorf("saving ingredients: %w", err)
	}

	if err := a.streamIngredients(ctx, em, lang, ingredients); err != nil {
		return "", err
	}

	resultLines, err := a.streamRetailerLinks(ctx, em, lang, vars.Get(lexia.VarSerperKey), ingredients)
	if err != nil {
		return "", err
	}

	final := assembleResponse(lang, ingredients, resultLines)
	a.store.Append(msg.ThreadID, memory.RoleAssistant, final)

	a.logger.Info("message processing completed", "thread_id", msg.ThreadID, "ingredients", len(ingredients))
	return final, nil
}

// streamIngredients emits the detected-ingredients block.
func (a *Agent) streamIngredients(ctx context.Context, em Emitter, lang string, ingredients []string) error {
	if err := em.Chunk(ctx, i18n.T(lang, "ingredients.header")); err != nil {
		return err
	}
	for _, ing := range ingredients {
		if err := em.Chunk(ctx, i18n.Sprintf(lang, "ingredients.item", ing)); err != nil {
			return err
		}
	}
	return em.Chunk(ctx, i18n.Sprintf(lang, "ingredients.saved", len(ingredients), pantry.IngredientsFile))
}

// streamRetailerLinks looks up one retailer link per ingredient, streaming a
// progress line and a result line for each. Search failures degrade to
// "not found".
func (a *Agent) streamRetailerLinks(ctx context.Context, em Emitter, lang, serperKey string, ingredients []string) ([]string, error) {
	lines := []string{i18n.Sprintf(lang, "links.header", a.retailerSite)}

	for _, ing := range ingredients {
		if err := em.Chunk(ctx, i18n.Sprintf(lang, "links.searching", a.retailerSite, ing)); err != nil {
			return nil, err
		}

		query := fmt.Sprintf("%s site:%s", ing, a.retailerSite)
		link, err := a.searcher.FirstLink(ctx, serperKey, query)
		if err != nil {
			a.logger.Error("retailer search failed", "ingredient", ing, "error", err)
			metrics.SearchesTotal.WithLabelValues("web", metrics.OutcomeError).Inc()
			link = ""
		}

		if link != "" {
			metrics.SearchesTotal.WithLabelValues("web", metrics.OutcomeFound).Inc()
			if err := em.Chunk(ctx, i18n.Sprintf(lang, "links.found", ing, link)); err != nil {
				return nil, err
			}
			lines = append(lines, i18n.Sprintf(lang, "links.line", ing, link))
		} else {
			if err == nil {
				metrics.SearchesTotal.WithLabelValues("web", metrics.OutcomeNotFound).Inc()
			}
			if err := em.Chunk(ctx, i18n.Sprintf(lang, "links.not_found", ing)); err != nil {
				return nil, err
			}
			lines = append(lines, i18n.Sprintf(lang, "links.line_none", ing))
		}
	}
	return lines, nil
}

// assembleResponse builds the completion payload mirroring what was streamed.
func assembleResponse(lang string, ingredients, resultLines []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(i18n.T(lang, "ingredients.header"), "\n"))
	b.WriteString("\n- ")
	b.WriteString(strings.Join(ingredients, "\n- "))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(resultLines, "\n"))
	return b.String()
}

// detectLang guesses the reply language, falling back to the configured
// default for blank messages.
func (a *Agent) detectLang(message string) string {
	if strings.TrimSpace(message) == "" {
		return a.defaultLang
	}
	return i18n.Detect(message)
}
