package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dlclark/regexp2"
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/price"
)

var (
	rowPattern   = regexp2.MustCompile(`<tr\b[^>]*>.*?</tr>`, regexp2.IgnoreCase|regexp2.Singleline)
	slugPattern  = regexp2.MustCompile(`href\s*=\s*["'](?:[^"']*/)?models/([A-Za-z0-9][\w.:\-]*)["'/?#]`, regexp2.IgnoreCase)
	pricePattern = regexp2.MustCompile(`\$\s*\d[\d,]*(?:\.\d+)?`, regexp2.None)

	imageGenLabel  = regexp2.MustCompile(`\bimage[\s\-]*gen`, regexp2.IgnoreCase)
	webSearchLabel = regexp2.MustCompile(`\bweb[\s\-]*search`, regexp2.IgnoreCase)
	negation       = regexp2.MustCompile(`—|\bnone\b|\bno\b`, regexp2.IgnoreCase)
)

type providerRule struct {
	provider string
	pattern  *regexp2.Regexp
}

// first match wins
var providerRules = []providerRule{
	{provider: "openai", pattern: regexp2.MustCompile(`\b(?:openai|gpt|dall-e)\b`, regexp2.IgnoreCase)},
	{provider: "anthropic", pattern: regexp2.MustCompile(`\b(?:anthropic|claude)\b`, regexp2.IgnoreCase)},
	{provider: "google", pattern: regexp2.MustCompile(`\b(?:google|gemini)\b`, regexp2.IgnoreCase)},
	{provider: "xai", pattern: regexp2.MustCompile(`\b(?:xai|x\.ai|grok)\b`, regexp2.IgnoreCase)},
	{provider: "meta", pattern: regexp2.MustCompile(`\b(?:meta|llama)\b`, regexp2.IgnoreCase)},
	{provider: "mistral", pattern: regexp2.MustCompile(`\b(?:mistral|mixtral)\b`, regexp2.IgnoreCase)},
	{provider: "deepseek", pattern: regexp2.MustCompile(`\bdeepseek\b`, regexp2.IgnoreCase)},
	{provider: "perplexity", pattern: regexp2.MustCompile(`\b(?:perplexity|sonar)\b`, regexp2.IgnoreCase)},
}

var slugPrefixes = []struct {
	prefix   string
	provider string
}{
	{prefix: "gpt-", provider: "openai"},
	{prefix: "claude-", provider: "anthropic"},
	{prefix: "gemini-", provider: "google"},
	{prefix: "grok-", provider: "xai"},
}

func providerFromText(text string) string {
	for _, r := range providerRules {
		if ok, _ := r.pattern.MatchString(text); ok {
			return r.provider
		}
	}
	return ""
}

func providerFromSlug(slug string) string {
	slug = strings.ToLower(slug)
	for _, p := range slugPrefixes {
		if strings.HasPrefix(slug, p.prefix) {
			return p.provider
		}
	}
	return ""
}

// FromMarkup extracts capability records from the rows of an HTML models table.
// Rows without a model link or a recognizable provider are skipped without an error.
//
// A row names at most one price: when both capabilities are listed, that price is
// used for both of them.
func FromMarkup(markup string) model.ScrapeResult {
	res := model.ScrapeResult{Timestamp: time.Now().UTC()}
	seen := make(map[string]struct{})

	m, err := rowPattern.FindStringMatch(markup)
	for ; m != nil && err == nil; m, err = rowPattern.FindNextMatch(m) {
		row := m.String()
		slug := matchGroup(slugPattern, row, 1)
		if slug == "" {
			continue
		}
		text, terr := rowText(row)
		if terr != nil {
			res.Errorf("markup: row %s: %v", slug, terr)
			continue
		}
		provider := providerFromText(text)
		if provider == "" {
			provider = providerFromSlug(slug)
		}
		if provider == "" {
			continue
		}
		id := provider + "/" + slug
		if _, dup := seen[id]; dup {
			res.Errorf("markup: duplicated row for %s", id)
			continue
		}
		seen[id] = struct{}{}
		res.Models = append(res.Models, rowRecord(id, text, &res))
	}
	if err != nil {
		res.Errorf("markup: %v", err)
	}
	return res
}

func rowRecord(id, text string, res *model.ScrapeResult) model.CapabilityRecord {
	rec := model.CapabilityRecord{ID: id}
	negated, _ := negation.MatchString(text)
	if negated {
		return rec
	}
	hasImageGen, _ := imageGenLabel.MatchString(text)
	hasWebSearch, _ := webSearchLabel.MatchString(text)
	if !hasImageGen && !hasWebSearch {
		return rec
	}
	p := price.Parse(matchGroup(pricePattern, text, 0))
	if p == nil {
		res.Errorf("markup: %s lists a capability without a price", id)
		return rec
	}
	if hasImageGen {
		rec.PricingImageGen = model.Price(*p)
	}
	if hasWebSearch {
		rec.PricingWebSearch = model.Price(*p)
	}
	return rec
}

// rowText returns the visible text of a row, one space between cells and whitespace collapsed.
func rowText(row string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + row + "</table>"))
	if err != nil {
		return "", err
	}
	cells := doc.Find("td,th").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	if len(cells) == 0 {
		cells = []string{doc.Text()}
	}
	return strings.Join(strings.Fields(strings.Join(cells, " ")), " "), nil
}

func matchGroup(re *regexp2.Regexp, s string, group int) string {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return ""
	}
	groups := m.Groups()
	if group >= len(groups) {
		return ""
	}
	return groups[group].String()
}
