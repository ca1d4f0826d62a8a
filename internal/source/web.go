package source

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/model"
)

const (
	maxListingsPerPage = 10
	rawTextLimit       = 500
	userAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	addressPatterns = []*regexp.Regexp{
		// Address text is single-line; the run must not cross newlines or the
		// short suffixes (St, Ct) match inside following words.
		regexp.MustCompile(`(?i)\d+[^\S\n]+[A-Za-z ]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl)\b`),
		regexp.MustCompile(`\d+\s+[\w\s]+,\s*[\w\s]+,\s*[A-Z]{2}\s*\d{5}`),
	}
	ownerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Owner:\s*([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		regexp.MustCompile(`Contact:\s*([A-Z][a-z]+\s+[A-Z][a-z]+)`),
	}

	listingSelectors = []string{
		"div.listing",
		"div.property",
		"article.property-card",
		"div.property-item",
	}
)

// Web scans a property listing page for addresses and owners. Any failure
// (transport, status, no extractable listings) degrades to the sample
// records so a flaky source never empties a run.
type Web struct {
	URL     string
	hc      *http.Client
	limiter *rate.Limiter
}

// NewWeb creates a web sourcer for one listing URL. The per-sourcer rate
// limiter keeps repeated scans polite toward the listing host.
func NewWeb(listingURL string, timeout time.Duration) *Web {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Web{
		URL:     listingURL,
		hc:      &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (w *Web) Scan(ctx context.Context) ([]model.RawLead, error) {
	leads, err := w.scanPage(ctx)
	if err != nil {
		zap.L().Warn("source: web scan failed, using sample records",
			zap.String("url", w.URL),
			zap.Error(err),
		)
		return SampleLeads(w.URL), nil
	}
	if len(leads) == 0 {
		zap.L().Info("source: no listings extracted, using sample records",
			zap.String("url", w.URL),
		)
		return SampleLeads(w.URL), nil
	}
	return leads, nil
}

func (w *Web) scanPage(ctx context.Context) ([]model.RawLead, error) {
	if _, err := url.ParseRequestURI(w.URL); err != nil {
		return nil, eris.Wrapf(err, "source: invalid listing url %s", w.URL)
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "source: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.URL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "source: create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.hc.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "source: fetch %s", w.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("source: %s returned status %d", w.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "source: parse listing html")
	}

	return w.extractListings(doc), nil
}

func (w *Web) extractListings(doc *goquery.Document) []model.RawLead {
	var listings *goquery.Selection
	for _, selector := range listingSelectors {
		found := doc.Find(selector)
		if found.Length() > 0 {
			listings = found
			break
		}
	}
	if listings == nil {
		// Generic fallback: any div whose class mentions listings.
		listings = doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			class = strings.ToLower(class)
			return strings.Contains(class, "listing") || strings.Contains(class, "property")
		})
	}

	var leads []model.RawLead
	listings.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxListingsPerPage {
			return false
		}

		text := s.Text()
		address := ExtractAddress(text)
		if address == "" {
			return true
		}

		owner := ExtractOwner(text)
		if owner == "" {
			owner = "Owner Name Pending"
		}

		raw := text
		if len(raw) > rawTextLimit {
			raw = raw[:rawTextLimit]
		}

		leads = append(leads, model.RawLead{
			Address: address,
			Owner:   owner,
			Source:  w.URL,
			RawText: raw,
		})
		return true
	})

	return leads
}

// ExtractAddress finds the first street-address-shaped substring in text.
func ExtractAddress(text string) string {
	for _, p := range addressPatterns {
		if m := p.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// ExtractOwner finds an owner or contact name in text, or "".
func ExtractOwner(text string) string {
	for _, p := range ownerPatterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
